package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/sqscan/internal/config"
	"github.com/fyrsmithlabs/sqscan/internal/logging"
	"github.com/fyrsmithlabs/sqscan/internal/plugins"
	"github.com/fyrsmithlabs/sqscan/internal/props"
	"github.com/fyrsmithlabs/sqscan/internal/reactor"
)

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	overrides, err := parseDefines(defines)
	if err != nil {
		return err
	}

	bag, err := config.Load(config.LoadOptions{
		ProjectDir:     projectDir,
		PropertiesFile: propertiesFile,
		Overrides:      overrides,
	})
	if err != nil {
		return err
	}

	level, err := logging.LevelFromString(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	// sonar.verbose bumps the level unless --log-level was given explicitly.
	if bag.Get(props.Verbose) == "true" && !cmd.Flags().Changed("log-level") {
		level = zapcore.DebugLevel
	}
	logCfg := logging.NewDefaultConfig()
	logCfg.Level = level
	logCfg.Format = logFormat
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx = logging.WithScanID(ctx, uuid.NewString())
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "starting scan",
		zap.String("version", version),
		zap.String("project_dir", projectDir))

	if logger.Enabled(zapcore.DebugLevel) {
		propsLogger := logger.Named("props")
		for _, key := range bag.Keys() {
			propsLogger.Debug(ctx, "resolved property", logging.PropertyField(key, bag.Get(key)))
		}
	}

	hostURL := bag.Get(props.HostURL)
	pluginKeys := bag.List(props.Plugins)

	result, err := reactor.NewBuilder(bag, logger).Execute(ctx)
	if err != nil {
		var cfgErr *reactor.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration error: %s\n", cfgErr.Message)
		}
		return err
	}

	root := result.Root()
	logger.Info(ctx, "project tree resolved",
		zap.String("project_key", root.Key()),
		zap.Int("modules", len(result.Projects())))

	if jsonOutput {
		if err := renderJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		renderText(cmd.OutOrStdout(), result)
	}

	if err := installPlugins(ctx, logger, root, hostURL, pluginKeys); err != nil {
		return err
	}

	return nil
}

// installPlugins fetches the configured analyzer plugins into the root
// working directory. Skipped offline or when no server/plugins are set.
func installPlugins(ctx context.Context, logger *logging.Logger, root *reactor.Definition, hostURL string, pluginKeys []string) error {
	if offline || hostURL == "" || len(pluginKeys) == 0 {
		return nil
	}

	center, err := plugins.NewHTTPUpdateCenter(hostURL)
	if err != nil {
		return err
	}
	downloadDir := filepath.Join(root.WorkDir(), "plugins")
	downloader := plugins.NewDownloader(center, downloadDir, logger)

	installed, err := downloader.Install(ctx, pluginKeys)
	if err != nil {
		return fmt.Errorf("failed to install plugins: %w", err)
	}
	logger.Info(ctx, "plugins installed",
		zap.Int("count", len(installed)),
		zap.String("dir", downloadDir))
	return nil
}

// exitCode maps an error to the process exit status. Configuration mistakes
// get a distinct status so CI scripts can tell them from infrastructure
// failures.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr *reactor.ConfigurationError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}
