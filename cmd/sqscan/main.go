// Package main implements the sqscan CLI, which resolves a project's flat
// property bag into a hierarchical module tree and prepares a scan.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// version information (set via ldflags during build)
var version = "dev"

var (
	defines        []string
	projectDir     string
	propertiesFile string
	offline        bool
	jsonOutput     bool
	logLevel       string
	logFormat      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "sqscan",
	Short: "Resolve a project's analysis configuration into a module tree",
	Long: `sqscan reads a project's analysis properties (from sonar-project.properties,
SONAR_* environment variables and -D overrides), resolves the hierarchical
module tree with inherited settings, and downloads the analyzer plugins the
scan needs.

Examples:
  # Resolve the project in the current directory
  sqscan

  # Resolve another directory with an override
  sqscan --project-dir ./service -Dsonar.projectVersion=2.0

  # Print the resolved tree as JSON
  sqscan --json`,
	Version: version,
	RunE:    runScan,
}

func init() {
	rootCmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "property override (-Dkey=value)")
	rootCmd.Flags().StringVar(&projectDir, "project-dir", ".", "project directory to scan")
	rootCmd.Flags().StringVar(&propertiesFile, "properties-file", "", "properties file (default <project-dir>/sonar-project.properties)")
	rootCmd.Flags().BoolVar(&offline, "offline", false, "skip plugin downloads")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the resolved tree as JSON")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
}

// parseDefines turns -D arguments into a property map. A bare key without a
// value is treated as a boolean flag.
func parseDefines(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(args))
	for _, arg := range args {
		if arg == "" || arg[0] == '=' {
			return nil, fmt.Errorf("invalid property definition: %q", arg)
		}
		key, value, found := strings.Cut(arg, "=")
		if !found {
			value = "true"
		}
		out[key] = value
	}
	return out, nil
}
