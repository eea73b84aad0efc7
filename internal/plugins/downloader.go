package plugins

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sqscan/internal/logging"
)

const defaultDownloadTimeout = 5 * time.Minute

// Downloader installs plugin artifacts into a local directory. Artifacts are
// written to a ".tmp" file first and renamed once complete, so the directory
// never holds a partially downloaded plugin under its final name.
type Downloader struct {
	center      UpdateCenter
	httpClient  *http.Client
	downloadDir string
	logger      *logging.Logger
}

// NewDownloader creates a downloader installing into downloadDir.
func NewDownloader(center UpdateCenter, downloadDir string, logger *logging.Logger) *Downloader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Downloader{
		center: center,
		httpClient: &http.Client{
			Timeout: defaultDownloadTimeout,
		},
		downloadDir: downloadDir,
		logger:      logger,
	}
}

// Install resolves and downloads every given plugin key. It returns the paths
// of the installed artifacts. On any failure the already-downloaded artifacts
// are removed, leaving the download directory as it was.
func (d *Downloader) Install(ctx context.Context, pluginKeys []string) ([]string, error) {
	if len(pluginKeys) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(d.downloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plugin directory %s: %w", d.downloadDir, err)
	}

	var installed []string
	for _, key := range pluginKeys {
		releases, err := d.center.FindInstallablePlugins(ctx, key)
		if err != nil {
			d.cleanup(ctx, installed)
			return nil, err
		}
		for _, release := range releases {
			path, err := d.download(ctx, release)
			if err != nil {
				d.cleanup(ctx, installed)
				return nil, err
			}
			installed = append(installed, path)
			d.logger.Info(ctx, "installed plugin",
				zap.String("plugin.key", release.Key),
				zap.String("plugin.version", release.Version),
				zap.String("path", path))
		}
	}
	return installed, nil
}

func (d *Downloader) download(ctx context.Context, release Release) (string, error) {
	target := filepath.Join(d.downloadDir, filepath.Base(release.Filename))
	tempPath := target + ".tmp"

	d.logger.Debug(ctx, "downloading plugin",
		zap.String("plugin.key", release.Key),
		zap.String("url", release.DownloadURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, release.DownloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request for %s: %w", release.Key, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download plugin %s: %w", release.Key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("failed to download plugin %s: status %d: %s",
			release.Key, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	f, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", tempPath, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write plugin %s: %w", release.Key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write plugin %s: %w", release.Key, err)
	}

	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to install plugin %s: %w", release.Key, err)
	}
	return target, nil
}

func (d *Downloader) cleanup(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			d.logger.Warn(ctx, "failed to remove partially installed plugin",
				zap.String("path", path), zap.Error(err))
		}
	}
}
