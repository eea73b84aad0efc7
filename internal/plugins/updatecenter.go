// Package plugins resolves and downloads analyzer plugins from a server's
// update center before a scan runs.
package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrPluginNotFound is returned when the update center has no installable
// release for a requested plugin key.
var ErrPluginNotFound = errors.New("plugin not found in update center")

// Release describes a single downloadable plugin artifact.
type Release struct {
	// Key identifies the plugin (e.g. "java", "go").
	Key string `json:"key"`

	// Version is the release version string.
	Version string `json:"version"`

	// Filename is the artifact name the release is installed under.
	Filename string `json:"filename"`

	// DownloadURL is where the artifact is fetched from.
	DownloadURL string `json:"downloadUrl"`
}

// UpdateCenter resolves plugin keys to installable releases. A plugin may
// expand to multiple releases when it depends on other plugins.
type UpdateCenter interface {
	FindInstallablePlugins(ctx context.Context, pluginKey string) ([]Release, error)
}

const defaultResolveTimeout = 30 * time.Second

// HTTPUpdateCenter queries a server's update-center endpoint over HTTP.
type HTTPUpdateCenter struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPUpdateCenter creates an update center rooted at the server URL.
func NewHTTPUpdateCenter(serverURL string) (*HTTPUpdateCenter, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server URL required")
	}
	return &HTTPUpdateCenter{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultResolveTimeout,
		},
	}, nil
}

type installablePluginsResponse struct {
	Plugins []Release `json:"plugins"`
}

// FindInstallablePlugins asks the server which releases must be installed
// for the given plugin key.
func (c *HTTPUpdateCenter) FindInstallablePlugins(ctx context.Context, pluginKey string) ([]Release, error) {
	endpoint := fmt.Sprintf("%s/api/updatecenter/installable_plugins?plugin=%s",
		c.baseURL, url.QueryEscape(pluginKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query update center: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, pluginKey)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("update center returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed installablePluginsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode update center response: %w", err)
	}
	if len(parsed.Plugins) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, pluginKey)
	}

	for i := range parsed.Plugins {
		if parsed.Plugins[i].Filename == "" {
			parsed.Plugins[i].Filename = fmt.Sprintf("%s-%s.jar", parsed.Plugins[i].Key, parsed.Plugins[i].Version)
		}
	}
	return parsed.Plugins, nil
}
