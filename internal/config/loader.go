// Package config loads the flat property bag that drives a scan.
//
// Configuration precedence (highest to lowest):
//  1. -D command-line overrides
//  2. SONAR_* environment variables (explicit mapping, see envProperties)
//  3. sonar-project.properties in the project directory
//
// The result is a single flat bag; module-scoped keys keep their
// "<moduleId>." prefixes and are split apart later by the reactor builder.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/sqscan/internal/props"
)

const (
	// DefaultPropertiesFile is looked up inside the project directory.
	DefaultPropertiesFile = "sonar-project.properties"

	maxPropertiesFileSize = 1024 * 1024 // 1MB
)

// envProperties maps the supported environment variables to property names.
// Unmapped SONAR_* variables are ignored: property names are camelCase, so a
// generic underscore-to-dot transform cannot produce them.
var envProperties = map[string]string{
	"SONAR_HOST_URL":          props.HostURL,
	"SONAR_LOGIN":             props.Login,
	"SONAR_PASSWORD":          props.Password,
	"SONAR_VERBOSE":           props.Verbose,
	"SONAR_WORKING_DIRECTORY": props.WorkingDirectory,
}

// LoadOptions controls where properties are read from.
type LoadOptions struct {
	// ProjectDir is the directory being scanned. Used to locate the default
	// properties file and to default sonar.projectBaseDir.
	ProjectDir string

	// PropertiesFile overrides the properties file location. When set the
	// file must exist; when empty, a missing default file is tolerated.
	PropertiesFile string

	// Overrides are -D definitions, applied last.
	Overrides map[string]string
}

// Load builds the flat property bag from file, environment and overrides.
func Load(opts LoadOptions) (props.Properties, error) {
	k := koanf.New(".")

	path := opts.PropertiesFile
	explicit := path != ""
	if !explicit {
		path = filepath.Join(opts.ProjectDir, DefaultPropertiesFile)
	}

	content, err := readPropertiesFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), newPropertiesParser()); err != nil {
			return nil, fmt.Errorf("failed to parse properties file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No properties file; everything must come from env and overrides.
	default:
		// User-facing startup failure, phrased the way scanner users know it.
		return nil, fmt.Errorf("Impossible to read the property file: %s: %w", path, err)
	}

	// Override with environment variables. The callback maps a variable to
	// its property name; returning "" drops unmapped variables.
	if err := k.Load(env.Provider("SONAR_", ".", func(s string) string {
		return envProperties[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// -D overrides, serialized through the same parser so values get the
	// same trimming and escape handling as file content.
	if len(opts.Overrides) > 0 {
		keys := make([]string, 0, len(opts.Overrides))
		for key := range opts.Overrides {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var sb strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&sb, "%s=%s\n", key, opts.Overrides[key])
		}
		if err := k.Load(rawbytes.Provider([]byte(sb.String())), newPropertiesParser()); err != nil {
			return nil, fmt.Errorf("failed to apply property overrides: %w", err)
		}
	}

	bag := props.New()
	for key, value := range k.All() {
		bag.Set(key, fmt.Sprintf("%v", value))
	}

	// The scanner owns the base directory default: the project dir itself.
	if !bag.Has(props.ProjectBaseDir) {
		abs, err := filepath.Abs(opts.ProjectDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project directory: %w", err)
		}
		bag.Set(props.ProjectBaseDir, abs)
	}

	return bag, nil
}

// readPropertiesFile reads path through a single file descriptor, rejecting
// oversized files.
func readPropertiesFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxPropertiesFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", maxPropertiesFileSize)
	}

	return io.ReadAll(f)
}
