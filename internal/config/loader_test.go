package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/sqscan/internal/props"
)

func writeProps(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultPropertiesFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromDefaultFile(t *testing.T) {
	dir := t.TempDir()
	writeProps(t, dir, "sonar.projectKey=my-project\nsonar.sources=src\n")

	bag, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "my-project", bag.Get(props.ProjectKey))
	assert.Equal(t, "src", bag.Get(props.Sources))
}

func TestLoadDefaultsBaseDirToProjectDir(t *testing.T) {
	dir := t.TempDir()
	writeProps(t, dir, "sonar.projectKey=my-project\n")

	bag, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, bag.Get(props.ProjectBaseDir))
}

func TestLoadKeepsExplicitBaseDir(t *testing.T) {
	dir := t.TempDir()
	writeProps(t, dir, "sonar.projectBaseDir=/somewhere/else\n")

	bag, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "/somewhere/else", bag.Get(props.ProjectBaseDir))
}

func TestLoadMissingDefaultFileTolerated(t *testing.T) {
	dir := t.TempDir()

	bag, err := Load(LoadOptions{
		ProjectDir: dir,
		Overrides:  map[string]string{props.ProjectKey: "cli-project"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cli-project", bag.Get(props.ProjectKey))
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(LoadOptions{
		ProjectDir:     dir,
		PropertiesFile: filepath.Join(dir, "no-such.properties"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such.properties")
}

func TestLoadExplicitFileOverridesDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	writeProps(t, dir, "sonar.projectKey=from-default\n")
	explicit := filepath.Join(dir, "custom.properties")
	require.NoError(t, os.WriteFile(explicit, []byte("sonar.projectKey=from-custom\n"), 0o644))

	bag, err := Load(LoadOptions{ProjectDir: dir, PropertiesFile: explicit})
	require.NoError(t, err)

	assert.Equal(t, "from-custom", bag.Get(props.ProjectKey))
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeProps(t, dir, "sonar.host.url=http://from-file\n")
	t.Setenv("SONAR_HOST_URL", "http://from-env")

	bag, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", bag.Get(props.HostURL))
}

func TestLoadOverridesWinOverEnvironmentAndFile(t *testing.T) {
	dir := t.TempDir()
	writeProps(t, dir, "sonar.host.url=http://from-file\n")
	t.Setenv("SONAR_HOST_URL", "http://from-env")

	bag, err := Load(LoadOptions{
		ProjectDir: dir,
		Overrides:  map[string]string{props.HostURL: "http://from-cli"},
	})
	require.NoError(t, err)

	assert.Equal(t, "http://from-cli", bag.Get(props.HostURL))
}

// Merging is only deterministic when every source occupies the same nested
// paths inside koanf; a flat-vs-nested mismatch would let map iteration
// order pick the winner. Repeated loads keep this honest.
func TestLoadPrecedenceIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeProps(t, dir, "sonar.host.url=http://from-file\nsonar.login=file-login\n")
	t.Setenv("SONAR_HOST_URL", "http://from-env")
	t.Setenv("SONAR_LOGIN", "env-login")

	for i := 0; i < 200; i++ {
		bag, err := Load(LoadOptions{
			ProjectDir: dir,
			Overrides:  map[string]string{props.HostURL: "http://from-cli"},
		})
		require.NoError(t, err)
		require.Equal(t, "http://from-cli", bag.Get(props.HostURL), "iteration %d", i)
		require.Equal(t, "env-login", bag.Get(props.Login), "iteration %d", i)
	}
}

func TestLoadIgnoresUnmappedEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SONAR_SOMETHING_ELSE", "value")

	bag, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	for _, key := range bag.Keys() {
		assert.NotContains(t, key, "SOMETHING")
	}
}

func TestLoadModuleScopedKeysSurvive(t *testing.T) {
	dir := t.TempDir()
	writeProps(t, dir, "sonar.modules=module1\nmodule1.sonar.projectName=Module One\n")

	bag, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "module1", bag.Get(props.Modules))
	assert.Equal(t, "Module One", bag.Get("module1.sonar.projectName"))
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	big := make([]byte, maxPropertiesFileSize+1)
	for i := range big {
		big[i] = '#'
	}
	path := filepath.Join(dir, DefaultPropertiesFile)
	require.NoError(t, os.WriteFile(path, big, 0o644))

	_, err := Load(LoadOptions{ProjectDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
