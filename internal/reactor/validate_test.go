package reactor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/sqscan/internal/props"
)

func TestLibraryDirectoryResolvedForLeaf(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "sources", "lib")

	taskProps := simpleProjectProps(base)
	taskProps.Set(props.Libraries, "lib")

	r, err := execute(t, taskProps)
	require.NoError(t, err)

	libs := r.Root().Libraries()
	require.Len(t, libs, 1)
	assert.Equal(t, filepath.Join(base, "lib"), libs[0])
	assert.Equal(t, "lib", filepath.Base(libs[0]))
}

func TestFailIfUnmatchingLibPattern(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "sources", "libs")

	taskProps := simpleProjectProps(base)
	taskProps.Set(props.Libraries, "libs/*.txt")

	_, err := execute(t, taskProps)
	assert.EqualError(t, err, "No files nor directories matching 'libs/*.txt' in directory "+base)
}

func TestLibraryResolutionDeduplicates(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "sources")
	touch(t, base, "libs/lib1.txt", "libs/lib2.txt")

	// Two overlapping patterns match lib1.txt twice.
	taskProps := simpleProjectProps(base)
	taskProps.Set(props.Libraries, "libs/*.txt, libs/lib1.*")

	r, err := execute(t, taskProps)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(base, "libs", "lib1.txt"),
		filepath.Join(base, "libs", "lib2.txt"),
	}, r.Root().Libraries())
}

func TestFailIfExplicitUnexistingTestDir(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "sources")

	taskProps := simpleProjectProps(base)
	taskProps.Set(props.Tests, "tests")

	_, err := execute(t, taskProps)
	assert.EqualError(t, err, "The folder 'tests' does not exist for 'com.foo.project' (base directory = "+base+")")
}

func TestFailIfExplicitUnexistingBinaryDir(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "sources")

	taskProps := simpleProjectProps(base)
	taskProps.Set(props.Binaries, "bin")

	_, err := execute(t, taskProps)
	assert.EqualError(t, err, "The folder 'bin' does not exist for 'com.foo.project' (base directory = "+base+")")
}

func TestBinariesMustBeDirectories(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "sources")
	touch(t, base, "bin") // a regular file is not enough

	taskProps := simpleProjectProps(base)
	taskProps.Set(props.Binaries, "bin")

	_, err := execute(t, taskProps)
	assert.Error(t, err)
}

func TestSourceFileTolerated(t *testing.T) {
	// Sources accept any existing path, not only directories.
	base := t.TempDir()
	touch(t, base, "main.go")

	taskProps := simpleProjectProps(base)
	taskProps.Set(props.Sources, "main.go")

	_, err := execute(t, taskProps)
	assert.NoError(t, err)
}
