package reactor

import (
	"os"
	"path/filepath"
	"strings"
)

// resolvePath resolves path against baseDir. Absolute paths pass through;
// both forms are cleaned to canonical form.
func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// libraryMatches expands a library pattern against baseDir and returns the
// matching absolute paths, in directory listing order. A pattern holds at
// most one directory part before the final separator; the remainder is a
// filename wildcard. When the wildcard contains a glob character only
// regular files match, otherwise directories match too.
func libraryMatches(baseDir, pattern string) []string {
	dirPath, filePattern := ".", pattern
	if i := strings.LastIndexAny(pattern, `/\`); i >= 0 {
		dirPath, filePattern = pattern[:i], pattern[i+1:]
	}

	dir := resolvePath(baseDir, dirPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	filesOnly := strings.ContainsAny(filePattern, "*?")
	var matches []string
	for _, entry := range entries {
		ok, err := filepath.Match(filePattern, entry.Name())
		if err != nil || !ok {
			continue
		}
		if filesOnly && entry.IsDir() {
			continue
		}
		matches = append(matches, filepath.Join(dir, entry.Name()))
	}
	return matches
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
