package reactor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sqscan/internal/props"
)

// validateDirectories checks the declared library patterns, test paths and
// binary directories of a project that has no sub-modules. Aggregators skip
// this entirely: their file-set properties get stripped during cleaning.
func (b *Builder) validateDirectories(ctx context.Context, p props.Properties, baseDir, projectID string) error {
	if p.Has(props.Modules) {
		return nil
	}

	for _, pattern := range p.List(props.Libraries) {
		if len(libraryMatches(baseDir, pattern)) == 0 {
			b.logger.Error(ctx, "invalid property value",
				zap.String("property", props.Libraries),
				zap.String("module", projectID))
			return configErrorf("No files nor directories matching '%s' in directory %s", pattern, baseDir)
		}
	}

	if err := b.checkExistenceOfPaths(ctx, projectID, baseDir, p.List(props.Tests), props.Tests); err != nil {
		return err
	}
	return b.checkExistenceOfDirectories(ctx, projectID, baseDir, p.List(props.Binaries), props.Binaries)
}

// cleanAndCheck walks the finished tree applying the leaf and aggregator
// rules to every definition.
func (b *Builder) cleanAndCheck(ctx context.Context, project *Definition) error {
	if len(project.SubProjects()) == 0 {
		return b.cleanModuleProperties(ctx, project)
	}
	b.cleanAggregatorProperties(ctx, project)
	for _, module := range project.SubProjects() {
		if err := b.cleanAndCheck(ctx, module); err != nil {
			return err
		}
	}
	return nil
}

// cleanModuleProperties finalizes a leaf project: every declared source path
// must exist, and library patterns are expanded to a deduplicated list of
// absolute paths replacing the raw patterns.
func (b *Builder) cleanModuleProperties(ctx context.Context, project *Definition) error {
	properties := project.Properties()

	if err := b.checkExistenceOfPaths(ctx, project.Key(), project.BaseDir(), project.SourceDirs(), props.Sources); err != nil {
		return err
	}

	if properties.Has(props.Libraries) {
		var libPaths []string
		resolved := make(map[string]struct{})
		for _, pattern := range properties.List(props.Libraries) {
			for _, file := range libraryMatches(project.BaseDir(), pattern) {
				if _, dup := resolved[file]; dup {
					continue
				}
				resolved[file] = struct{}{}
				libPaths = append(libPaths, file)
			}
		}
		properties.Set(props.Libraries, strings.Join(libPaths, ","))
	}
	return nil
}

// cleanAggregatorProperties strips the file-set properties a multi-module
// project is not permitted to declare. A declared source directory that
// physically exists gets a warning first: its files will not be analysed.
func (b *Builder) cleanAggregatorProperties(ctx context.Context, project *Definition) {
	properties := project.Properties()

	for _, path := range project.SourceDirs() {
		sourceDir := resolvePath(project.BaseDir(), path)
		if isDir(sourceDir) {
			b.logger.Warn(ctx, "a multi-module project can't have source folders; create a sub-module to analyse these files",
				zap.String("project", project.Key()),
				zap.String("ignored_folder", sourceDir))
		}
	}

	properties.Remove(props.Sources)
	properties.Remove(props.Tests)
	properties.Remove(props.Binaries)
	properties.Remove(props.Libraries)
}

// checkExistenceOfPaths fails on the first declared path that does not exist
// as a file or directory.
func (b *Builder) checkExistenceOfPaths(ctx context.Context, moduleRef, baseDir string, paths []string, propName string) error {
	for _, path := range paths {
		if !pathExists(resolvePath(baseDir, path)) {
			b.logger.Error(ctx, "invalid property value",
				zap.String("property", propName),
				zap.String("module", moduleRef))
			return configErrorf("The folder '%s' does not exist for '%s' (base directory = %s)", path, moduleRef, baseDir)
		}
	}
	return nil
}

// checkExistenceOfDirectories is like checkExistenceOfPaths but requires
// each path to be a directory.
func (b *Builder) checkExistenceOfDirectories(ctx context.Context, moduleRef, baseDir string, dirPaths []string, propName string) error {
	for _, path := range dirPaths {
		if !isDir(resolvePath(baseDir, path)) {
			b.logger.Error(ctx, "invalid property value",
				zap.String("property", propName),
				zap.String("module", moduleRef))
			return configErrorf("The folder '%s' does not exist for '%s' (base directory = %s)", path, moduleRef, baseDir)
		}
	}
	return nil
}
