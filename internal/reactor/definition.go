package reactor

import (
	"github.com/fyrsmithlabs/sqscan/internal/props"
)

// Definition is one node of the resolved project tree. Display metadata and
// the file-set properties live in the property bag; directories are resolved
// to absolute paths by the builder. Each child is exclusively owned by its
// parent.
type Definition struct {
	properties  props.Properties
	baseDir     string
	workDir     string
	buildDir    string
	subProjects []*Definition
}

// NewDefinition creates a definition backed by the given bag. A nil bag is
// replaced by an empty one.
func NewDefinition(properties props.Properties) *Definition {
	if properties == nil {
		properties = props.New()
	}
	return &Definition{properties: properties}
}

// Key returns the unique project key, resolved from sonar.projectKey.
func (d *Definition) Key() string {
	return d.properties.Get(props.ProjectKey)
}

// Name returns the display name, or "" when none is set.
func (d *Definition) Name() string {
	return d.properties.Get(props.ProjectName)
}

// Version returns the project version, or "" when none is set.
func (d *Definition) Version() string {
	return d.properties.Get(props.ProjectVersion)
}

// Description returns the project description. It is never inherited from a
// parent, so "" means the project declared none itself.
func (d *Definition) Description() string {
	return d.properties.Get(props.ProjectDescription)
}

// BaseDir returns the absolute, existing base directory.
func (d *Definition) BaseDir() string {
	return d.baseDir
}

// WorkDir returns the absolute working directory. It is a computed path and
// need not exist yet.
func (d *Definition) WorkDir() string {
	return d.workDir
}

// BuildDir returns the absolute build directory, or "" when the project
// declared none.
func (d *Definition) BuildDir() string {
	return d.buildDir
}

// Properties returns the project's own bag, module-id prefixes already
// stripped. The cleaner mutates this bag in place.
func (d *Definition) Properties() props.Properties {
	return d.properties
}

// SubProjects returns the children in declared order; empty for a leaf.
func (d *Definition) SubProjects() []*Definition {
	return d.subProjects
}

// AddSubProject attaches child as the last sub-project.
func (d *Definition) AddSubProject(child *Definition) {
	d.subProjects = append(d.subProjects, child)
}

// SourceDirs returns the declared source paths.
func (d *Definition) SourceDirs() []string {
	return d.properties.List(props.Sources)
}

// TestDirs returns the declared test paths.
func (d *Definition) TestDirs() []string {
	return d.properties.List(props.Tests)
}

// Binaries returns the declared binary directories.
func (d *Definition) Binaries() []string {
	return d.properties.List(props.Binaries)
}

// Libraries returns the library entries. After cleaning these are absolute
// file paths, patterns fully expanded.
func (d *Definition) Libraries() []string {
	return d.properties.List(props.Libraries)
}
