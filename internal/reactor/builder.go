package reactor

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sqscan/internal/logging"
	"github.com/fyrsmithlabs/sqscan/internal/props"
)

// mandatorySimpleProject lists the properties a project without children must
// define, in the order missing keys are reported.
var mandatorySimpleProject = []string{
	props.ProjectBaseDir, props.ProjectKey, props.ProjectName,
	props.ProjectVersion, props.Sources,
}

// mandatoryMultiModuleProject lists the properties a project with children
// must define.
var mandatoryMultiModuleProject = []string{
	props.ProjectBaseDir, props.ProjectKey, props.ProjectName, props.ProjectVersion,
}

// mandatoryChildProject is checked on a child before its properties get
// merged with the parent ones.
var mandatoryChildProject = []string{props.ModuleKey, props.ProjectName}

// nonInheritedProperties never pass from a parent project to its children.
var nonInheritedProperties = map[string]struct{}{
	props.ProjectBaseDir:     {},
	props.WorkingDirectory:   {},
	props.Modules:            {},
	props.ProjectDescription: {},
}

// Builder resolves one flat property bag into a Reactor. A Builder is single
// use: Execute consumes the bag it was created with, and the computed root
// work directory only lives for the duration of that call.
type Builder struct {
	taskProps   props.Properties
	logger      *logging.Logger
	rootWorkDir string
}

// NewBuilder creates a builder over the given bag. A nil logger disables
// logging.
func NewBuilder(taskProps props.Properties, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Builder{taskProps: taskProps, logger: logger}
}

// Execute resolves, validates and cleans the project tree. On success the
// input bag is cleared; callers must not reuse it. On failure no partial
// tree is returned.
func (b *Builder) Execute(ctx context.Context) (*Reactor, error) {
	all := b.taskProps.Clone()

	seen := make(map[string]struct{})
	if err := collectModuleIDs("", all, seen); err != nil {
		return nil, err
	}
	moduleIDs := make([]string, 0, len(seen))
	for id := range seen {
		moduleIDs = append(moduleIDs, id)
	}
	// Reverse string order: a nested id such as "mod.sub" sorts before the
	// shorter "mod" it extends, so the more specific prefix is tried first
	// when partitioning keys.
	sort.Sort(sort.Reverse(sort.StringSlice(moduleIDs)))

	byModule := partitionByModule(all, moduleIDs)

	root, err := b.defineProject(ctx, byModule[""], nil)
	if err != nil {
		return nil, err
	}
	b.rootWorkDir = root.WorkDir()

	if err := b.defineChildren(ctx, root, byModule); err != nil {
		return nil, err
	}
	if err := b.cleanAndCheck(ctx, root); err != nil {
		return nil, err
	}

	// One-shot consumption contract: the caller must not reuse the bag.
	b.taskProps.Clear()

	result := NewReactor(root)
	b.logger.Debug(ctx, "reactor resolved",
		zap.String("root", root.Key()),
		zap.Int("projects", len(result.Projects())))
	return result, nil
}

// collectModuleIDs walks the declared module tree accumulating ids into
// seen. An id declared more than once anywhere in the bag is an error: a
// duplicate would make prefix-based partitioning ambiguous.
func collectModuleIDs(currentID string, all props.Properties, seen map[string]struct{}) error {
	if currentID != "" {
		if _, dup := seen[currentID]; dup {
			return configErrorf("Module ID '%s' is defined several times in the reactor", currentID)
		}
		seen[currentID] = struct{}{}
	}
	prefix := ""
	if currentID != "" {
		prefix = currentID + "."
	}
	for _, moduleID := range all.List(prefix + props.Modules) {
		if err := collectModuleIDs(moduleID, all, seen); err != nil {
			return err
		}
	}
	return nil
}

// partitionByModule splits the flat bag into one bag per module id, matching
// keys by exact "<moduleId>." prefix, first match wins. Unmatched keys go to
// the root bag, keyed by "".
func partitionByModule(all props.Properties, moduleIDs []string) map[string]props.Properties {
	byModule := make(map[string]props.Properties, len(moduleIDs)+1)
	for _, moduleID := range moduleIDs {
		byModule[moduleID] = props.New()
	}
	byModule[""] = props.New()

	for key, value := range all {
		assigned := false
		for _, moduleID := range moduleIDs {
			prefix := moduleID + "."
			if strings.HasPrefix(key, prefix) {
				byModule[moduleID].Set(key[len(prefix):], value)
				assigned = true
				break
			}
		}
		if !assigned {
			byModule[""].Set(key, value)
		}
	}
	return byModule
}

// defineProject instantiates one definition from its own bag. For the root
// (nil parent) the base directory must exist and declared paths are
// validated immediately; children arrive here with both already checked by
// loadChildProject.
func (b *Builder) defineProject(ctx context.Context, moduleProps props.Properties, parent *Definition) (*Definition, error) {
	mandatory := mandatorySimpleProject
	if moduleProps.Has(props.Modules) {
		mandatory = mandatoryMultiModuleProject
	}
	if err := checkMandatoryProperties(moduleProps, mandatory); err != nil {
		return nil, err
	}

	baseDir := moduleProps.Get(props.ProjectBaseDir)
	projectKey := moduleProps.Get(props.ProjectKey)

	var workDir string
	if parent == nil {
		abs, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, configErrorf("Unable to resolve path \"%s\"", baseDir)
		}
		baseDir = abs
		if !isDir(baseDir) {
			return nil, configErrorf("The base directory of the module '%s' does not exist: %s", projectKey, baseDir)
		}
		if err := b.validateDirectories(ctx, moduleProps, baseDir, projectKey); err != nil {
			return nil, err
		}
		workDir = b.initRootWorkDir(baseDir)
	} else {
		workDir = b.initModuleWorkDir(baseDir, moduleProps)
	}

	def := NewDefinition(moduleProps)
	def.baseDir = baseDir
	def.workDir = workDir
	def.buildDir = initModuleBuildDir(baseDir, moduleProps)

	b.logger.Debug(ctx, "project defined",
		zap.String("key", projectKey),
		zap.String("base_dir", baseDir),
		zap.String("work_dir", workDir))
	return def, nil
}

// initRootWorkDir returns the root working directory: the
// sonar.working.directory override (absolute, or relative to the base
// directory), defaulting to <baseDir>/.sonar.
func (b *Builder) initRootWorkDir(baseDir string) string {
	workDir := strings.TrimSpace(b.taskProps.Get(props.WorkingDirectory))
	if workDir == "" {
		return filepath.Join(baseDir, props.WorkingDirectoryDefault)
	}
	if filepath.IsAbs(workDir) {
		return filepath.Clean(workDir)
	}
	return filepath.Join(baseDir, workDir)
}

// initModuleWorkDir returns a child working directory: an explicit override
// wins, otherwise <rootWorkDir>/<sanitized module key>.
func (b *Builder) initModuleWorkDir(moduleBaseDir string, moduleProps props.Properties) string {
	workDir := strings.TrimSpace(moduleProps.Get(props.WorkingDirectory))
	if workDir == "" {
		return filepath.Join(b.rootWorkDir, sanitizeKey(moduleProps.Get(props.ProjectKey)))
	}
	if filepath.IsAbs(workDir) {
		return filepath.Clean(workDir)
	}
	return filepath.Join(moduleBaseDir, workDir)
}

// initModuleBuildDir returns the optional build directory, resolved against
// the module base directory; "" when the property is absent or blank.
func initModuleBuildDir(moduleBaseDir string, moduleProps props.Properties) string {
	buildDir := strings.TrimSpace(moduleProps.Get(props.ProjectBuildDir))
	if buildDir == "" {
		return ""
	}
	if filepath.IsAbs(buildDir) {
		return filepath.Clean(buildDir)
	}
	return filepath.Join(moduleBaseDir, buildDir)
}

// defineChildren builds and attaches the sub-projects declared by parent, in
// declared order. Grandchildren are resolved before a child is attached so
// that a failure deep in the tree leaves nothing partially visible.
func (b *Builder) defineChildren(ctx context.Context, parent *Definition, byModule map[string]props.Properties) error {
	parentProps := parent.Properties()
	for _, moduleID := range parentProps.List(props.Modules) {
		moduleCtx := logging.WithModuleKey(ctx, moduleID)
		child, err := b.loadChildProject(moduleCtx, parent, byModule[moduleID], moduleID)
		if err != nil {
			return err
		}
		if err := checkUniquenessOfChildKey(child, parent); err != nil {
			return err
		}
		if err := b.defineChildren(moduleCtx, child, byModule); err != nil {
			return err
		}
		parent.AddSubProject(child)
	}
	return nil
}

// loadChildProject resolves a child's base directory, defaults its key and
// name, validates its declared paths and merges the parent properties before
// defining it.
func (b *Builder) loadChildProject(ctx context.Context, parent *Definition, moduleProps props.Properties, moduleID string) (*Definition, error) {
	var baseDir string
	if moduleProps.Has(props.ProjectBaseDir) {
		baseDir = resolvePath(parent.BaseDir(), moduleProps.Get(props.ProjectBaseDir))
	} else {
		baseDir = filepath.Join(parent.BaseDir(), moduleID)
	}
	if err := setProjectBaseDir(baseDir, moduleProps, moduleID); err != nil {
		return nil, err
	}

	setModuleKeyAndNameIfNotDefined(moduleProps, moduleID, parent.Key())

	if err := checkMandatoryProperties(moduleProps, mandatoryChildProject); err != nil {
		return nil, err
	}
	if err := b.validateDirectories(ctx, moduleProps, baseDir, moduleID); err != nil {
		return nil, err
	}

	mergeParentProperties(moduleProps, parent.Properties())

	return b.defineProject(ctx, moduleProps, parent)
}

// setProjectBaseDir stores the resolved base directory into the child bag
// after checking it exists.
func setProjectBaseDir(baseDir string, childProps props.Properties, moduleID string) error {
	if !isDir(baseDir) {
		return configErrorf("The base directory of the module '%s' does not exist: %s", moduleID, baseDir)
	}
	childProps.Set(props.ProjectBaseDir, baseDir)
	return nil
}

// setModuleKeyAndNameIfNotDefined synthesizes the module key from the parent
// key and the module id (or the child's own project key when it declares
// one) and defaults the name to the module id. Already-set values are left
// alone, so repeated calls are no-ops.
func setModuleKeyAndNameIfNotDefined(childProps props.Properties, moduleID, parentKey string) {
	if !childProps.Has(props.ModuleKey) {
		if !childProps.Has(props.ProjectKey) {
			childProps.Set(props.ModuleKey, parentKey+":"+moduleID)
		} else {
			childProps.Set(props.ModuleKey, parentKey+":"+childProps.Get(props.ProjectKey))
		}
	}
	if !childProps.Has(props.ProjectName) {
		childProps.Set(props.ProjectName, moduleID)
	}
	// The resolved module key is the definition key.
	childProps.Set(props.ProjectKey, childProps.Get(props.ModuleKey))
}

// checkUniquenessOfChildKey verifies no already-attached sibling shares the
// child's resolved key.
func checkUniquenessOfChildKey(child, parent *Definition) error {
	for _, sibling := range parent.SubProjects() {
		if sibling.Key() == child.Key() {
			return configErrorf("Project '%s' can't have 2 modules with the following key: %s", parent.Key(), child.Key())
		}
	}
	return nil
}

// checkMandatoryProperties fails listing every missing key, in declaration
// order, naming the offending project by its key or "Unknown".
func checkMandatoryProperties(p props.Properties, mandatory []string) error {
	var missing []string
	for _, key := range mandatory {
		if !p.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	moduleKey := strings.TrimSpace(p.Get(props.ModuleKey))
	if moduleKey == "" {
		moduleKey = strings.TrimSpace(p.Get(props.ProjectKey))
	}
	if moduleKey == "" {
		moduleKey = "Unknown"
	}
	return configErrorf("You must define the following mandatory properties for '%s': %s", moduleKey, strings.Join(missing, ", "))
}

// mergeParentProperties copies parent entries into the child bag. A key the
// child already holds with a different value is a deliberate override and is
// kept; non-inherited properties are always excluded. The parent bag is not
// mutated.
func mergeParentProperties(childProps, parentProps props.Properties) {
	for key, value := range parentProps {
		if _, excluded := nonInheritedProperties[key]; excluded {
			continue
		}
		if existing, ok := childProps[key]; !ok || existing == value {
			childProps[key] = value
		}
	}
}

// sanitizeKey makes a project key usable as a directory name: any whitespace
// rune is removed and ':' becomes '_'.
func sanitizeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch {
		case r == ':':
			sb.WriteRune('_')
		case unicode.IsSpace(r):
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
