package props

// Well-known property names. All core properties live in the sonar.*
// namespace; module-scoped declarations prepend "<moduleId>." to these.
const (
	// ProjectKey uniquely identifies a project. For sub-modules the builder
	// resolves it from ModuleKey.
	ProjectKey = "sonar.projectKey"

	// ModuleKey is the resolved key of a sub-module. Synthesized as
	// "<parentKey>:<moduleId>" when a module does not declare it.
	ModuleKey = "sonar.moduleKey"

	ProjectName        = "sonar.projectName"
	ProjectVersion     = "sonar.projectVersion"
	ProjectDescription = "sonar.projectDescription"

	// ProjectBaseDir is the project root directory. Mandatory for the root
	// project; resolved against the parent base directory for sub-modules.
	ProjectBaseDir = "sonar.projectBaseDir"

	// ProjectBuildDir is an optional build output directory.
	ProjectBuildDir = "sonar.projectBuildDir"

	// Modules lists the sub-module ids of a project, comma-separated.
	Modules = "sonar.modules"

	Sources   = "sonar.sources"
	Tests     = "sonar.tests"
	Binaries  = "sonar.binaries"
	Libraries = "sonar.libraries"

	// WorkingDirectory overrides the scan working directory, absolute or
	// relative to the project base directory.
	WorkingDirectory = "sonar.working.directory"

	// WorkingDirectoryDefault is the work directory created under the root
	// base directory when no override is declared.
	WorkingDirectoryDefault = ".sonar"

	// HostURL is the server consulted by the plugin update center.
	HostURL = "sonar.host.url"

	// Plugins lists plugin keys to install before analysis, comma-separated.
	Plugins = "sonar.plugins"

	Login    = "sonar.login"
	Password = "sonar.password"

	// Verbose switches the scan to debug logging when set to "true".
	Verbose = "sonar.verbose"
)
