package model

// Step is one abstract build action within a Job. The set of variants is
// closed: every adapter performs an exhaustive type switch over it, and a
// step no adapter recognizes is a transform-time error, never a silent
// omission. Adding a variant deliberately breaks every adapter until it
// handles the new case.
type Step interface {
	// Kind returns the stable identifier used in pipeline files and in
	// error messages, e.g. "run_tests".
	Kind() string

	// sealed prevents variants outside this package.
	sealed()
}

// Language identifies the toolchain a step operates on.
type Language string

const (
	Rust   Language = "rust"
	Go     Language = "go"
	Python Language = "python"
)

// CoverageProvider identifies a coverage reporting service.
type CoverageProvider string

const (
	Codecov     CoverageProvider = "codecov"
	Coveralls   CoverageProvider = "coveralls"
	CodeClimate CoverageProvider = "codeclimate"
)

// Registry identifies a package registry for publishing.
type Registry string

const (
	CratesIO Registry = "crates_io"
	PyPI     Registry = "pypi"
	NPM      Registry = "npm"
)

// Checkout clones the repository. Some platforms do this implicitly.
type Checkout struct{}

// SetupToolchain installs a language toolchain at a given version.
type SetupToolchain struct {
	Language Language
	Version  string
}

// InstallDependencies fetches project dependencies. Manager optionally
// hints at the package manager (e.g. "pip", "poetry"); empty means the
// language default.
type InstallDependencies struct {
	Language Language
	Manager  string
}

// RunTests executes the test suite, optionally with coverage collection.
type RunTests struct {
	Language Language
	Coverage bool
}

// RunLinter runs a lint tool, e.g. "clippy" or "golangci-lint".
type RunLinter struct {
	Language Language
	Tool     string
}

// SecurityScan runs a dependency/security audit tool, e.g. "audit".
type SecurityScan struct {
	Language Language
	Tool     string
}

// Build compiles the project. Release selects the optimized profile.
type Build struct {
	Language Language
	Release  bool
}

// RunCommand runs an arbitrary named shell command.
type RunCommand struct {
	Name       string
	Command    string
	WorkingDir string
}

// Cache saves the given paths under a cache key after the job.
type Cache struct {
	Paths []string
	Key   string
}

// RestoreCache restores a previously saved cache by key.
type RestoreCache struct {
	Key string
}

// UploadArtifact stores build outputs under a named artifact.
type UploadArtifact struct {
	Name  string
	Paths []string
}

// UploadCoverage sends collected coverage to a reporting service.
type UploadCoverage struct {
	Provider CoverageProvider
}

// PublishPackage publishes to a package registry using a secret token
// exposed through the named environment variable.
type PublishPackage struct {
	Registry Registry
	TokenEnv string
}

// PublishRelease creates a release for tags matching TagPattern,
// attaching the listed artifacts.
type PublishRelease struct {
	TagPattern string
	Artifacts  []string
}

func (Checkout) Kind() string            { return "checkout" }
func (SetupToolchain) Kind() string      { return "setup_toolchain" }
func (InstallDependencies) Kind() string { return "install_dependencies" }
func (RunTests) Kind() string            { return "run_tests" }
func (RunLinter) Kind() string           { return "run_linter" }
func (SecurityScan) Kind() string        { return "security_scan" }
func (Build) Kind() string               { return "build" }
func (RunCommand) Kind() string          { return "run_command" }
func (Cache) Kind() string               { return "cache" }
func (RestoreCache) Kind() string        { return "restore_cache" }
func (UploadArtifact) Kind() string      { return "upload_artifact" }
func (UploadCoverage) Kind() string      { return "upload_coverage" }
func (PublishPackage) Kind() string      { return "publish_package" }
func (PublishRelease) Kind() string      { return "publish_release" }

func (Checkout) sealed()            {}
func (SetupToolchain) sealed()      {}
func (InstallDependencies) sealed() {}
func (RunTests) sealed()            {}
func (RunLinter) sealed()           {}
func (SecurityScan) sealed()        {}
func (Build) sealed()               {}
func (RunCommand) sealed()          {}
func (Cache) sealed()               {}
func (RestoreCache) sealed()        {}
func (UploadArtifact) sealed()      {}
func (UploadCoverage) sealed()      {}
func (PublishPackage) sealed()      {}
func (PublishRelease) sealed()      {}
