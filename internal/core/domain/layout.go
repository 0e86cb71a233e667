package domain

import "path/filepath"

const (
	// MixProjectFile marks a directory as an Elixir application.
	MixProjectFile = "mix.exs"

	// ConfigFileName is the name of the current buildpack configuration file.
	ConfigFileName = ".elixir-buildpack.yml"

	// LegacyConfigFileName is the name of the key=value configuration file of older buildpacks.
	LegacyConfigFileName = "elixir_buildpack.config"

	// ExportFileName is the file through which buildpacks hand environment to their successors.
	ExportFileName = "export"

	// CacheNamespace is the subdirectory of the platform cache owned by this buildpack.
	CacheNamespace = "elixir-buildpack"

	// StateFileName is the name of the last-run record inside the cache.
	StateFileName = "last-run.yml"

	// RuntimeCacheDir holds the extracted OTP release.
	RuntimeCacheDir = "otp"

	// LanguageCacheDir holds the extracted Elixir release.
	LanguageCacheDir = "elixir"

	// MixCacheDir holds the persisted Mix home.
	MixCacheDir = "mix"

	// HexCacheDir holds the persisted Hex home.
	HexCacheDir = "hex"

	// DepsCacheDir holds the persisted application dependencies.
	DepsCacheDir = "deps"

	// BuildCacheDir holds the persisted build artifacts.
	BuildCacheDir = "build"

	// DownloadCacheDir holds downloaded toolchain archives.
	DownloadCacheDir = "download"

	// AppMixDir is the Mix home inside the application.
	AppMixDir = ".mix"

	// AppHexDir is the Hex home inside the application.
	AppHexDir = ".hex"

	// AppDepsDir is the dependency directory inside the application.
	AppDepsDir = "deps"

	// AppBuildDir is the build artifact directory inside the application.
	AppBuildDir = "_build"

	// PlatformToolsDir holds the installed toolchains inside the application.
	PlatformToolsDir = ".platform-tools"

	// ProfileDir holds scripts sourced by the platform when the application boots.
	ProfileDir = ".profile.d"

	// ProfileScriptName is the name of the script that puts the toolchains on the PATH at boot.
	ProfileScriptName = "elixir-buildpack.sh"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission bit mask added to toolchain executables.
	ExecPerm = 0o111
)

// Layout locates every directory a build touches.
type Layout struct {
	// AppDir is the application source tree being built.
	AppDir string
	// CacheDir is the buildpack's own cache root, already namespaced.
	CacheDir string
	// EnvDir contains one file per injected environment variable.
	EnvDir string
}

// NewLayout namespaces the platform cache directory for this buildpack.
func NewLayout(appDir, platformCacheDir, envDir string) Layout {
	return Layout{
		AppDir:   filepath.Clean(appDir),
		CacheDir: filepath.Join(platformCacheDir, CacheNamespace),
		EnvDir:   filepath.Clean(envDir),
	}
}

// CachePath joins the given sub-area onto the cache root.
func (l Layout) CachePath(subArea string) string {
	return filepath.Join(l.CacheDir, subArea)
}

// AppPath joins the given name onto the application root.
func (l Layout) AppPath(name string) string {
	return filepath.Join(l.AppDir, name)
}

// StatePath returns the location of the last-run record.
func (l Layout) StatePath() string {
	return l.CachePath(StateFileName)
}

// DownloadPath returns the directory holding downloaded archives.
func (l Layout) DownloadPath() string {
	return l.CachePath(DownloadCacheDir)
}

// ToolsPath returns the installed location of the given toolchain sub-area.
func (l Layout) ToolsPath(subArea string) string {
	return filepath.Join(l.AppDir, PlatformToolsDir, subArea)
}

// ProfileScriptPath returns the location of the boot-time profile script.
func (l Layout) ProfileScriptPath() string {
	return filepath.Join(l.AppDir, ProfileDir, ProfileScriptName)
}

// CacheMapping pairs a cache sub-area with its counterpart inside the application.
type CacheMapping struct {
	SubArea string
	AppPath string
}

// PersistedAreas lists the application directories restored from and saved to the cache,
// excluding the build artifacts which follow their own invalidation rules.
func PersistedAreas() []CacheMapping {
	return []CacheMapping{
		{SubArea: MixCacheDir, AppPath: AppMixDir},
		{SubArea: HexCacheDir, AppPath: AppHexDir},
		{SubArea: DepsCacheDir, AppPath: AppDepsDir},
	}
}
