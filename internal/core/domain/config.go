package domain

// ConfigSource names where a BuildConfig came from.
type ConfigSource string

const (
	// ConfigSourceApp is the current-format file in the application root.
	ConfigSourceApp ConfigSource = "app"
	// ConfigSourceLegacy is the key=value file used by older buildpacks.
	ConfigSourceLegacy ConfigSource = "legacy"
	// ConfigSourceDefault is the configuration bundled with the buildpack.
	ConfigSourceDefault ConfigSource = "default"
)

// BuildConfig is the fully resolved configuration of one build. It is created once
// and never modified afterward.
type BuildConfig struct {
	// RuntimeVersion is the Erlang/OTP version.
	RuntimeVersion string
	// LanguageVersion is the Elixir version.
	LanguageVersion string
	// Stack identifies the platform base image, e.g. heroku-22.
	Stack string

	PreCompileCommand  string
	CompileCommand     string
	PostCompileCommand string

	// DisableCache skips every cache read and write.
	DisableCache bool
	// DisableBuildCache drops the cached _build directory on every build.
	DisableBuildCache bool
	// Release builds a Mix release after compiling.
	Release bool

	Source      ConfigSource
	Environment Environment
}

// MixEnv returns the effective MIX_ENV of the build.
func (c BuildConfig) MixEnv() string {
	if v := c.Environment.Get("MIX_ENV"); v != "" {
		return v
	}
	return DefaultEnv["MIX_ENV"]
}
