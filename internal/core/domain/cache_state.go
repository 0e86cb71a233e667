package domain

// CacheState records the toolchain versions of the last successful build.
// The zero value means no build has been recorded.
type CacheState struct {
	LastRuntimeVersion  string
	LastLanguageVersion string
}

// StateFor returns the record to persist after building with cfg.
func StateFor(cfg BuildConfig) CacheState {
	return CacheState{
		LastRuntimeVersion:  cfg.RuntimeVersion,
		LastLanguageVersion: cfg.LanguageVersion,
	}
}

// Invalidation describes which cached toolchains no longer match the configuration.
type Invalidation struct {
	RuntimeChanged  bool
	LanguageChanged bool
}

// Invalidate compares the last recorded build with the current configuration.
// A runtime change always invalidates the language toolchain too, since Elixir is
// compiled against a specific OTP.
func Invalidate(last CacheState, cfg BuildConfig) Invalidation {
	runtimeChanged := last.LastRuntimeVersion != cfg.RuntimeVersion
	return Invalidation{
		RuntimeChanged:  runtimeChanged,
		LanguageChanged: runtimeChanged || last.LastLanguageVersion != cfg.LanguageVersion,
	}
}
