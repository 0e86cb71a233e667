package domain

// Step is a stage of the build pipeline.
type Step int

const (
	// StepDetect checks that the application is an Elixir application.
	StepDetect Step = iota
	// StepConfigure resolves the build configuration.
	StepConfigure
	// StepCacheSetup restores cached state into the application.
	StepCacheSetup
	// StepFetch downloads and extracts missing toolchains.
	StepFetch
	// StepInstall installs the toolchains into the application.
	StepInstall
	// StepCompile compiles the application.
	StepCompile
	// StepCacheTeardown persists build results into the cache.
	StepCacheTeardown
	// StepDone is the terminal state of a successful build.
	StepDone
	// StepAborted is the terminal state of a failed build.
	StepAborted
)

var stepNames = [...]string{
	StepDetect:        "detect",
	StepConfigure:     "configure",
	StepCacheSetup:    "cache setup",
	StepFetch:         "fetch",
	StepInstall:       "install",
	StepCompile:       "compile",
	StepCacheTeardown: "cache teardown",
	StepDone:          "done",
	StepAborted:       "aborted",
}

// String returns the human-readable step name.
func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// Terminal reports whether no further step follows s.
func (s Step) Terminal() bool {
	return s == StepDone || s == StepAborted
}
