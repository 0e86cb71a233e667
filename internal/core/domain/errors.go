package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrNotDetected is returned when the application directory does not contain a Mix project.
	ErrNotDetected = zerr.New("no mix.exs found, not an Elixir application")

	// ErrDirectoryMissing is returned when a directory handed over by the platform does not exist.
	ErrDirectoryMissing = zerr.New("directory does not exist")

	// ErrNotADirectory is returned when a path handed over by the platform is a file.
	ErrNotADirectory = zerr.New("path is not a directory")

	// ErrInvalidConfig is returned when a buildpack configuration file cannot be interpreted.
	ErrInvalidConfig = zerr.New("invalid buildpack config")

	// ErrConfigReadFailed is returned when a buildpack configuration file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read buildpack config")

	// ErrMissingVersions is returned when the resolved configuration lacks the OTP or Elixir version.
	ErrMissingVersions = zerr.New("The OTP and Elixir versions need to be set if a config file is used!")

	// ErrMissingStack is returned when the STACK environment variable is not set.
	ErrMissingStack = zerr.New("the STACK environment variable is not set")

	// ErrInvalidEnvEntry is returned when the environment directory contains something other than a regular file.
	ErrInvalidEnvEntry = zerr.New("environment directory entry is not a regular file")

	// ErrExportedEnvFailed is returned when the environment exported by a previous buildpack cannot be loaded.
	ErrExportedEnvFailed = zerr.New("failed to load exported environment")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrStateReadFailed is returned when the last-run record cannot be read.
	ErrStateReadFailed = zerr.New("failed to read last-run state")

	// ErrStateUnmarshalFailed is returned when the last-run record cannot be decoded.
	ErrStateUnmarshalFailed = zerr.New("failed to unmarshal last-run state")

	// ErrStateMarshalFailed is returned when the last-run record cannot be encoded.
	ErrStateMarshalFailed = zerr.New("failed to marshal last-run state")

	// ErrStateWriteFailed is returned when the last-run record cannot be written.
	ErrStateWriteFailed = zerr.New("failed to write last-run state")

	// ErrCacheSetupFailed is returned when the cache cannot be prepared for a build.
	ErrCacheSetupFailed = zerr.New("failed to set up build cache")

	// ErrCacheTeardownFailed is returned when build results cannot be persisted to the cache.
	ErrCacheTeardownFailed = zerr.New("failed to persist build cache")

	// ErrCopyFailed is returned when a directory tree cannot be copied.
	ErrCopyFailed = zerr.New("failed to copy directory tree")

	// ErrDownloadFailed is returned when an artifact cannot be downloaded.
	ErrDownloadFailed = zerr.New("failed to download artifact")

	// ErrTooManyRedirects is returned when an artifact download exceeds the redirect limit.
	ErrTooManyRedirects = zerr.New("Too many redirects")

	// ErrUnsupportedArchive is returned when an archive format cannot be extracted.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrExtractFailed is returned when an archive cannot be extracted.
	ErrExtractFailed = zerr.New("failed to extract archive")

	// ErrInstallFailed is returned when a toolchain cannot be installed into the application.
	ErrInstallFailed = zerr.New("failed to install toolchain")

	// ErrInvalidVersion is returned when a toolchain version cannot be interpreted.
	ErrInvalidVersion = zerr.New("invalid toolchain version")
)

// userConfigurationErrors are the sentinels caused by the application's own
// configuration rather than by the build machinery.
var userConfigurationErrors = []error{
	ErrInvalidConfig,
	ErrConfigReadFailed,
	ErrMissingVersions,
	ErrMissingStack,
	ErrInvalidEnvEntry,
}

// IsUserConfigurationError reports whether err was caused by the application's configuration.
func IsUserConfigurationError(err error) bool {
	for _, sentinel := range userConfigurationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

const (
	// ExitCodeSuccess is returned when the requested command completed.
	ExitCodeSuccess = 0
	// ExitCodeFailed is returned for any build failure.
	ExitCodeFailed = 1
	// ExitCodeNotDetected is returned when the application is not an Elixir application.
	ExitCodeNotDetected = 100
)

// ExitCode maps an error returned by a build to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case errors.Is(err, ErrNotDetected):
		return ExitCodeNotDetected
	default:
		return ExitCodeFailed
	}
}
