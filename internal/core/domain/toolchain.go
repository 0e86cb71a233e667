package domain

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

const (
	// RuntimeDownloadBase hosts prebuilt OTP releases per stack.
	RuntimeDownloadBase = "https://github.com/elixir-buildpack/heroku-otp/releases/download"
	// LanguageDownloadBase hosts prebuilt Elixir releases per OTP major version.
	LanguageDownloadBase = "https://repo.hex.pm/builds/elixir"
)

// ArchiveFormat is the packaging of a downloaded toolchain.
type ArchiveFormat string

const (
	// ArchiveTarGz is a gzip-compressed tarball with a single top-level directory.
	ArchiveTarGz ArchiveFormat = "tar.gz"
	// ArchiveZip is a zip archive extracted as-is.
	ArchiveZip ArchiveFormat = "zip"
)

// Toolchain is a downloadable runtime or language release.
type Toolchain struct {
	// Name is the display name, e.g. "OTP".
	Name    string
	Version string
	URL     string
	Format  ArchiveFormat
	// SubArea is the cache sub-area holding the extracted release.
	SubArea string
}

// RuntimeToolchain describes the OTP release for cfg.
func RuntimeToolchain(cfg BuildConfig) Toolchain {
	return Toolchain{
		Name:    "OTP",
		Version: cfg.RuntimeVersion,
		URL:     fmt.Sprintf("%s/%s/%s.tar.gz", RuntimeDownloadBase, cfg.RuntimeVersion, cfg.Stack),
		Format:  ArchiveTarGz,
		SubArea: RuntimeCacheDir,
	}
}

// LanguageToolchain describes the Elixir release built for the OTP major of cfg.
func LanguageToolchain(cfg BuildConfig) (Toolchain, error) {
	major, err := RuntimeMajor(cfg.RuntimeVersion)
	if err != nil {
		return Toolchain{}, err
	}
	return Toolchain{
		Name:    "Elixir",
		Version: cfg.LanguageVersion,
		URL:     fmt.Sprintf("%s/v%s-otp-%s.zip", LanguageDownloadBase, cfg.LanguageVersion, major),
		Format:  ArchiveZip,
		SubArea: LanguageCacheDir,
	}, nil
}

// ArchiveName is the file name of the downloaded archive. It is keyed on the URL so
// archives for another stack or version are never mistaken for this one.
func (t Toolchain) ArchiveName() string {
	return fmt.Sprintf("%s-%016x.%s", t.SubArea, xxhash.Sum64String(t.URL), t.Format)
}

// RuntimeMajor returns the major component of an OTP version. OTP patch releases
// such as 25.3.2.8 have four components, so anything semver rejects falls back to
// the first dot-separated segment.
func RuntimeMajor(version string) (string, error) {
	if v, err := semver.NewVersion(version); err == nil {
		return fmt.Sprint(v.Major()), nil
	}
	major, _, _ := strings.Cut(strings.TrimPrefix(version, "OTP-"), ".")
	if major == "" || strings.Trim(major, "0123456789") != "" {
		return "", zerr.With(zerr.Wrap(ErrInvalidVersion, "cannot determine OTP major version"), "version", version)
	}
	return major, nil
}
