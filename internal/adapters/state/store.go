// Package state persists the record of the last successful build.
package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// record is the on-disk layout of last-run.yml.
type record struct {
	RuntimeVersion  string `yaml:"runtime_version"`
	LanguageVersion string `yaml:"language_version"`
}

// legacyRecord holds the keys written by earlier buildpack releases.
type legacyRecord struct {
	OTPVersion    string `yaml:"otp_version,omitempty"`
	ElixirVersion string `yaml:"elixir_version,omitempty"`
}

// Store implements ports.StateStore with a YAML file.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the record at path. A missing file yields the zero CacheState.
func (s *Store) Load(path string) (domain.CacheState, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the state file inside the cache
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.CacheState{}, nil
		}
		return domain.CacheState{}, zerr.With(zerr.Wrap(err, domain.ErrStateReadFailed.Error()), "path", path)
	}

	var doc struct {
		record       `yaml:",inline"`
		legacyRecord `yaml:",inline"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.CacheState{}, zerr.With(zerr.Wrap(err, domain.ErrStateUnmarshalFailed.Error()), "path", path)
	}

	return domain.CacheState{
		LastRuntimeVersion:  firstNonEmpty(doc.RuntimeVersion, doc.OTPVersion),
		LastLanguageVersion: firstNonEmpty(doc.LanguageVersion, doc.ElixirVersion),
	}, nil
}

// Save overwrites the record at path.
func (s *Store) Save(path string, state domain.CacheState) error {
	data, err := yaml.Marshal(record{
		RuntimeVersion:  state.LastRuntimeVersion,
		LanguageVersion: state.LastLanguageVersion,
	})
	if err != nil {
		return zerr.Wrap(err, domain.ErrStateMarshalFailed.Error())
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}

	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
