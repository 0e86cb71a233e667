package config

import (
	"bufio"
	"bytes"
	"errors"
	"regexp"
	"strings"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// keys maps configuration fields to the keys that may set them, in order of preference.
type keys struct {
	runtimeVersion     []string
	languageVersion    []string
	disableBuildCache  []string
	release            []string
	preCompileCommand  []string
	compileCommand     []string
	postCompileCommand []string
	disableCache       []string
}

// currentKeys are read from .elixir-buildpack.yml and the bundled default.
var currentKeys = keys{
	runtimeVersion:     []string{"otp_version", "runtime_version"},
	languageVersion:    []string{"elixir_version", "language_version"},
	disableBuildCache:  []string{"disable_build_cache"},
	release:            []string{"release"},
	preCompileCommand:  []string{"pre_compile_command"},
	compileCommand:     []string{"compile_command"},
	postCompileCommand: []string{"post_compile_command"},
	disableCache:       []string{"disable_cache"},
}

// legacyKeys are read from elixir_buildpack.config. The legacy format cannot disable the cache.
var legacyKeys = keys{
	runtimeVersion:     []string{"erlang_version"},
	languageVersion:    []string{"elixir_version"},
	disableBuildCache:  []string{"always_rebuild"},
	release:            []string{"release"},
	preCompileCommand:  []string{"hook_pre_compile"},
	compileCommand:     []string{"hook_compile"},
	postCompileCommand: []string{"hook_post_compile"},
}

// legacyLine matches one key=value assignment of the legacy format.
var legacyLine = regexp.MustCompile(`^([a-z_]+)=(.+)$`)

// values holds the non-empty, trimmed settings of one configuration source.
type values map[string]string

func (v values) first(names []string) string {
	for _, name := range names {
		if s, ok := v[name]; ok {
			return s
		}
	}
	return ""
}

func (v values) flag(names []string) bool {
	return strings.EqualFold(v.first(names), "true")
}

// apply copies the settings selected by k into a BuildConfig.
func (v values) apply(k keys, source domain.ConfigSource) domain.BuildConfig {
	return domain.BuildConfig{
		RuntimeVersion:     v.first(k.runtimeVersion),
		LanguageVersion:    v.first(k.languageVersion),
		PreCompileCommand:  v.first(k.preCompileCommand),
		CompileCommand:     v.first(k.compileCommand),
		PostCompileCommand: v.first(k.postCompileCommand),
		DisableBuildCache:  v.flag(k.disableBuildCache),
		Release:            v.flag(k.release),
		DisableCache:       v.flag(k.disableCache),
		Source:             source,
	}
}

// parseDocument reads a YAML mapping. Scalars keep their literal text, so a
// version written as 1.10 is not turned into 1.1.
func parseDocument(data []byte) (values, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(domain.ErrInvalidConfig, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, domain.ErrInvalidConfig
	}

	mapping := doc.Content[0]
	out := make(values, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		value := strings.TrimSpace(nodeText(mapping.Content[i+1]))
		if value == "" {
			continue
		}
		out[mapping.Content[i].Value] = value
	}

	return out, nil
}

func nodeText(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return ""
		}
		return n.Value
	case yaml.AliasNode:
		if n.Alias == nil {
			return ""
		}
		return nodeText(n.Alias)
	default:
		out, err := yaml.Marshal(n)
		if err != nil {
			return ""
		}
		return string(out)
	}
}

// parseLegacy reads key=value lines. Lines that do not match are ignored.
func parseLegacy(data []byte) (values, error) {
	out := values{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		match := legacyLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		key, value := strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
		if value == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrInvalidConfig, err), "failed to scan legacy config")
	}

	return out, nil
}
