package domain

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// deniedEnvVars are injected variables that would break the build machinery if overridden.
var deniedEnvVars = map[string]struct{}{
	"PATH":         {},
	"GIT_DIR":      {},
	"CPATH":        {},
	"CPPATH":       {},
	"LD_PRELOAD":   {},
	"LIBRARY_PATH": {},
}

// IsDeniedEnvVar reports whether an injected variable must be dropped.
func IsDeniedEnvVar(name string) bool {
	_, denied := deniedEnvVars[name]
	return denied
}

// DefaultEnv holds the values applied when neither the process nor the platform sets them.
var DefaultEnv = map[string]string{
	"MIX_ENV":  "prod",
	"LC_CTYPE": "en_US.utf8",
}

// Environment is a set of environment variables with a deterministic iteration order.
type Environment struct {
	vars map[string]string
}

// NewEnvironment creates an Environment from a map. The map is copied.
func NewEnvironment(vars map[string]string) Environment {
	env := Environment{vars: make(map[string]string, len(vars))}
	maps.Copy(env.vars, vars)
	return env
}

// ParseEnviron builds an Environment from KEY=VALUE entries such as os.Environ.
// Entries without a separator are ignored.
func ParseEnviron(entries []string) Environment {
	env := Environment{vars: make(map[string]string, len(entries))}
	for _, entry := range entries {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			continue
		}
		env.vars[k] = v
	}
	return env
}

// Get returns the value of name, or the empty string.
func (e Environment) Get(name string) string {
	return e.vars[name]
}

// Lookup returns the value of name and whether it is set.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Len returns the number of variables.
func (e Environment) Len() int {
	return len(e.vars)
}

// Keys returns the variable names in sorted order.
func (e Environment) Keys() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// With returns a copy of the Environment with name set to value.
func (e Environment) With(name, value string) Environment {
	out := e.Clone()
	out.vars[name] = value
	return out
}

// WithDefaults returns a copy where every default is applied only if the name is unset.
func (e Environment) WithDefaults(defaults map[string]string) Environment {
	out := e.Clone()
	for k, v := range defaults {
		if _, ok := out.vars[k]; !ok {
			out.vars[k] = v
		}
	}
	return out
}

// PrependPath returns a copy with dir placed in front of PATH.
func (e Environment) PrependPath(dir string) Environment {
	current, ok := e.vars["PATH"]
	if !ok || current == "" {
		return e.With("PATH", dir)
	}
	return e.With("PATH", dir+string(os.PathListSeparator)+current)
}

// Clone returns an independent copy.
func (e Environment) Clone() Environment {
	return NewEnvironment(e.vars)
}

// Environ returns KEY=VALUE entries sorted by name, suitable for exec.Cmd.Env.
func (e Environment) Environ() []string {
	keys := e.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}
