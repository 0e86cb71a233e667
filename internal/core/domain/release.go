package domain

// ReleaseDocument is the process metadata handed to the platform after a build.
type ReleaseDocument struct {
	Addons              []string          `yaml:"addons"`
	DefaultProcessTypes map[string]string `yaml:"default_process_types"`
}

// DefaultRelease starts the application with mix.
func DefaultRelease() ReleaseDocument {
	return ReleaseDocument{
		Addons: []string{},
		DefaultProcessTypes: map[string]string{
			"web": "mix run --no-halt",
		},
	}
}
