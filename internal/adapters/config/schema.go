package config

// Jigfile represents the structure of the jig.yaml configuration file.
// Every field is optional; the loader fills in defaults.
type Jigfile struct {
	Version  string      `yaml:"version"`
	Paths    PathsDTO    `yaml:"paths"`
	Bundle   string      `yaml:"bundle"`
	Patterns PatternsDTO `yaml:"patterns"`
	Server   ServerDTO   `yaml:"server"`
	Wait     WaitDTO     `yaml:"wait"`
	Runtime  []string    `yaml:"runtime"`
}

// PathsDTO holds the source and build roots, relative to the config file.
type PathsDTO struct {
	Source string `yaml:"source"`
	Build  string `yaml:"build"`
}

// PatternsDTO holds the glob patterns identifying pipeline inputs.
type PatternsDTO struct {
	HTML     string `yaml:"html"`
	Scripts  string `yaml:"scripts"`
	Minified string `yaml:"minified"`
}

// ServerDTO configures the browser-mode file server.
type ServerDTO struct {
	Port       *int  `yaml:"port"`
	LiveReload *bool `yaml:"livereload"`
}

// WaitDTO configures the bundle-availability poll. Durations are
// Go duration strings, e.g. "250ms" or "30s".
type WaitDTO struct {
	Delay    string `yaml:"delay"`
	Interval string `yaml:"interval"`
	Timeout  string `yaml:"timeout"`
	Settle   string `yaml:"settle"`
}
