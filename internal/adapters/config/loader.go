// Package config provides the configuration loader for jig.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file the loader discovers.
const FileName = "jig.yaml"

// Defaults applied when the config file is missing or leaves fields unset.
const (
	defaultSourceDir   = "src"
	defaultBuildDir    = "build"
	defaultBundle      = "bundle.js"
	defaultHTMLGlob    = "index.html"
	defaultScriptGlob  = "**/*.js"
	defaultMinGlob     = "**/*.min.js"
	defaultServerPort  = 8080
	defaultWaitDelay   = 100 * time.Millisecond
	defaultWaitStep    = 250 * time.Millisecond
	defaultWaitTimeout = 30 * time.Second
	defaultWaitSettle  = 200 * time.Millisecond
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks up from cwd looking for jig.yaml and returns the fully
// defaulted pipeline configuration. A missing file is not an error:
// defaults are rooted at cwd.
func (l *Loader) Load(cwd string) (domain.PipelineConfig, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return domain.PipelineConfig{}, zerr.Wrap(err, "failed to resolve working directory")
	}

	configPath, found := findConfiguration(absCwd)
	root := absCwd
	var jigfile Jigfile

	if found {
		root = filepath.Dir(configPath)

		data, err := os.ReadFile(configPath) //nolint:gosec // discovered config path
		if err != nil {
			return domain.PipelineConfig{}, errors.Join(domain.ErrConfigReadFailed,
				zerr.With(zerr.Wrap(err, "reading config"), "path", configPath))
		}
		if err := yaml.Unmarshal(data, &jigfile); err != nil {
			return domain.PipelineConfig{}, errors.Join(domain.ErrConfigParseFailed,
				zerr.With(zerr.Wrap(err, "unmarshalling config"), "path", configPath))
		}
	}

	return l.resolve(root, jigfile)
}

// findConfiguration walks up from cwd to the filesystem root looking
// for the nearest jig.yaml.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// resolve maps the DTO onto the domain value, applying defaults and
// making paths absolute against the project root.
func (l *Loader) resolve(root string, jigfile Jigfile) (domain.PipelineConfig, error) {
	source := jigfile.Paths.Source
	if source == "" {
		source = defaultSourceDir
	}
	buildDir := jigfile.Paths.Build
	if buildDir == "" {
		buildDir = defaultBuildDir
	}
	if !filepath.IsAbs(source) {
		source = filepath.Join(root, source)
	}
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(root, buildDir)
	}

	bundle := jigfile.Bundle
	if bundle == "" {
		bundle = defaultBundle
	}

	patterns := domain.Patterns{
		HTML:     stringOr(jigfile.Patterns.HTML, defaultHTMLGlob),
		Scripts:  stringOr(jigfile.Patterns.Scripts, defaultScriptGlob),
		Minified: stringOr(jigfile.Patterns.Minified, defaultMinGlob),
	}

	port := defaultServerPort
	if jigfile.Server.Port != nil {
		port = *jigfile.Server.Port
	}
	liveReload := true
	if jigfile.Server.LiveReload != nil {
		liveReload = *jigfile.Server.LiveReload
	}

	wait := domain.WaitOptions{}
	var err error
	if wait.Delay, err = durationOr(jigfile.Wait.Delay, defaultWaitDelay); err != nil {
		return domain.PipelineConfig{}, invalidDuration("wait.delay", jigfile.Wait.Delay)
	}
	if wait.Interval, err = durationOr(jigfile.Wait.Interval, defaultWaitStep); err != nil {
		return domain.PipelineConfig{}, invalidDuration("wait.interval", jigfile.Wait.Interval)
	}
	if wait.Timeout, err = durationOr(jigfile.Wait.Timeout, defaultWaitTimeout); err != nil {
		return domain.PipelineConfig{}, invalidDuration("wait.timeout", jigfile.Wait.Timeout)
	}
	if wait.Settle, err = durationOr(jigfile.Wait.Settle, defaultWaitSettle); err != nil {
		return domain.PipelineConfig{}, invalidDuration("wait.settle", jigfile.Wait.Settle)
	}

	runtime := jigfile.Runtime
	if len(runtime) == 0 {
		runtime = []string{"node"}
	}

	return domain.PipelineConfig{
		Paths: domain.Paths{
			Source: source,
			Build:  buildDir,
		},
		Bundle:   bundle,
		Patterns: patterns,
		Server: domain.ServerOptions{
			Port:       port,
			LiveReload: liveReload,
		},
		Wait:    wait,
		Runtime: runtime,
	}, nil
}

func invalidDuration(field, value string) error {
	detail := zerr.With(zerr.New("invalid duration"), "field", field)
	detail = zerr.With(detail, "value", value)
	return errors.Join(domain.ErrConfigParseFailed, detail)
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
