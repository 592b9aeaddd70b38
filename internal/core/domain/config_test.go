package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/jig/internal/core/domain"
)

func TestPipelineConfig_DerivedPaths(t *testing.T) {
	cfg := domain.PipelineConfig{
		Paths: domain.Paths{
			Source: "/proj/src",
			Build:  "/proj/build",
		},
		Bundle: "bundle.js",
	}

	if got := cfg.ServerRoot(); got != cfg.Paths.Build {
		t.Errorf("ServerRoot() = %q, want build root %q", got, cfg.Paths.Build)
	}
	want := filepath.Join("/proj/build", "bundle.js")
	if got := cfg.BundlePath(); got != want {
		t.Errorf("BundlePath() = %q, want %q", got, want)
	}
}
