package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestFailurePolicy_Classify(t *testing.T) {
	policy := domain.DefaultFailurePolicy()

	tests := []struct {
		name string
		err  error
		want domain.Severity
	}{
		{"transpile failure survives", domain.ErrTranspileFailed, domain.SeverityContinue},
		{"wait timeout survives", domain.ErrBundleNotReady, domain.SeverityContinue},
		{"bundle exit failure survives", domain.ErrBundleRunFailed, domain.SeverityContinue},
		{"wrapped continue error survives", zerr.Wrap(domain.ErrBundleNotReady, "exec stage"), domain.SeverityContinue},
		{
			"joined continue error with detail survives",
			errors.Join(domain.ErrTranspileFailed, zerr.With(zerr.New("scripts failed"), "failures", "a.js: syntax")),
			domain.SeverityContinue,
		},
		{"unknown error is fatal", errors.New("listener bind failed"), domain.SeverityFatal},
		{"config error is fatal", domain.ErrConfigParseFailed, domain.SeverityFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
