package domain_test

import (
	"testing"

	"go.trai.ch/jig/internal/core/domain"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want domain.Mode
	}{
		{"no arguments", nil, domain.ModeTerminal},
		{"empty slice", []string{}, domain.ModeTerminal},
		{"browser flag", []string{"--browser"}, domain.ModeBrowser},
		{"bare browser", []string{"browser"}, domain.ModeBrowser},
		{"browser flag after others", []string{"dev", "--browser"}, domain.ModeBrowser},
		{"terminal flag", []string{"--terminal"}, domain.ModeTerminal},
		{"arbitrary value", []string{"--frobnicate"}, domain.ModeTerminal},
		{"empty string argument", []string{""}, domain.ModeTerminal},
		{"browser not last", []string{"--browser", "extra"}, domain.ModeTerminal},
		{"case sensitive", []string{"--Browser"}, domain.ModeTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.ParseMode(tt.args); got != tt.want {
				t.Errorf("ParseMode(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
