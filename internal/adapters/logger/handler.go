// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/jig/internal/ui/output"
	"go.trai.ch/jig/internal/ui/style"
)

// StageKey is the attribute key pipeline stages log under. The pretty
// handler renders it as a bracketed prefix on the message rather than a
// trailing key=value pair.
const StageKey = "stage"

// PrettyHandler is a custom slog.Handler that produces human-readable,
// colored output using the shared UI components.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		out:   output.New(w),
		level: levelVar,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record. The stage attribute becomes
// a bracketed message prefix; every other attribute is rendered dimmed
// after the message as key=value pairs.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	stage, attrs := h.splitAttrs(r)

	msg := r.Message
	if stage != "" {
		msg = "[" + stage + "] " + msg
	}

	var color termenv.Color
	switch r.Level {
	case slog.LevelWarn:
		msg = style.Warning + " " + msg
		color = termenv.RGBColor(string(style.Amber))
	case slog.LevelError:
		msg = style.Cross + " " + msg
		color = termenv.RGBColor(string(style.Red))
	default:
		color = termenv.RGBColor(string(style.Slate))
	}

	line := h.out.String(msg).Foreground(color).String()
	if len(attrs) > 0 {
		line += " " + h.out.String(strings.Join(attrs, " ")).Faint().String()
	}

	_, err := h.out.WriteString(line + "\n")

	return err
}

// splitAttrs pulls the stage attribute out of the handler and record
// attrs and formats the remainder in arrival order.
func (h *PrettyHandler) splitAttrs(r slog.Record) (stage string, attrs []string) {
	collect := func(attr slog.Attr) {
		if attr.Key == StageKey && h.group == "" {
			stage = attr.Value.String()
			return
		}
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		attrs = append(attrs, key+"="+attr.Value.String())
	}

	for _, attr := range h.attrs {
		collect(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		collect(attr)
		return true
	})

	return stage, attrs
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}
