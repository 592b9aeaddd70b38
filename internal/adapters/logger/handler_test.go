package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/jig/internal/adapters/logger"
)

func TestPrettyHandler_StagePrefix(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := new(bytes.Buffer)
	log := slog.New(logger.NewPrettyHandler(buf, nil))

	log.Info("rebuilding", logger.StageKey, "transpile", "files", 3)

	out := buf.String()
	assert.Contains(t, out, "[transpile] rebuilding")
	assert.Contains(t, out, "files=3")
	assert.NotContains(t, out, "stage=")
}

func TestPrettyHandler_PlainAttrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := new(bytes.Buffer)
	log := slog.New(logger.NewPrettyHandler(buf, nil))

	log.Warn("slow rebuild", "elapsed", "1.2s")

	out := buf.String()
	assert.Contains(t, out, "slow rebuild")
	assert.Contains(t, out, "elapsed=1.2s")
}

func TestPrettyHandler_GroupedKeys(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := new(bytes.Buffer)
	log := slog.New(logger.NewPrettyHandler(buf, nil)).WithGroup("server")

	log.Info("listening", "port", 8080)

	assert.Contains(t, buf.String(), "server.port=8080")
}

func TestPrettyHandler_LevelFilter(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := new(bytes.Buffer)
	log := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("quiet")
	assert.Empty(t, buf.String())

	log.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}
