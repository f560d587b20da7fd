package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorAttr(t *testing.T) {
	assert.Equal(t, slog.String("err", "nil"), Error(nil))
	assert.Equal(t, slog.String("err", "boom"), Error(errors.New("boom")))
}

func TestJSONHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newJSONHandler(&buf, slog.LevelWarn))

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept", Error(errors.New("upstream down")))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "upstream down", line["err"])
	assert.Contains(t, line, "source")
}

func TestNewReturnsLogger(t *testing.T) {
	assert.NotNil(t, New(true, slog.LevelInfo))
	assert.NotNil(t, New(false, slog.LevelDebug))
}

func TestExitOnLevel(t *testing.T) {
	var (
		buf   bytes.Buffer
		codes []int
	)
	log := slog.New(&ExitOnLevel{
		lvl:     slog.LevelError,
		exit:    func(code int) { codes = append(codes, code) },
		Handler: newJSONHandler(&buf, slog.LevelDebug),
	}).With(slog.String("component", "refresh"))

	log.Warn("still running")
	assert.Empty(t, codes)

	log.Error("giving up")
	assert.Equal(t, []int{1}, codes)
	assert.Contains(t, buf.String(), "giving up")
	assert.Contains(t, buf.String(), `"component":"refresh"`)
}

func TestWithExitOnLevelKeepsHandler(t *testing.T) {
	var buf bytes.Buffer
	log := WithExitOnLevel(slog.New(newJSONHandler(&buf, slog.LevelInfo)), slog.Level(12))

	h, ok := log.Handler().(*ExitOnLevel)
	require.True(t, ok)
	assert.Equal(t, slog.Level(12), h.lvl)

	log.Info("written")
	assert.Contains(t, buf.String(), "written")
}
