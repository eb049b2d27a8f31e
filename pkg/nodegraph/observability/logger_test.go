package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{buf: &bytes.Buffer{}, level: slog.LevelDebug}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{buf: h.buf, level: h.level}
	newH.attrs = append(append(newH.attrs, h.attrs...), attrs...)
	return newH
}

func (h *testHandler) WithGroup(string) slog.Handler { return h }

func (h *testHandler) lastRecord() map[string]any {
	lines := bytes.Split(bytes.TrimSpace(h.buf.Bytes()), []byte("\n"))
	if len(lines) == 0 || len(lines[len(lines)-1]) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		return nil
	}
	return m
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds scene_id", func(t *testing.T) {
		h := newTestHandler()
		EnrichLogger(slog.New(h), "scene-1").Info("hello")

		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "scene-1", record["scene_id"])
		assert.Equal(t, "hello", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "scene-1"))
	})
}

func TestLogMutation(t *testing.T) {
	h := newTestHandler()
	LogMutation(slog.New(h), "add_node", "n1", 1.5)

	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "scene mutated", record["msg"])
	assert.Equal(t, "add_node", record["operation"])
	assert.Equal(t, "n1", record["item_id"])
	assert.Equal(t, 1.5, record["duration_ms"])
}

func TestLogMutationError(t *testing.T) {
	h := newTestHandler()
	LogMutationError(slog.New(h), "connect", "s1", errors.New("capacity exceeded"))

	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "connect", record["operation"])
	assert.Equal(t, "capacity exceeded", record["error"])
}

func TestLogHistory(t *testing.T) {
	h := newTestHandler()
	LogHistory(slog.New(h), "undo", 2, 5)

	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "history undo", record["msg"])
	assert.Equal(t, float64(2), record["cursor"])
	assert.Equal(t, float64(5), record["depth"])
}

func TestLogDocument(t *testing.T) {
	h := newTestHandler()
	LogDocument(slog.New(h), "loaded", "doc", 3, 2, 512)

	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "document loaded", record["msg"])
	assert.Equal(t, "doc", record["document_id"])
	assert.Equal(t, float64(3), record["nodes"])
	assert.Equal(t, float64(2), record["edges"])
	assert.Equal(t, float64(512), record["size_bytes"])
}

func TestLogStore(t *testing.T) {
	t.Run("success at debug", func(t *testing.T) {
		h := newTestHandler()
		LogStore(slog.New(h), "save", "doc", 4, nil)

		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, float64(4), record["revision"])
	})

	t.Run("failure at warn", func(t *testing.T) {
		h := newTestHandler()
		LogStore(slog.New(h), "load", "doc", 0, errors.New("not found"))

		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "WARN", record["level"])
		assert.Equal(t, "not found", record["error"])
		assert.NotContains(t, record, "revision")
	})
}

func TestNilLoggerHelpers(t *testing.T) {
	assert.NotPanics(t, func() {
		LogMutation(nil, "op", "id", 0)
		LogMutationError(nil, "op", "id", errors.New("x"))
		LogHistory(nil, "undo", 0, 0)
		LogDocument(nil, "loaded", "d", 0, 0, 0)
		LogStore(nil, "save", "d", 1, nil)
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5.0)
}
