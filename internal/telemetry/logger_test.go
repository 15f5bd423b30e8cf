package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestContextHandler(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})

	tests := []struct {
		name      string
		withSpan  bool
		wantTrace bool
	}{
		{
			name:      "record inside span: ids added",
			withSpan:  true,
			wantTrace: true,
		},
		{
			name: "record without span: no ids",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, slog.LevelInfo).With("component", "test")

			ctx := t.Context()
			if tt.withSpan {
				spanCtx, s := tp.Tracer("test").Start(ctx, "op")
				defer s.End()
				ctx = spanCtx
			}

			logger.InfoContext(ctx, "hello")

			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

			assert.Equal(t, "hello", record["msg"])
			assert.Equal(t, "test", record["component"])

			_, hasTrace := record["trace_id"]
			_, hasSpan := record["span_id"]
			assert.Equal(t, tt.wantTrace, hasTrace)
			assert.Equal(t, tt.wantTrace, hasSpan)
		})
	}
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "collector:4317", stripScheme("http://collector:4317"))
	assert.Equal(t, "collector:4317", stripScheme("https://collector:4317"))
	assert.Equal(t, "collector:4317", stripScheme("collector:4317"))
}
