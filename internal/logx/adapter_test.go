package logx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-carrier-settlement/internal/logx"
)

func TestSlogAdapter_WritesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logx.NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Info("settlement created",
		logx.String("code", "STL-20250615-001"),
		logx.Int64("carrier_id", 5),
		logx.Duration("took", 250*time.Millisecond),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "settlement created", entry["msg"])
	require.Equal(t, "STL-20250615-001", entry["code"])
	require.Equal(t, float64(5), entry["carrier_id"])
}

func TestSlogAdapter_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logx.NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))

	bound := logger.With(logx.Int64("store_id", 1))
	bound.Warn("rate limit exceeded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, float64(1), entry["store_id"])
	require.Equal(t, "WARN", entry["level"])
}

func TestNop_DiscardsEverything(t *testing.T) {
	t.Parallel()

	logger := logx.Nop()
	logger.Debug("a")
	logger.Info("b", logx.Any("x", 1))
	logger.Warn("c")
	logger.Error("d")
	require.NoError(t, logger.With(logx.String("k", "v")).Sync())
}
