package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/cwrk-planet/chat-service/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestDetectEnv(t *testing.T) {
	req := require.New(t)

	t.Setenv("APP_ENV", "")
	req.Equal(logger.EnvDev, logger.DetectEnv())

	t.Setenv("APP_ENV", "staging")
	req.Equal(logger.EnvStage, logger.DetectEnv())

	t.Setenv("APP_ENV", "Production")
	req.Equal(logger.EnvProd, logger.DetectEnv())
}

func TestParseLevel(t *testing.T) {
	req := require.New(t)
	req.Equal(slog.LevelDebug, logger.ParseLevel("DEBUG"))
	req.Equal(slog.LevelWarn, logger.ParseLevel("warning"))
	req.Equal(slog.LevelError, logger.ParseLevel("error"))
	req.Equal(slog.LevelInfo, logger.ParseLevel(""))
}

func TestInit_DevStd_TextOutput(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	l := logger.Init(logger.Config{
		Service: "demo",
		Version: "v0.0.1",
		Env:     logger.EnvDev,
		Backend: logger.BackendStd,
		Level:   slog.LevelDebug,
		Output:  &buf,
	})
	l.Info("hello world")

	out := buf.String()
	req.NotContains(out, "{")
	req.Contains(out, "hello world")
	req.Contains(out, "service=demo")
	req.Contains(out, "env=dev")
}

func TestInit_ProdZap_JSONOutput(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	l := logger.Init(logger.Config{
		Service: "demo",
		Env:     logger.EnvProd,
		Output:  &buf,
	})
	l.Info("json line", slog.String("room_id", "7"))

	line := strings.TrimSpace(buf.String())
	var m map[string]any
	req.NoError(json.Unmarshal([]byte(line), &m), line)
	req.Equal("json line", m["msg"])
	req.Equal("demo", m["service"])
	req.Equal("prod", m["env"])
	req.Equal("7", m["room_id"])
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	l := logger.Init(logger.Config{
		Env:     logger.EnvDev,
		Backend: logger.BackendStd,
		Level:   slog.LevelWarn,
		Output:  &buf,
	})
	l.Info("hidden")
	l.Warn("visible")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "visible")
}

func TestFromContext(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	base := logger.Init(logger.Config{Env: logger.EnvDev, Backend: logger.BackendStd, Output: &buf})

	t.Run("should fall back to the global logger", func(t *testing.T) {
		require.Same(t, base, logger.FromContext(context.Background()))
	})

	t.Run("should return the request logger", func(t *testing.T) {
		ctx := logger.WithContext(context.Background(), base.With(slog.String("req_id", "r-1")))
		logger.FromContext(ctx).Info("scoped")
		req.Contains(buf.String(), "req_id=r-1")
	})
}

func TestWithContext_PropagatesTraceIDs(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	base := logger.Init(logger.Config{
		Service:          "demo",
		Env:              logger.EnvProd,
		Backend:          logger.BackendZap,
		SampleInitial:    100000,
		SampleThereafter: 100000,
		Output:           &buf,
	})

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	otel.SetTracerProvider(tp)

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.FromContext(logger.WithContext(ctx, base)).Info("with trace")

	var m map[string]any
	req.NoError(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &m))
	req.Equal(span.SpanContext().TraceID().String(), m["trace_id"])
	req.Equal(span.SpanContext().SpanID().String(), m["span_id"])
}
