package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

// setupTestMeter returns a meter backed by a manual reader
func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.TelemetryConfig{
		Enabled:           true,
		MetricsEnabled:    true,
		LogsEnabled:       false,
		CollectorEndpoint: "otel:4317",
		SamplingRatio:     0.5,
		ServiceName:       "marketplace",
		Insecure:          true,
		MetricsInterval:   15 * time.Second,
	})

	assert.True(t, cfg.TracingEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.LogsEnabled)
	assert.Equal(t, "otel:4317", cfg.CollectorEndpoint)
	assert.Equal(t, 0.5, cfg.SamplingRatio)
	assert.Equal(t, 15*time.Second, cfg.MetricsInterval)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Tracer.IsEnabled())
	assert.False(t, p.Meter.IsEnabled())
	assert.False(t, p.Logs.IsEnabled())
	assert.Nil(t, p.Logs.ZapCore("test", zapcore.InfoLevel))
	assert.NotNil(t, p.Meter.Meter("test"))
	assert.NotNil(t, p.Tracer.Tracer("test"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := StartServiceSpan(context.Background(), "store", "create", attribute.String("user_id", "user_1"))
	assert.NotEmpty(t, GetTraceID(ctx))
	RecordError(span, errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "store.create", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("user_id", "user_1"))
}

func TestSetOKAndNilSafety(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartServiceSpan(context.Background(), "product", "list")
	SetOK(span)
	RecordError(span, nil)
	span.End()
	RecordError(nil, errors.New("ignored"))
	SetOK(nil)

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, codes.Ok, sr.Ended()[0].Status().Code)
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestBusinessMetrics(t *testing.T) {
	mp, reader := setupTestMeter(t)
	bm, err := NewBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOrder(ctx, "succeeded", decimal.RequireFromString("19.99"))
	bm.RecordOrder(ctx, "succeeded", decimal.RequireFromString("0.01"))
	bm.RecordStoreCreated(ctx)
	bm.RecordProductCreated(ctx, "shoes")
	bm.RecordWebhookEvent(ctx, "payment_intent.succeeded", WebhookOutcomeProcessed)

	metrics := collect(t, reader)

	orders := metrics["orders_recorded_total"].Data.(metricdata.Sum[int64])
	require.Len(t, orders.DataPoints, 1)
	assert.Equal(t, int64(2), orders.DataPoints[0].Value)

	amount := metrics["order_amount_total"].Data.(metricdata.Sum[float64])
	require.Len(t, amount.DataPoints, 1)
	assert.InDelta(t, 20.0, amount.DataPoints[0].Value, 0.0001)

	for _, name := range []string{"stores_created_total", "products_created_total", "stripe_webhook_events_total"} {
		sum := metrics[name].Data.(metricdata.Sum[int64])
		require.Len(t, sum.DataPoints, 1, name)
		assert.Equal(t, int64(1), sum.DataPoints[0].Value, name)
	}
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var bm *BusinessMetrics
	ctx := context.Background()
	bm.RecordOrder(ctx, "succeeded", decimal.NewFromInt(1))
	bm.RecordStoreCreated(ctx)
	bm.RecordProductCreated(ctx, "shoes")
	bm.RecordWebhookEvent(ctx, "x", WebhookOutcomeIgnored)

	_, err := NewBusinessMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}
