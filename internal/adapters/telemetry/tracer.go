// Package telemetry instruments stage execution with OpenTelemetry spans
// and reports their durations through the logger.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/jig/internal/core/ports"
)

const instrumentationName = "go.trai.ch/jig/pipeline"

var _ ports.Tracer = (*StageTracer)(nil)

// StageTracer implements ports.Tracer on an in-process OTel tracer
// provider. Spans are not exported anywhere; a span processor turns
// them into duration log lines instead.
type StageTracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewStageTracer creates a tracer that logs completed stage spans.
func NewStageTracer(logger ports.Logger) *StageTracer {
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(newLogBridge(logger)),
	)
	return &StageTracer{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
	}
}

// StartStage opens a span for the named stage. The returned callback
// records the outcome and ends the span; it must be called exactly once.
func (t *StageTracer) StartStage(ctx context.Context, name string) (context.Context, func(err error)) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("stage", name),
	))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// Shutdown flushes the provider.
func (t *StageTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// logBridge implements sdktrace.SpanProcessor and logs every finished
// span's duration.
type logBridge struct {
	logger ports.Logger
}

func newLogBridge(logger ports.Logger) *logBridge {
	return &logBridge{logger: logger}
}

// OnStart does nothing; only completed spans are interesting.
func (b *logBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span's name and duration. Failed stages are reported
// by the pipeline itself, so the bridge stays quiet about them.
func (b *logBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || s.Status().Code == codes.Error {
		return
	}
	elapsed := s.EndTime().Sub(s.StartTime())
	b.logger.Info(fmt.Sprintf("stage %s finished in %s", s.Name(), elapsed))
}

// ForceFlush does nothing.
func (b *logBridge) ForceFlush(_ context.Context) error { return nil }

// Shutdown does nothing.
func (b *logBridge) Shutdown(_ context.Context) error { return nil }
