package fsm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/milk9111/entitystate/fsm"

// startEvaluateSpan opens the span covering one evaluation pass. The caller
// ends it with endEvaluateSpan.
func (s *System) startEvaluateSpan(ctx context.Context, tick uint64) (context.Context, trace.Span) {
	tp := s.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	ctx, span := tp.Tracer(tracerName).Start(ctx, "fsm.evaluate")
	span.SetAttributes(attribute.Int64("tick", int64(tick)))
	return ctx, span
}

func endEvaluateSpan(span trace.Span, stats passStats, err error) {
	span.SetAttributes(
		attribute.Int("entities", stats.entities),
		attribute.Int("transitions", stats.transitions),
		attribute.Int("aborted", stats.aborted),
		attribute.Int("violations", stats.violations),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "contract violation")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
