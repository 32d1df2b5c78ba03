package obs

import (
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/metrics"
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

const tracerName = "cargo-tracking-service"

func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Time logs and records the duration of an operation. Use as
// defer obs.Time(ctx, "op")(&err).
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)
	log := logger.FromContext(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			metrics.OperationDuration.WithLabelValues(name, "error").Observe(dur.Seconds())
			log.Warn("operation failed", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		metrics.OperationDuration.WithLabelValues(name, "ok").Observe(dur.Seconds())
		log.Debug("operation done", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}

// Span is Time plus a trace span. The returned context carries the span.
func Span(ctx context.Context, name string) (context.Context, func(errp *error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	done := Time(ctx, name)

	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
		done(errp)
	}
}
