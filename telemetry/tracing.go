/*------------------------------------------------------------------------------
* tracing.go : OpenTelemetry tracing
*
*          One span per evaluate() call and one child span per per-quadrant
*          solve, so a slow query can be attributed to a specific quadrant's
*          solver. Follows otel/sdk's own documented TracerProvider/
*          stdouttrace wiring.
*-----------------------------------------------------------------------------*/

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// NewTracerProvider wires a stdout-exporting trace provider for local/dev
// use; production deployments swap the exporter without touching call
// sites that only depend on the trace.Tracer interface.
func NewTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", "gahm"),
	))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// tracerName is the package-wide tracer name evaluate()/solve() spans use.
const tracerName = "gahm"

// StartEvaluateSpan opens the per-evaluate() span.
func StartEvaluateSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "evaluate",
		trace.WithAttributes())
}

// StartSolveSpan opens a child span for one (snap, isotach, quadrant) solve.
func StartSolveSpan(ctx context.Context, quadrant int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "solver.solve")
}
