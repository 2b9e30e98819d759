package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/abdouthematrix/westcairostars"

// Tracer returns the tracer used for aggregation and leaderboard spans. It
// resolves through the global provider, so spans are no-ops until a provider
// is installed.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
