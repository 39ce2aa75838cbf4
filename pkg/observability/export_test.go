package observability

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ProbeBuildResource exposes buildResource to the external test package.
var ProbeBuildResource = buildResource

// ProbeSamplerSpan reports whether a fresh root span (no parent) would be
// sampled under cfg's sampler.
func ProbeSamplerSpan(cfg Config) bool {
	sampler := selectSampler(cfg)

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	if err != nil {
		panic(err)
	}

	result := sampler.ShouldSample(sdktrace.SamplingParameters{
		TraceID: traceID,
		Name:    "probe",
	})

	return result.Decision != sdktrace.Drop
}
