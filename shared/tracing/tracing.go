package tracing

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

var tp *sdktrace.TracerProvider

func init() {
	SetPropagator()
}

func MustInit(serviceName, endpoint string) {
	ctx := context.Background()
	if err := Init(ctx, serviceName, endpoint); err != nil {
		log.Fatalf("failed to init tracing for %s: %v", serviceName, err)
	}
}

func Init(ctx context.Context, serviceName, endpoint string) error {
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return err
	}

	tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)

	otel.SetTracerProvider(tp)
	SetPropagator()
	return nil
}

// SetPropagator installs W3C trace-context and baggage propagation. It is
// needed even with tracing disabled so stream payloads keep their context.
func SetPropagator() {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
}

func Shutdown() {
	if tp == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := tp.Shutdown(ctx); err != nil {
		log.Printf("failed to shutdown tracer provider: %v", err)
	}
}

func InjectTracingToMap(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

// InjectTracingToJSON encodes the span context for a Redis stream field, which
// only carries flat string values.
func InjectTracingToJSON(ctx context.Context) string {
	b, err := json.Marshal(InjectTracingToMap(ctx))
	if err != nil {
		return "{}"
	}
	return string(b)
}

func ExtractTracingFromMap(ctx context.Context, carrierMap any) context.Context {
	strMap := map[string]string{}
	switch m := carrierMap.(type) {
	case map[string]string:
		strMap = m
	case map[string]any:
		for k, v := range m {
			if s, ok := v.(string); ok {
				strMap[k] = s
			}
		}
	case string:
		if err := json.Unmarshal([]byte(m), &strMap); err != nil {
			return ctx
		}
	default:
		return ctx
	}
	carrier := propagation.MapCarrier(strMap)
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
