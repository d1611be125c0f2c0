// Package telemetry configures OpenTelemetry tracing and metrics export for
// routerd. Router keeper spans are created against the global tracer
// provider, so installing a Provider is enough to export them.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "paw-router"
	serviceVersion = "1.0.0"
)

// Config holds the configuration for telemetry
type Config struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRate   float64
	Environment  string
	RouterAddr   string
}

// Provider owns the tracer and meter providers installed as otel globals.
type Provider struct {
	tracerProvider *tracesdk.TracerProvider
	meterProvider  *metricsdk.MeterProvider
	config         Config
}

// NewProvider installs tracing and metrics providers. A disabled config
// yields a no-op Provider.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{config: cfg}, nil
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("environment", cfg.Environment),
			attribute.String("router.address", cfg.RouterAddr),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{config: cfg}
	if err := p.initTracing(res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := p.initMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return p, nil
}

func validateConfig(cfg Config) error {
	if cfg.OTLPEndpoint == "" {
		return fmt.Errorf("otlp endpoint is required")
	}
	if _, err := url.Parse(cfg.OTLPEndpoint); err != nil {
		return fmt.Errorf("invalid otlp endpoint: %w", err)
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("sample rate must be between 0 and 1")
	}
	return nil
}

func (p *Provider) initTracing(res *resource.Resource) error {
	endpoint := strings.TrimPrefix(p.config.OTLPEndpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client := otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithURLPath("/v1/traces"),
	)
	exporter, err := otlptrace.New(context.Background(), client)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter,
			tracesdk.WithMaxExportBatchSize(512),
			tracesdk.WithBatchTimeout(5*time.Second),
		),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(p.config.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	p.tracerProvider = tp
	return nil
}

// initMetrics bridges otel instruments onto the default Prometheus registry
// served at /metrics.
func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	mp := metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)
	p.meterProvider = mp
	return nil
}

// Shutdown flushes and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var err error
	if p.tracerProvider != nil {
		if shutdownErr := p.tracerProvider.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("failed to shutdown tracer provider: %w", shutdownErr)
		}
	}
	if p.meterProvider != nil {
		if shutdownErr := p.meterProvider.Shutdown(ctx); shutdownErr != nil {
			if err != nil {
				err = fmt.Errorf("%w; failed to shutdown meter provider: %w", err, shutdownErr)
			} else {
				err = fmt.Errorf("failed to shutdown meter provider: %w", shutdownErr)
			}
		}
	}
	return err
}

// HealthCheck reports whether an enabled provider finished initializing.
func (p *Provider) HealthCheck() error {
	if !p.config.Enabled {
		return nil
	}
	if p.tracerProvider == nil {
		return fmt.Errorf("tracer provider not initialized")
	}
	if p.meterProvider == nil {
		return fmt.Errorf("meter provider not initialized")
	}
	return nil
}

// StartRequestSpan starts a server span for an API request.
func StartRequestSpan(ctx context.Context, route string) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, "api."+route,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.route", route)),
	)
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
