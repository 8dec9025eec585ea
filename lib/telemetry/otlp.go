package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ExportConfig is the collector one signal is sent to. Set either
// GrpcEndpoint or HttpEndpoint, an empty ExportConfig disables the signal.
type ExportConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c ExportConfig) enabled() bool {
	return c.GrpcEndpoint != "" || c.HttpEndpoint != ""
}

func (c ExportConfig) grpc() bool {
	return c.GrpcEndpoint != ""
}

func (c ExportConfig) endpoint() string {
	if c.grpc() {
		return c.GrpcEndpoint
	}
	return c.HttpEndpoint
}

func (c ExportConfig) validate(signal string) error {
	if c.GrpcEndpoint != "" && c.HttpEndpoint != "" {
		return fmt.Errorf("%s: grpc_endpoint and http_endpoint are both set", signal)
	}
	if !c.enabled() {
		return nil
	}
	u, err := url.Parse(c.endpoint())
	if err != nil {
		return fmt.Errorf("%s: %w", signal, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s: endpoint must be an absolute url: %s", signal, c.endpoint())
	}
	return nil
}

func (c ExportConfig) logExporter(signal string) {
	protocol := "http"
	if c.grpc() {
		protocol = "grpc"
	}
	slog.Info(
		"otlp exporter initialized",
		"signal", signal,
		"type", protocol,
		"endpoint", c.endpoint(),
		"headers", len(c.Headers) > 0,
	)
}

// Config is the contents of telemetry.json5.
type Config struct {
	Traces  ExportConfig `json:"traces"`
	Metrics ExportConfig `json:"metrics"`
	// MetricIntervalSeconds defaults to 5.
	MetricIntervalSeconds int `json:"metric_interval_seconds"`
}

func (c Config) validate() error {
	if err := c.Traces.validate("traces"); err != nil {
		return err
	}
	if err := c.Metrics.validate("metrics"); err != nil {
		return err
	}
	if c.MetricIntervalSeconds < 0 {
		return fmt.Errorf("metric_interval_seconds must not be negative")
	}
	return nil
}

func (c Config) metricInterval() time.Duration {
	if c.MetricIntervalSeconds == 0 {
		return time.Second * 5
	}
	return time.Second * time.Duration(c.MetricIntervalSeconds)
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceExporter(ctx context.Context, c ExportConfig) (trace.SpanExporter, error) {
	c.logExporter("traces")
	if c.grpc() {
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(c.GrpcEndpoint),
			otlptracegrpc.WithHeaders(c.Headers),
		)
	}
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(c.HttpEndpoint),
		otlptracehttp.WithHeaders(c.Headers),
	)
}

func newMetricExporter(ctx context.Context, c ExportConfig) (metric.Exporter, error) {
	c.logExporter("metrics")
	if c.grpc() {
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(c.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(c.Headers),
		)
	}
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(c.HttpEndpoint),
		otlpmetrichttp.WithHeaders(c.Headers),
	)
}
