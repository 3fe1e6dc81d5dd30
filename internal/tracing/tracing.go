// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing configures the global OpenTelemetry tracer provider
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	// Stdout writes spans to StdoutWriter instead of submitting them over
	// OTLP. This is mostly useful for debugging
	Stdout       bool
	StdoutWriter io.Writer
}

// Setup installs a global tracer provider. By default spans are submitted
// to an HTTP(s) endpoint using OTLP, configured with the
// OTEL_EXPORTER_OTLP_* env vars. The returned func flushes pending spans
// and should be called on shutdown
func Setup(
	ctx context.Context,
	cfg Config,
) (func(context.Context) error, error) {
	var exporter sdktrace.SpanExporter
	var err error
	if cfg.Stdout {
		opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
		if cfg.StdoutWriter != nil {
			opts = append(opts, stdouttrace.WithWriter(cfg.StdoutWriter))
		}
		exporter, err = stdouttrace.New(opts...)
	} else {
		exporter, err = otlptracehttp.New(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}
