// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry sets up the OpenTelemetry tracer provider used for run
// and stage spans. With export disabled every tracer is a no-op.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/noldarim/showcase/internal/config"
	"github.com/noldarim/showcase/internal/logger"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetTelemetryLogger()
		log = &l
	})
	return log
}

// Provider owns the process tracer provider.
type Provider struct {
	tp       trace.TracerProvider
	shutdown func(context.Context) error
}

// Setup builds a provider from cfg and installs it as the global one. When
// telemetry is disabled the provider is a no-op and nothing is installed.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Provider, error) {
	if !cfg.Enabled {
		return Noop(), nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	p := NewWithExporter(cfg, sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(p.tp)
	getLog().Info().
		Str("endpoint", cfg.Endpoint).
		Str("service", cfg.ServiceName).
		Float64("sample_ratio", cfg.SampleRatio).
		Msg("Trace export enabled")
	return p, nil
}

// NewWithExporter builds an SDK provider around a span processor option such
// as sdktrace.WithBatcher or sdktrace.WithSyncer. It does not touch the
// global provider.
func NewWithExporter(cfg config.TelemetryConfig, processor sdktrace.TracerProviderOption) *Provider {
	name := cfg.ServiceName
	if name == "" {
		name = "showcase"
	}
	tp := sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	return &Provider{tp: tp, shutdown: tp.Shutdown}
}

// Noop returns a provider whose tracers record nothing.
func Noop() *Provider {
	return &Provider{
		tp:       noop.NewTracerProvider(),
		shutdown: func(context.Context) error { return nil },
	}
}

// Tracer returns a named tracer from the provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// TracerProvider exposes the underlying provider.
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tp
}

// Shutdown flushes pending spans. Calling it more than once is safe.
func (p *Provider) Shutdown(ctx context.Context) error {
	err := p.shutdown(ctx)
	p.shutdown = func(context.Context) error { return nil }
	if err != nil && !errors.Is(err, context.Canceled) {
		getLog().Warn().Err(err).Msg("Trace provider shutdown failed")
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}
