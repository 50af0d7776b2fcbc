// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package telemetry provides utilities for setting up and configuring
// application observability, including logging, tracing, and metrics.
// This file initializes the OpenTelemetry SDK. Because the converter is a
// one-shot offline batch tool, trace and metric data is exported to local
// files next to the run output instead of a hosted observability backend.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/jaycherian/go-mot-dataset/internal/config"
)

// File names of the local telemetry sinks, created in the working directory.
const (
	TraceFileName  = "trace.json"
	MetricFileName = "metrics.json"
)

// SetupOpenTelemetry initializes and configures the OpenTelemetry SDK for the
// entire application. It sets up both tracing and metrics, writing the data
// to local JSON files. It returns a `shutdown` function that must be called
// on application exit to ensure all buffered telemetry data is flushed
// before the process terminates.
//
// Inputs:
//   - ctx: The parent context, used for initialization.
//   - cfg: The application's configuration struct, which provides the
//     service name attached to all telemetry.
//
// Returns:
//   - shutdown: A function that should be deferred by the caller to
//     gracefully shut down all telemetry components.
//   - err: An error if any part of the setup fails.
func SetupOpenTelemetry(ctx context.Context, cfg *config.Config) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	// The returned shutdown function calls every registered component
	// shutdown in order, joining any errors into one.
	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	// The resource describes the entity producing telemetry (this process).
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.Application.Name),
		),
	)
	if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
		slog.Warn("partial resource detection", "error", err)
	} else if err != nil {
		slog.Error("resource.New failed", "error", err)
		return nil, err
	}

	// --- Trace Exporter and Provider Setup ---
	traceFile, err := os.Create(TraceFileName)
	if err != nil {
		slog.Error("unable to create trace output file", "error", err)
		return nil, err
	}
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
	if err != nil {
		slog.Error("unable to set up trace exporter", "error", err)
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	otel.SetTracerProvider(tp)

	// --- Metric Exporter and Provider Setup ---
	metricFile, err := os.Create(MetricFileName)
	if err != nil {
		slog.Error("unable to create metric output file", "error", err)
		return nil, err
	}
	mExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(metricFile))
	if err != nil {
		slog.Error("unable to set up metric exporter", "error", err)
		return nil, err
	}

	mProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(mExporter)),
		metric.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, mProvider.Shutdown)
	otel.SetMeterProvider(mProvider)

	return shutdown, nil
}
