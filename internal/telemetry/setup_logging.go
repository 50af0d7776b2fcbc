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
// This file handles the setup of structured logging that integrates with
// OpenTelemetry traces, so every log line emitted while a pipeline span is
// active carries the ids needed to correlate it with the trace output.
package telemetry

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// spanContextLogHandler is a custom slog.Handler that wraps another handler.
// It intercepts each log record and injects the OpenTelemetry trace and span
// ids when a valid span context is present on the Go context.
type spanContextLogHandler struct {
	slog.Handler
}

// handlerWithSpanContext creates a new spanContextLogHandler wrapping the
// provided base handler.
func handlerWithSpanContext(handler slog.Handler) *spanContextLogHandler {
	return &spanContextLogHandler{Handler: handler}
}

// Handle checks the provided context for a valid OpenTelemetry SpanContext
// and, if found, adds the trace id, span id, and sampled flag to the record
// before delegating to the wrapped handler.
func (t *spanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.Any("trace_id", s.TraceID()),
			slog.Any("span_id", s.SpanID()),
			slog.Bool("trace_sampled", s.TraceFlags().IsSampled()),
		)
	}
	return t.Handler.Handle(ctx, record)
}

// SetupLogging initializes the logging system for the entire application.
// It configures both the standard `log` package and the structured `slog`
// package with a JSON handler that writes to standard output and to a local
// `app.log` file, and enables automatic injection of trace context.
func SetupLogging() {
	// The file is created if absent and truncated if present; a one-shot
	// batch run keeps only its own log.
	file, _ := os.Create("app.log")
	multiWriter := io.MultiWriter(os.Stdout, file)

	// The standard log package is still used for fatal exits.
	log.SetOutput(multiWriter)
	log.SetFlags(log.Ldate | log.Ltime)

	jsonHandler := slog.NewJSONHandler(multiWriter, nil)
	instrumentedHandler := handlerWithSpanContext(jsonHandler)
	slog.SetDefault(slog.New(instrumentedHandler))
	slog.SetLogLoggerLevel(slog.LevelInfo)
}
