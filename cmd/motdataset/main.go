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

// Package main is the entry point of the MOT dataset builder, the one-shot
// batch tool that converts raw multi-camera recordings plus polygon
// annotations into a standard multi-object-tracking benchmark layout.
//
// The startup order encodes the error taxonomy of the tool:
//
//  1. Logging and telemetry come up first so every later failure is
//     structured and traceable.
//  2. The external video tool is resolved once; a missing binary is fatal
//     before any work starts.
//  3. Pre-flight validation covers every configured sequence and reports
//     every violation in one pass, then aborts, so the operator can fix the
//     whole layout at once.
//  4. Only after a clean pre-flight does the builder process sequences. A
//     recording without assemblable video is skipped; a failing external
//     tool invocation ends the run.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/jaycherian/go-mot-dataset/internal/core/services"
	"github.com/jaycherian/go-mot-dataset/internal/media"
	"github.com/jaycherian/go-mot-dataset/internal/telemetry"
)

// main orchestrates one full conversion run.
func main() {
	telemetry.SetupLogging()
	slog.Info("logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := GetConfig()

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		slog.Error("failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("failed to shutdown telemetry", "error", err)
		}
	}()

	ffmpeg := media.NewFFmpeg(cfg.FFmpeg.Command)
	if err := ffmpeg.Available(); err != nil {
		log.Fatalf("required external tool missing: %v", err)
	}

	builder := services.NewDatasetBuilder(cfg, ffmpeg)

	if issues := builder.Validate(); len(issues) > 0 {
		slog.Error("pre-flight validation failed", "violations", len(issues))
		for _, issue := range issues {
			slog.Error("pre-flight", "issue", issue)
		}
		log.Fatal("please fix the issues above and re-run")
	}

	summary, err := builder.Run(ctx)
	if err != nil {
		log.Fatalf("conversion aborted: %v", err)
	}

	slog.Info("all sequences processed",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"elapsed", summary.Elapsed.String(),
		"output", cfg.Dataset.OutputDir)
}
