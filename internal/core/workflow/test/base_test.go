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

// Package workflow_test contains integration tests for the sequence
// conversion workflow. This file, `base_test.go`, provides the foundational
// setup and teardown logic for all tests within this package. It uses the
// special `TestMain` function, which acts as the main entry point for the
// test suite, allowing for global initialization of configuration and
// telemetry. These shared resources are then available to all other test
// files in this package.
package workflow_test

import (
	"context"
	"os"
	"testing"

	"github.com/jaycherian/go-mot-dataset/internal/config"
	"github.com/jaycherian/go-mot-dataset/internal/telemetry"
	test "github.com/jaycherian/go-mot-dataset/internal/testutil"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

// Shared resources for the test suite, initialized once in TestMain.
var (
	ctx context.Context // The root context for all tests in the suite.
	cfg *config.Config  // The application configuration loaded from test files.
)

// Constants and global tracers/loggers for telemetry.
const tName = "github.com/jaycherian/go-mot-dataset/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

// TestMain is a special function that Go's testing framework executes before
// any other tests in this package. It allows for setting up shared state and
// performing teardown actions after all tests have run.
//
// Inputs:
//   - m: A pointer to testing.M, which provides access to the test suite and
//     allows running the tests via m.Run().
func TestMain(m *testing.M) {
	// ---- Setup Phase ----
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	// Load application configuration from test-specific files (`.env.test.toml`).
	cfg = test.GetConfig()

	// Initialize structured logging.
	telemetry.SetupLogging()

	// Initialize OpenTelemetry. The returned `shutdown` function must be
	// called later to flush any buffered telemetry data.
	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}

	logger.Info("completed test setup")

	// ---- Execution Phase ----
	exitCode := m.Run()

	// ---- Teardown Phase ----
	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shutdown telemetry", "error", err)
	}

	os.Exit(exitCode)
}
