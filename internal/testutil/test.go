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

// Package test provides utility functions and sample data to support the
// application's test suite. It helps in setting up a consistent test
// environment, loading test-specific configurations, and fabricating small
// recording layouts and annotation documents for workflows and services.
package test

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/go-mot-dataset/internal/config"
)

// StateManager acts as a simple in-memory cache for the application configuration
// during test runs. This prevents the need to reload configuration files for every
// test, speeding up the test suite.
type StateManager struct {
	config *config.Config
}

// state is a package-level variable that holds the singleton instance of StateManager,
// ensuring that the configuration is loaded only once per test run.
var state = &StateManager{}

// HandleErr is a simple test helper function that checks if an error is not nil.
// If an error exists, it fails the test immediately by calling t.Errorf.
// This is a convenience function to reduce boilerplate error-checking code in tests.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestAnnotationText returns a hardcoded annotation document in the format
// produced by the labeling tool: per-frame figures whose object identifiers
// are sparse and non-contiguous, with box corners given in arbitrary order.
//
// Returns:
//   - A string containing the JSON payload of an annotation document.
func GetTestAnnotationText() string {
	return `{
  "frames": [
    {
      "index": 0,
      "figures": [
        {
          "objectId": 7,
          "geometry": { "points": { "exterior": [[50.0, 80.0], [10.0, 20.0]], "interior": [] } }
        },
        {
          "objectId": 3,
          "geometry": { "points": { "exterior": [[100.0, 100.0], [140.0, 160.0]], "interior": [] } }
        }
      ]
    },
    {
      "index": 2,
      "figures": [
        {
          "objectId": 3,
          "geometry": { "points": { "exterior": [[102.0, 101.0], [143.0, 158.0]], "interior": [] } }
        }
      ]
    }
  ]
}`
}

// WriteTestAnnotation writes the sample annotation document into dir and
// returns its path.
func WriteTestAnnotation(dir string, t *testing.T) string {
	path := filepath.Join(dir, "annotation.json")
	HandleErr(os.WriteFile(path, []byte(GetTestAnnotationText()), 0o644), t)
	return path
}

// SetupOS configures the necessary environment variables that the configuration
// loader (`config.LoadConfig`) depends on. By setting these variables, we can
// direct the loader to use the test-specific configuration files (e.g.,
// `configs/.env.test.toml`) instead of production or development ones.
//
// Returns:
//   - An error if setting any environment variable fails.
func SetupOS() (err error) {
	// Set the directory where the configuration files are located.
	err = os.Setenv(config.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	// Set the runtime environment identifier to "test". This causes the loader
	// to look for a file named ".env.test.toml" for overrides.
	err = os.Setenv(config.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
// It ensures that the configuration is loaded from TOML files only once and
// is cached in the package-level `state` variable for subsequent calls.
// This is the primary way tests should retrieve their configuration.
//
// Returns:
//   - A pointer to the loaded and cached config.Config struct.
func GetConfig() *config.Config {
	// Check if the config is already cached.
	if state.config == nil {
		// If not cached, set up the OS environment for the test configuration.
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		// Create a new, empty config struct.
		cfg := config.NewConfig()
		// Load the configuration from the TOML files into the struct.
		// `LoadConfig` handles the hierarchical loading (base file + test override).
		config.LoadConfig(cfg)
		// Cache the loaded config in our state manager.
		state.config = cfg
	}
	// Return the cached configuration.
	return state.config
}
