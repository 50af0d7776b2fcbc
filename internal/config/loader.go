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

// Package config provides the application configuration. This file contains
// the hierarchical configuration loader: it first reads a base configuration
// file and then overwrites values with a second, environment-specific file
// (e.g. .env.local.toml, .env.test.toml). The directory and the environment
// name are taken from environment variables so that tests and local runs can
// point at alternate split tables and paths.
package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Constants used for configuration loading.
const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "MOT_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "MOT_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test").
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides a hierarchical configuration loading mechanism. It
// first loads a base configuration file and then overwrites its values with
// an environment-specific configuration file. The paths and environment are
// determined by the EnvConfigFilePrefix and EnvConfigRuntime variables.
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct that will be
//     populated from the TOML files.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	// Default to the "test" runtime when the variable is not set, matching
	// how the test suite loads its fixture configuration.
	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		if _, err := toml.DecodeFile(baseConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// Any values in the environment-specific file overwrite the base config.
	if fileExists(envConfigFileName) {
		if _, err := toml.DecodeFile(envConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}
