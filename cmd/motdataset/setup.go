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

package main

import (
	"log"
	"os"

	"github.com/jaycherian/go-mot-dataset/internal/config"
)

type StateManager struct {
	config *config.Config
}

var state = &StateManager{}

func SetupOS() (err error) {
	err = os.Setenv(config.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(config.EnvConfigRuntime, "local")
	return err
}

func GetConfig() *config.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		// Create a default config
		cfg := config.NewConfig()
		// Load it from the TOML files
		config.LoadConfig(cfg)
		state.config = cfg
	}
	return state.config
}
