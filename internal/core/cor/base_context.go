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

// Package cor (Chain of Responsibility) provides the fundamental building
// blocks for the conversion pipelines. This file defines `BaseContext`, the
// default implementation of the `Context` interface.
//
// The Context acts as a shared property bag for one sequence conversion:
// commands read their inputs from it, write their results back to it, and
// register every scratch artifact (per-clip intermediates, the assembled
// video, the scratch directory itself) for cleanup. Closing the context is
// what guarantees that no intermediate video outlives the sequence that
// produced it, whether the pipeline succeeded or failed.
package cor

import (
	"context"
	"log/slog"
	"os"
)

// BaseContext is the default implementation of the Context interface. It
// holds the shared state for a pipeline execution.
type BaseContext struct {
	data      map[string]interface{} // Arbitrary key-value data shared between commands.
	errors    map[string]error       // Errors keyed by the command name that produced them.
	tempFiles []string               // Temporary files to remove on Close.
	tempDirs  []string               // Scratch directories to remove recursively on Close.
	context   context.Context        // The standard Go context for cancellation and trace propagation.
}

// NewBaseContext is the constructor for BaseContext. It initializes all the
// internal maps and slices so the context is ready for use.
func NewBaseContext() Context {
	return &BaseContext{
		data:      make(map[string]interface{}),
		errors:    make(map[string]error),
		tempFiles: make([]string, 0),
		tempDirs:  make([]string, 0),
	}
}

// SetContext sets the underlying standard Go context. The BaseChain uses
// this to scope OpenTelemetry spans per command.
func (c *BaseContext) SetContext(context context.Context) {
	c.context = context
}

// GetContext retrieves the underlying standard Go context.
func (c *BaseContext) GetContext() context.Context {
	return c.context
}

// Close removes every tracked temporary file and then every tracked scratch
// directory. Failures are logged and do not stop the remaining cleanup.
func (c *BaseContext) Close() {
	for _, file := range c.GetTempFiles() {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove temporary file", "file", file, "error", err)
		}
	}
	for _, dir := range c.GetTempDirs() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("failed to remove scratch directory", "dir", dir, "error", err)
		}
	}
}

// Add stores a key-value pair in the context's data map. It returns the
// context to allow fluent chaining.
func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

// AddTempFile adds a file path to the list of temporary files that need cleanup.
func (c *BaseContext) AddTempFile(file string) {
	c.tempFiles = append(c.tempFiles, file)
}

// GetTempFiles returns the slice of all tracked temporary file paths.
func (c *BaseContext) GetTempFiles() []string {
	return c.tempFiles
}

// AddTempDir adds a directory path to the list of scratch directories that
// need recursive cleanup.
func (c *BaseContext) AddTempDir(dir string) {
	c.tempDirs = append(c.tempDirs, dir)
}

// GetTempDirs returns the slice of all tracked scratch directory paths.
func (c *BaseContext) GetTempDirs() []string {
	return c.tempDirs
}

// AddError adds an error to the context's error map, keyed by command name.
func (c *BaseContext) AddError(key string, err error) {
	c.errors[key] = err
}

// GetErrors returns the map of all errors collected during the pipeline.
func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

// Get retrieves a value from the context's data map by its key. It returns
// nil if the key does not exist.
func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

// Remove deletes a key-value pair from the context's data map.
func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

// HasErrors checks if any errors have been added to the context.
func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}
