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

// Package config defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings
// for the dataset converter: input/output locations, the ffmpeg binary,
// the train/val/test split table, and the strictness of the lenient
// failure modes.
//
// Structs:
//   - Dataset: Locations and naming conventions of the raw recordings.
//   - FFmpeg: Configuration for the external video tool.
//   - Strictness: Behavior toggles for the deliberately lenient error paths.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with defaults.
package config

import "path/filepath"

// Strictness levels accepted by the Strictness fields. The zero value of a
// field is treated as ModeWarn.
const (
	// ModeWarn logs the condition and continues.
	ModeWarn = "warn"
	// ModeFail turns the condition into a pipeline error.
	ModeFail = "fail"
)

// Dataset describes the on-disk layout of the raw recordings and the
// destination of the converted MOT dataset.
type Dataset struct {
	Root           string  `toml:"root"`            // Directory containing one sub-directory per recording plus masks/.
	OutputDir      string  `toml:"output_dir"`      // Destination root; split directories are created below it.
	MaskDir        string  `toml:"mask_dir"`        // Directory holding <camera-code>_mask.png files. Defaults to <root>/masks.
	RawSubDir      string  `toml:"raw_sub_dir"`     // Name of the raw clip folder inside each recording (raw_videos).
	AnnotationFile string  `toml:"annotation_file"` // Name of the per-recording annotation document (annotation.json).
	FrameRate      float64 `toml:"frame_rate"`      // Sampling rate in frames per second for the assembled sequence.
	CameraCodeLen  int     `toml:"camera_code_len"` // Number of leading characters of a sequence name that select the mask.
}

// FFmpeg holds the configuration of the external video tool.
type FFmpeg struct {
	Command string `toml:"command"` // Path to the ffmpeg binary; defaults to "ffmpeg" on the PATH.
}

// Strictness configures the two deliberately lenient failure modes of the
// mask application step. The original conversion tooling silently tolerated
// both conditions; making them configurable keeps silent data-quality
// problems visible when wanted.
type Strictness struct {
	MissingMask     string `toml:"missing_mask"`     // "warn": leave frames unmasked; "fail": error out.
	UnreadableFrame string `toml:"unreadable_frame"` // "warn": skip the frame; "fail": error out.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other configuration
// structs and is passed explicitly into the orchestrator at construction,
// never held as process-wide state.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name string `toml:"name"` // The name of the application, used for telemetry.
	} `toml:"application"`
	Dataset    Dataset             `toml:"dataset"`    // Input/output layout configuration.
	FFmpeg     FFmpeg              `toml:"ffmpeg"`     // External tool configuration.
	Strictness Strictness          `toml:"strictness"` // Lenient-path behavior.
	Splits     map[string][]string `toml:"splits"`     // Split name (train/val/test) -> ordered sequence names.
}

// NewConfig is a constructor function that creates a new Config instance with
// the defaults matching the original conversion conventions. The map field
// must be initialized so the TOML decoder can populate it.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with defaults applied.
func NewConfig() *Config {
	out := &Config{Splits: make(map[string][]string)}
	out.Dataset.RawSubDir = "raw_videos"
	out.Dataset.AnnotationFile = "annotation.json"
	out.Dataset.FrameRate = 1
	out.Dataset.CameraCodeLen = 2
	out.FFmpeg.Command = "ffmpeg"
	out.Strictness.MissingMask = ModeWarn
	out.Strictness.UnreadableFrame = ModeWarn
	return out
}

// ResolveMaskDir returns the configured mask directory, defaulting to the
// masks/ folder under the dataset root when unset.
func (c *Config) ResolveMaskDir() string {
	if c.Dataset.MaskDir != "" {
		return c.Dataset.MaskDir
	}
	return filepath.Join(c.Dataset.Root, "masks")
}

// SplitNames returns the split names in the canonical emission order. Splits
// present in the configuration but outside the canonical set are appended in
// lexicographic-stable map iteration order handled by the caller; in practice
// the table only ever holds the three canonical splits.
func SplitNames() []string {
	return []string{"train", "val", "test"}
}
