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

// Package config_test contains unit tests for the configuration package:
// constructor defaults, the hierarchical TOML loader, and the mask
// directory fallback.
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/go-mot-dataset/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfigDefaults verifies the built-in conventions a bare config
// carries before any file is loaded.
func TestNewConfigDefaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "raw_videos", cfg.Dataset.RawSubDir)
	assert.Equal(t, "annotation.json", cfg.Dataset.AnnotationFile)
	assert.Equal(t, 1.0, cfg.Dataset.FrameRate)
	assert.Equal(t, 2, cfg.Dataset.CameraCodeLen)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.Command)
	assert.Equal(t, config.ModeWarn, cfg.Strictness.MissingMask)
	assert.Equal(t, config.ModeWarn, cfg.Strictness.UnreadableFrame)
	assert.NotNil(t, cfg.Splits)
}

// TestResolveMaskDir verifies the masks/ fallback under the dataset root
// and that an explicit directory wins.
func TestResolveMaskDir(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Dataset.Root = filepath.Join("data", "recordings")
	assert.Equal(t, filepath.Join("data", "recordings", "masks"), cfg.ResolveMaskDir())

	cfg.Dataset.MaskDir = filepath.Join("elsewhere", "masks")
	assert.Equal(t, filepath.Join("elsewhere", "masks"), cfg.ResolveMaskDir())
}

// TestLoadConfigHierarchy verifies that the environment-specific file
// overwrites the base file, and that untouched values survive.
func TestLoadConfigHierarchy(t *testing.T) {
	dir := t.TempDir()
	base := `
[application]
name = "base-name"

[dataset]
root = "base-root"
frame_rate = 2.0

[splits]
train = ["AA-1"]
`
	override := `
[dataset]
root = "override-root"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.unittest.toml"), []byte(override), 0o644))

	t.Setenv(config.EnvConfigFilePrefix, dir)
	t.Setenv(config.EnvConfigRuntime, "unittest")

	cfg := config.NewConfig()
	config.LoadConfig(cfg)

	assert.Equal(t, "base-name", cfg.Application.Name)
	assert.Equal(t, "override-root", cfg.Dataset.Root)
	assert.Equal(t, 2.0, cfg.Dataset.FrameRate)
	assert.Equal(t, []string{"AA-1"}, cfg.Splits["train"])
}
