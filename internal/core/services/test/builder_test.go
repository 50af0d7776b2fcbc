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

// Package services_test contains unit tests for the dataset builder: split
// ordering, the aggregate pre-flight validation pass, and the seqmap
// manifests. The tests fabricate recording layouts in temporary directories;
// nothing here invokes the external video tool.
package services_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/go-mot-dataset/internal/config"
	"github.com/jaycherian/go-mot-dataset/internal/core/services"
	"github.com/jaycherian/go-mot-dataset/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConfig builds a configuration rooted in fresh temporary
// directories with an empty split table for the test to fill in.
func newTestConfig(t *testing.T) *config.Config {
	cfg := config.NewConfig()
	cfg.Dataset.Root = filepath.Join(t.TempDir(), "recordings")
	cfg.Dataset.OutputDir = filepath.Join(t.TempDir(), "mot")
	return cfg
}

// addRecording fabricates a complete, valid recording layout: the sequence
// directory, a raw clip folder with one transport stream, and an annotation
// document.
func addRecording(t *testing.T, cfg *config.Config, name string) {
	rawDir := filepath.Join(cfg.Dataset.Root, name, cfg.Dataset.RawSubDir)
	require.NoError(t, os.MkdirAll(rawDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, "clip_000.ts"), []byte("v"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Dataset.Root, name, cfg.Dataset.AnnotationFile),
		[]byte(`{"frames":[]}`), 0o644))
}

// TestSplitOrder verifies the canonical train/val/test emission order with
// any extra splits appended in sorted order.
func TestSplitOrder(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Splits = map[string][]string{
		"test":      {"T-1"},
		"challenge": {"X-1"},
		"train":     {"A-1"},
		"val":       {"V-1"},
	}

	builder := services.NewDatasetBuilder(cfg, media.NewFFmpeg(""))
	assert.Equal(t, []string{"train", "val", "test", "challenge"}, builder.SplitOrder())
}

// TestValidateCleanLayout verifies that a complete layout produces no
// violations.
func TestValidateCleanLayout(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Splits = map[string][]string{"train": {"AA-1"}}
	addRecording(t, cfg, "AA-1")

	builder := services.NewDatasetBuilder(cfg, media.NewFFmpeg(""))
	assert.Empty(t, builder.Validate())
}

// TestValidateAggregatesViolations verifies that one validation pass reports
// every problem across every configured sequence instead of stopping at the
// first, so the operator can repair the whole layout at once.
func TestValidateAggregatesViolations(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Splits = map[string][]string{
		"train": {"AA-1", "BB-1"},
		"val":   {"CC-1"},
	}

	// AA-1 is complete. BB-1 exists but has an empty raw folder and no
	// annotation document. CC-1 is missing entirely.
	addRecording(t, cfg, "AA-1")
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Dataset.Root, "BB-1", cfg.Dataset.RawSubDir), 0o755))

	builder := services.NewDatasetBuilder(cfg, media.NewFFmpeg(""))
	issues := builder.Validate()

	assert.Equal(t, []string{
		"BB-1: no clips found in raw_videos/",
		"BB-1: missing annotation.json",
		"CC-1: directory not found",
	}, issues)
}

// TestValidateMissingRawDir verifies the dedicated violation for a recording
// directory without its raw clip folder.
func TestValidateMissingRawDir(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Splits = map[string][]string{"train": {"AA-1"}}
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Dataset.Root, "AA-1"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Dataset.Root, "AA-1", cfg.Dataset.AnnotationFile),
		[]byte(`{"frames":[]}`), 0o644))

	builder := services.NewDatasetBuilder(cfg, media.NewFFmpeg(""))
	assert.Equal(t, []string{"AA-1: missing raw_videos/"}, builder.Validate())
}

// TestWriteSeqmaps verifies the per-split manifests: one file per non-empty
// split, sequence names one per line, and no file at all for an empty split.
func TestWriteSeqmaps(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Splits = map[string][]string{
		"train": {"AA-1", "BB-1"},
		"val":   {"CC-1"},
		"test":  {},
	}
	require.NoError(t, os.MkdirAll(cfg.Dataset.OutputDir, 0o755))

	builder := services.NewDatasetBuilder(cfg, media.NewFFmpeg(""))
	require.NoError(t, builder.WriteSeqmaps())

	train, err := os.ReadFile(filepath.Join(cfg.Dataset.OutputDir, "train"+services.SeqmapSuffix))
	require.NoError(t, err)
	assert.Equal(t, "AA-1\nBB-1\n", string(train))

	val, err := os.ReadFile(filepath.Join(cfg.Dataset.OutputDir, "val"+services.SeqmapSuffix))
	require.NoError(t, err)
	assert.Equal(t, "CC-1\n", string(val))

	_, err = os.Stat(filepath.Join(cfg.Dataset.OutputDir, "test"+services.SeqmapSuffix))
	assert.True(t, os.IsNotExist(err))
}
