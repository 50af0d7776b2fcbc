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

// Package commands_test contains unit tests for the pipeline commands. This
// file tests the annotation converter stage end to end: document in,
// gt/gt.txt out, with the identity map frozen over the whole document.
package commands_test

import (
	"os"
	"testing"

	"github.com/jaycherian/go-mot-dataset/internal/core/commands"
	"github.com/jaycherian/go-mot-dataset/internal/core/cor"
	test "github.com/jaycherian/go-mot-dataset/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnnotationConversion runs the sample annotation document through the
// converter stage and checks the written table line by line.
func TestAnnotationConversion(t *testing.T) {
	job := newJob(t, "AA-1")
	require.NoError(t, os.MkdirAll(job.OutputDir, 0o755))
	job.AnnotationPath = test.WriteTestAnnotation(t.TempDir(), t)
	imageDir := job.ImageDir()

	corCtx := newPipelineContext(job, imageDir)
	cmd := commands.NewAnnotationConversion("annotation-conversion")
	cmd.Execute(corCtx)
	assert.False(t, corCtx.HasErrors())

	raw, err := os.ReadFile(job.GroundTruthPath())
	require.NoError(t, err)
	assert.Equal(t, "1,2,10,20,40,60,1,1,1\n1,1,100,100,40,60,1,1,1\n3,1,102,101,41,57,1,1,1\n", string(raw))

	// The frame directory passes through to the metadata stage.
	assert.Equal(t, imageDir, corCtx.Get(cor.CtxOut))
}

// TestAnnotationConversionMissingDocument verifies that an unreadable
// document is a pipeline error.
func TestAnnotationConversionMissingDocument(t *testing.T) {
	job := newJob(t, "AA-1")
	job.AnnotationPath = "/nonexistent/annotation.json"

	corCtx := newPipelineContext(job, job.ImageDir())
	cmd := commands.NewAnnotationConversion("annotation-conversion")
	cmd.Execute(corCtx)

	assert.True(t, corCtx.HasErrors())
}
