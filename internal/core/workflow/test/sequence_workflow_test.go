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
// conversion workflow. These tests exercise the chain wiring without
// invoking the external video tool: context seeding, the errorless skip of
// a recording without usable video, and the halt-on-error behavior of the
// assembly stage.
package workflow_test

import (
	"path/filepath"
	"testing"

	"github.com/jaycherian/go-mot-dataset/internal/core/commands"
	"github.com/jaycherian/go-mot-dataset/internal/core/cor"
	"github.com/jaycherian/go-mot-dataset/internal/core/model"
	"github.com/jaycherian/go-mot-dataset/internal/core/workflow"
	"github.com/jaycherian/go-mot-dataset/internal/media"
	"github.com/stretchr/testify/assert"
)

// newWorkflowJob builds a job whose output lands in a temporary directory.
func newWorkflowJob(t *testing.T, name, rawDir string) *model.SequenceJob {
	return &model.SequenceJob{
		Name:           name,
		Split:          "train",
		CameraCode:     name[:2],
		RawDir:         rawDir,
		AnnotationPath: filepath.Join(t.TempDir(), "annotation.json"),
		OutputDir:      filepath.Join(t.TempDir(), "train", name),
	}
}

// TestNewSequenceContext verifies that the context is seeded the way the
// pipeline expects: the job under its shared parameter name and as the
// first command's input.
func TestNewSequenceContext(t *testing.T) {
	job := newWorkflowJob(t, "C1D-1", t.TempDir())
	corCtx := workflow.NewSequenceContext(job)
	defer corCtx.Close()

	assert.Equal(t, job, corCtx.Get(commands.GetSequenceJobParameterName()))
	assert.Equal(t, job, corCtx.Get(cor.CtxIn))
	assert.False(t, corCtx.HasErrors())
}

// TestWorkflowSkipsRecordingWithoutVideo runs the full chain against an
// empty raw directory: the assembly stage records the skip marker, every
// downstream stage finds no input and passes through, and the pipeline ends
// without a single error.
func TestWorkflowSkipsRecordingWithoutVideo(t *testing.T) {
	octx, span := tracer.Start(ctx, "workflow-skip-test")
	defer span.End()

	w := workflow.NewSequenceWorkflow(cfg, media.NewFFmpeg("definitely-not-a-real-binary-name"))
	job := newWorkflowJob(t, "C2N-3", t.TempDir())

	corCtx := workflow.NewSequenceContext(job)
	corCtx.SetContext(octx)
	defer corCtx.Close()

	w.Execute(corCtx)

	assert.False(t, corCtx.HasErrors())
	assert.NotNil(t, corCtx.Get(commands.GetNoVideoParameterName()))
	assert.Nil(t, corCtx.Get(cor.CtxOut))
}

// TestWorkflowHaltsOnUnreadableRawDir verifies the fatal path: a raw
// directory that cannot be read is an assembly error, the chain stops, and
// the error is attributed to the assembly stage.
func TestWorkflowHaltsOnUnreadableRawDir(t *testing.T) {
	octx, span := tracer.Start(ctx, "workflow-halt-test")
	defer span.End()

	w := workflow.NewSequenceWorkflow(cfg, media.NewFFmpeg("definitely-not-a-real-binary-name"))
	job := newWorkflowJob(t, "C1D-1", "/nonexistent/raw_videos")

	corCtx := workflow.NewSequenceContext(job)
	corCtx.SetContext(octx)
	defer corCtx.Close()

	w.Execute(corCtx)

	assert.True(t, corCtx.HasErrors())
	assert.NotNil(t, corCtx.GetErrors()["video-assembly"])
}
