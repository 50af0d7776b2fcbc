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

// Package workflow defines the high-level orchestrations that combine
// individual commands into coherent pipelines. This file implements the
// per-sequence conversion workflow: raw clips to assembled video, video to
// numbered frames, frames through the camera mask, annotation document to
// ground truth, and finally the descriptor derived from what landed on disk.
package workflow

import (
	"github.com/jaycherian/go-mot-dataset/internal/config"
	"github.com/jaycherian/go-mot-dataset/internal/core/commands"
	"github.com/jaycherian/go-mot-dataset/internal/core/cor"
	"github.com/jaycherian/go-mot-dataset/internal/core/model"
	"github.com/jaycherian/go-mot-dataset/internal/media"
)

// SequenceWorkflow orchestrates the conversion of one recording into one
// MOT sequence. The struct holds the configuration and the command chain;
// one workflow instance is reused across sequences since all per-sequence
// state travels in the pipeline context.
type SequenceWorkflow struct {
	cor.BaseCommand
	cfg    *config.Config
	ffmpeg *media.FFmpeg
	chain  cor.Chain
}

// Execute runs the sequence pipeline by invoking the underlying chain.
//
// Inputs:
//   - context: The chain of responsibility context for this execution. The
//     caller must have stored the *model.SequenceJob under the sequence job
//     parameter and seeded CtxIn with it.
func (w *SequenceWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain constructs the five-stage pipeline. The order encodes the
// one-way data flow: no stage ever reads the output of a later stage.
func (w *SequenceWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewVideoAssembly("video-assembly", w.ffmpeg, w.cfg.Dataset.FrameRate))
	out.AddCommand(commands.NewFrameExtraction("frame-extraction", w.ffmpeg, w.cfg.Dataset.FrameRate))
	out.AddCommand(commands.NewMaskApplication("mask-application", w.cfg.ResolveMaskDir(), w.cfg.Strictness))
	out.AddCommand(commands.NewAnnotationConversion("annotation-conversion"))
	out.AddCommand(commands.NewSeqInfoWriting("seqinfo-writing", w.cfg.Dataset.FrameRate))
	w.chain = out
}

// NewSequenceWorkflow is the constructor for the SequenceWorkflow.
//
// Inputs:
//   - cfg: The application configuration.
//   - ffmpeg: The wrapper around the external video tool.
//
// Outputs:
//   - *SequenceWorkflow: A pointer to a fully initialized workflow.
func NewSequenceWorkflow(cfg *config.Config, ffmpeg *media.FFmpeg) *SequenceWorkflow {
	out := &SequenceWorkflow{
		BaseCommand: *cor.NewBaseCommand("sequence-workflow"),
		cfg:         cfg,
		ffmpeg:      ffmpeg,
	}
	out.initializeChain()
	return out
}

// NewSequenceContext prepares a pipeline context for one job: the job is
// stored under its shared parameter name and seeded as the first command's
// input.
func NewSequenceContext(job *model.SequenceJob) cor.Context {
	out := cor.NewBaseContext()
	out.Add(commands.GetSequenceJobParameterName(), job)
	out.Add(cor.CtxIn, job)
	return out
}
