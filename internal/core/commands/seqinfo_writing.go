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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// final pipeline stage: writing the sequence descriptor. Every field of the
// descriptor is derived from the frames actually on disk, never copied from
// configuration; a sequence that somehow finished assembly with zero frames
// is a hard error, since an empty descriptor would poison the benchmark.
package commands

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/jaycherian/go-mot-dataset/internal/core/cor"
	"github.com/jaycherian/go-mot-dataset/internal/core/model"
	"github.com/jaycherian/go-mot-dataset/internal/media"
)

// SeqInfoWriting is the command implementation of the metadata writer stage.
type SeqInfoWriting struct {
	cor.BaseCommand
	frameRate float64
}

// NewSeqInfoWriting is the constructor for the SeqInfoWriting command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - frameRate: The sampling rate recorded in the descriptor.
//
// Outputs:
//   - *SeqInfoWriting: A pointer to the newly instantiated command.
func NewSeqInfoWriting(name string, frameRate float64) *SeqInfoWriting {
	return &SeqInfoWriting{BaseCommand: *cor.NewBaseCommand(name), frameRate: frameRate}
}

// Execute lists the finished frames, probes the first one for the sequence
// resolution, and writes seqinfo.ini. The descriptor is placed into the
// context as the pipeline's final output.
//
// Inputs:
//   - context: The shared `cor.Context` for this pipeline execution.
func (c *SeqInfoWriting) Execute(context cor.Context) {
	imageDir := context.Get(c.GetInputParam()).(string)
	job := context.Get(GetSequenceJobParameterName()).(*model.SequenceJob)

	frames, err := media.ListFrames(imageDir)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	if len(frames) == 0 {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("no frames found in %s", imageDir))
		return
	}

	first, err := imaging.Open(frames[0])
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to read first frame %s: %w", frames[0], err))
		return
	}
	bounds := first.Bounds()

	info := model.NewSequenceInfo(job.Name, c.frameRate, len(frames), bounds.Dx(), bounds.Dy())
	if err := info.Write(job.SeqInfoPath()); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, info)
}
