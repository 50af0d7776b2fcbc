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
// command that samples the assembled video into the sequence's numbered
// JPEG frames. Sampling is delegated to the external video tool: frames are
// written 1-indexed with 8-digit zero padding, the naming convention the
// downstream benchmark tooling expects.
package commands

import (
	"github.com/jaycherian/go-mot-dataset/internal/core/cor"
	"github.com/jaycherian/go-mot-dataset/internal/core/model"
	"github.com/jaycherian/go-mot-dataset/internal/media"
)

// FrameExtraction is the command implementation of the frame extractor stage.
type FrameExtraction struct {
	cor.BaseCommand
	ffmpeg    *media.FFmpeg
	frameRate float64
}

// NewFrameExtraction is the constructor for the FrameExtraction command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - ffmpeg: The wrapper around the external video tool.
//   - frameRate: The sampling rate in frames per second.
//
// Outputs:
//   - *FrameExtraction: A pointer to the newly instantiated command.
func NewFrameExtraction(name string, ffmpeg *media.FFmpeg, frameRate float64) *FrameExtraction {
	return &FrameExtraction{
		BaseCommand: *cor.NewBaseCommand(name),
		ffmpeg:      ffmpeg,
		frameRate:   frameRate,
	}
}

// Execute extracts the frames of the assembled video into the sequence
// image directory and pipes the directory path to the next stage.
//
// Inputs:
//   - context: The shared `cor.Context` for this pipeline execution.
func (c *FrameExtraction) Execute(context cor.Context) {
	video := context.Get(c.GetInputParam()).(string)
	job := context.Get(GetSequenceJobParameterName()).(*model.SequenceJob)

	imageDir := job.ImageDir()
	if err := c.ffmpeg.SampleFrames(context.GetContext(), video, imageDir, c.frameRate); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, imageDir)
}
