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
// command that assembles a recording's raw clips into one continuous video
// at the target sampling rate.
//
// Logic Flow:
//  1. Enumerate the segment directories of the raw clip root, sorted by
//     name; a root without sub-folders is itself the sole segment. Sorted
//     order is what makes frame indices reproducible across runs.
//  2. For every segment, stream-copy each clip (sorted by name) into an
//     mp4 intermediate in the scratch directory, concat the intermediates,
//     and resample the concatenation to the target rate.
//  3. A segment without clips contributes nothing. Zero usable segments is
//     a skip signal, not an error: the command records the no-video marker
//     and emits no output, which stops the downstream stages.
//  4. One usable segment is the result as-is; several are concatenated into
//     a final merged video.
//
// All intermediates live in a scratch directory registered on the context,
// so they are removed when the pipeline context closes, regardless of how
// the pipeline ended. Any ffmpeg failure is recorded as an error and aborts
// the run; a partially assembled recording must never reach the dataset.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jaycherian/go-mot-dataset/internal/core/cor"
	"github.com/jaycherian/go-mot-dataset/internal/core/model"
	"github.com/jaycherian/go-mot-dataset/internal/media"
)

// VideoAssembly is the command implementation of the video assembler stage.
type VideoAssembly struct {
	cor.BaseCommand
	ffmpeg    *media.FFmpeg // The external tool wrapper.
	frameRate float64       // Target sampling rate of the assembled sequence.
}

// NewVideoAssembly is the constructor for the VideoAssembly command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - ffmpeg: The wrapper around the external video tool.
//   - frameRate: The target sampling rate in frames per second.
//
// Outputs:
//   - *VideoAssembly: A pointer to the newly instantiated command.
func NewVideoAssembly(name string, ffmpeg *media.FFmpeg, frameRate float64) *VideoAssembly {
	return &VideoAssembly{
		BaseCommand: *cor.NewBaseCommand(name),
		ffmpeg:      ffmpeg,
		frameRate:   frameRate,
	}
}

// IsExecutable checks that the sequence job is present in the context.
func (c *VideoAssembly) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetSequenceJobParameterName()) != nil
}

// Execute assembles the recording into one continuous video and places its
// path into the context for the frame extraction stage.
//
// Inputs:
//   - context: The shared `cor.Context` for this pipeline execution.
func (c *VideoAssembly) Execute(context cor.Context) {
	job := context.Get(GetSequenceJobParameterName()).(*model.SequenceJob)

	scratch, err := os.MkdirTemp("", "mot-assembly-")
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to create scratch directory: %w", err))
		return
	}
	context.AddTempDir(scratch)

	segments, err := media.ListSegments(job.RawDir)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	ctx := context.GetContext()
	resampled := make([]string, 0, len(segments))
	for _, segment := range segments {
		clips, err := media.ListClips(segment)
		if err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), err)
			return
		}
		if len(clips) == 0 {
			continue
		}

		segName := filepath.Base(segment)
		parts := make([]string, 0, len(clips))
		for _, clip := range clips {
			stem := strings.TrimSuffix(filepath.Base(clip), filepath.Ext(clip))
			part := filepath.Join(scratch, fmt.Sprintf("%s_%s_%s.mp4", segName, stem, uuid.NewString()))
			if err := c.ffmpeg.StreamCopy(ctx, clip, part); err != nil {
				c.GetErrorCounter().Add(ctx, 1)
				context.AddError(c.GetName(), err)
				return
			}
			parts = append(parts, part)
		}

		concatenated := filepath.Join(scratch, fmt.Sprintf("%s_cat_%s.mp4", segName, uuid.NewString()))
		if err := c.ffmpeg.Concat(ctx, parts, concatenated); err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), err)
			return
		}

		segment1fps := filepath.Join(scratch, fmt.Sprintf("%s_resampled_%s.mp4", segName, uuid.NewString()))
		if err := c.ffmpeg.Resample(ctx, concatenated, segment1fps, c.frameRate); err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), err)
			return
		}
		resampled = append(resampled, segment1fps)
	}

	// No segment produced usable output: mark the sequence as skipped and
	// emit nothing, leaving the rest of the chain unexecutable.
	if len(resampled) == 0 {
		slog.Warn("no video produced for sequence, skipping", "sequence", job.Name)
		context.Add(GetNoVideoParameterName(), true)
		return
	}

	out := resampled[0]
	if len(resampled) > 1 {
		merged := filepath.Join(scratch, fmt.Sprintf("merged_%s.mp4", uuid.NewString()))
		if err := c.ffmpeg.Concat(ctx, resampled, merged); err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), err)
			return
		}
		out = merged
	}

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(cor.CtxOut, out)
}
