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
// command that multiplies the shared camera mask into every extracted frame
// of a sequence.
//
// Logic Flow:
//  1. The camera code (the leading prefix of the sequence name) selects the
//     mask file from the shared mask directory.
//  2. A missing or unreadable mask leaves the frames unmodified. Whether
//     that is a logged warning or a run-ending error is a configured
//     strictness choice; the historical behavior is to warn, which keeps a
//     camera without a mask usable but can hide data-quality problems.
//  3. Frames are processed in sorted name order and overwritten in place.
//     An undecodable frame is skipped or fatal, again per strictness.
package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jaycherian/go-mot-dataset/internal/config"
	"github.com/jaycherian/go-mot-dataset/internal/core/cor"
	"github.com/jaycherian/go-mot-dataset/internal/core/model"
	"github.com/jaycherian/go-mot-dataset/internal/media"
)

// MaskApplication is the command implementation of the mask applicator stage.
type MaskApplication struct {
	cor.BaseCommand
	maskDir    string
	strictness config.Strictness
}

// NewMaskApplication is the constructor for the MaskApplication command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - maskDir: The shared directory holding one mask image per camera code.
//   - strictness: The configured behavior of the lenient failure paths.
//
// Outputs:
//   - *MaskApplication: A pointer to the newly instantiated command.
func NewMaskApplication(name string, maskDir string, strictness config.Strictness) *MaskApplication {
	return &MaskApplication{
		BaseCommand: *cor.NewBaseCommand(name),
		maskDir:     maskDir,
		strictness:  strictness,
	}
}

// MaskFileName returns the conventional mask file name for a camera code.
func MaskFileName(cameraCode string) string {
	return fmt.Sprintf("%s_mask.png", cameraCode)
}

// Execute applies the camera mask to every frame in the piped image
// directory, then pipes the directory through to the next stage.
//
// Inputs:
//   - context: The shared `cor.Context` for this pipeline execution.
func (c *MaskApplication) Execute(context cor.Context) {
	imageDir := context.Get(c.GetInputParam()).(string)
	job := context.Get(GetSequenceJobParameterName()).(*model.SequenceJob)

	// The directory is piped through unconditionally: the metadata stage
	// describes whatever frames exist, masked or not.
	context.Add(cor.CtxOut, imageDir)

	maskPath := filepath.Join(c.maskDir, MaskFileName(job.CameraCode))
	mask, err := media.LoadMask(maskPath)
	if err != nil {
		if c.strictness.MissingMask == config.ModeFail {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), err)
			return
		}
		slog.Warn("camera mask not found, frames left unmasked",
			"sequence", job.Name, "mask", maskPath, "error", err)
		c.GetSuccessCounter().Add(context.GetContext(), 1)
		return
	}

	failOnUnreadable := c.strictness.UnreadableFrame == config.ModeFail
	masked, err := media.MaskDirectory(imageDir, mask, failOnUnreadable)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	slog.Info("applied camera mask", "sequence", job.Name, "frames", masked)
	c.GetSuccessCounter().Add(context.GetContext(), 1)
}
