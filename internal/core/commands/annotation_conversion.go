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
// command that transcodes the recording's annotation document into the MOT
// ground-truth table. The identity map is frozen over the whole document
// before the first row is written, so identities are stable regardless of
// when an object first appears.
package commands

import (
	"os"

	"github.com/jaycherian/go-mot-dataset/internal/core/cor"
	"github.com/jaycherian/go-mot-dataset/internal/core/model"
)

// AnnotationConversion is the command implementation of the annotation
// converter stage.
type AnnotationConversion struct {
	cor.BaseCommand
}

// NewAnnotationConversion is the constructor for the AnnotationConversion command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *AnnotationConversion: A pointer to the newly instantiated command.
func NewAnnotationConversion(name string) *AnnotationConversion {
	return &AnnotationConversion{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute converts the annotation document of the running job and writes
// gt/gt.txt. The piped frame directory passes through unchanged for the
// metadata stage.
//
// Inputs:
//   - context: The shared `cor.Context` for this pipeline execution.
func (c *AnnotationConversion) Execute(context cor.Context) {
	imageDir := context.Get(c.GetInputParam()).(string)
	job := context.Get(GetSequenceJobParameterName()).(*model.SequenceJob)

	doc, err := model.LoadAnnotationDocument(job.AnnotationPath)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	rows, err := model.ConvertToGroundTruth(doc)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	if err := os.MkdirAll(job.GroundTruthDir(), 0o755); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	if err := model.WriteGroundTruth(rows, job.GroundTruthPath()); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, imageDir)
}
