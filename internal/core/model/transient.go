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

// Package model defines the core data structures for the converter. This
// file, `transient.go`, contains the in-memory types that travel through a
// pipeline execution but are never persisted: the per-sequence job that
// names every input and output location one conversion touches.
package model

import "path/filepath"

// SequenceJob carries the resolved locations for converting one recording
// into one MOT sequence. It is built by the orchestrator from the validated
// configuration and placed into the pipeline context before the chain runs;
// every command reads from it instead of from global state.
type SequenceJob struct {
	Name           string // The recording/sequence name (e.g. "C1D-1").
	Split          string // The split this sequence belongs to (train/val/test).
	CameraCode     string // Leading name prefix that selects the shared camera mask.
	SequenceDir    string // The recording directory under the dataset root.
	RawDir         string // The raw clip directory inside the recording.
	AnnotationPath string // The per-recording annotation document.
	OutputDir      string // The destination sequence directory (<out>/<split>/<name>).
}

// ImageDir returns the destination frame directory of the sequence.
func (j *SequenceJob) ImageDir() string {
	return filepath.Join(j.OutputDir, ImageDirName)
}

// GroundTruthDir returns the destination ground-truth directory.
func (j *SequenceJob) GroundTruthDir() string {
	return filepath.Join(j.OutputDir, GroundTruthDirName)
}

// GroundTruthPath returns the destination gt.txt path.
func (j *SequenceJob) GroundTruthPath() string {
	return filepath.Join(j.GroundTruthDir(), GroundTruthFileName)
}

// SeqInfoPath returns the destination descriptor path.
func (j *SequenceJob) SeqInfoPath() string {
	return filepath.Join(j.OutputDir, SeqInfoFileName)
}
