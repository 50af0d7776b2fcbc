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
// Responsibility (COR) pattern's Command interface, one per stage of the
// sequence conversion pipeline. This file defines the shared context
// parameter names commands use to exchange state outside the default
// CtxIn/CtxOut piping.
package commands

// GetSequenceJobParameterName returns the context key under which the
// orchestrator stores the *model.SequenceJob for the running pipeline.
func GetSequenceJobParameterName() string {
	return "sequence-job"
}

// GetNoVideoParameterName returns the context key under which the video
// assembly stage records that a recording yielded no usable video. The
// presence of this key marks a skipped sequence, not a failure: downstream
// stages find no input and pass through, and the orchestrator continues
// with the next sequence.
func GetNoVideoParameterName() string {
	return "no-video"
}
