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

// Package services contains the business logic that sits above the command
// pipelines. This file implements the dataset builder: the orchestrator
// that validates the configured splits up front, runs the per-sequence
// conversion pipeline for every (split, sequence) pair in order, and writes
// the per-split seqmap manifests at the end.
//
// The builder runs strictly sequentially. Sequences are independent of each
// other, so the only cross-sequence state is the read-only camera masks;
// there is deliberately no parallelism in a one-shot batch conversion, and
// total run time scales linearly with input footage.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jaycherian/go-mot-dataset/internal/config"
	"github.com/jaycherian/go-mot-dataset/internal/core/commands"
	"github.com/jaycherian/go-mot-dataset/internal/core/model"
	"github.com/jaycherian/go-mot-dataset/internal/core/workflow"
	"github.com/jaycherian/go-mot-dataset/internal/media"
)

// SeqmapSuffix is appended to a split name to form its manifest file name.
const SeqmapSuffix = "_seqmap.txt"

// RunSummary reports what a completed run produced.
type RunSummary struct {
	Processed int           // Sequences fully converted.
	Skipped   int           // Sequences skipped because no video could be assembled.
	Elapsed   time.Duration // Total wall-clock duration of the run.
}

// DatasetBuilder orchestrates the full conversion of a configured dataset.
// All paths, the split table, and the strictness knobs come from the
// configuration passed at construction; the builder holds no process-global
// state, which is what keeps it testable against alternate layouts.
type DatasetBuilder struct {
	cfg      *config.Config
	ffmpeg   *media.FFmpeg
	workflow *workflow.SequenceWorkflow
}

// NewDatasetBuilder is the constructor for the DatasetBuilder.
//
// Inputs:
//   - cfg: The application configuration, including the split table.
//   - ffmpeg: The wrapper around the external video tool.
//
// Outputs:
//   - *DatasetBuilder: A pointer to a fully initialized builder.
func NewDatasetBuilder(cfg *config.Config, ffmpeg *media.FFmpeg) *DatasetBuilder {
	return &DatasetBuilder{
		cfg:      cfg,
		ffmpeg:   ffmpeg,
		workflow: workflow.NewSequenceWorkflow(cfg, ffmpeg),
	}
}

// SplitOrder returns the configured split names in emission order: the
// canonical train/val/test splits first, then any extra splits sorted by
// name, so repeated runs always process sequences in the same order.
func (b *DatasetBuilder) SplitOrder() []string {
	out := make([]string, 0, len(b.cfg.Splits))
	seen := make(map[string]bool)
	for _, name := range config.SplitNames() {
		if _, ok := b.cfg.Splits[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	extras := make([]string, 0)
	for name := range b.cfg.Splits {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}

// Validate performs the pre-flight pass over every configured sequence and
// returns the full list of problems found. Nothing is processed until this
// list is empty: collecting every violation in one pass lets the operator
// fix the whole dataset layout at once instead of rediscovering problems
// run by run.
//
// Outputs:
//   - []string: One human-readable line per violation; empty when clean.
func (b *DatasetBuilder) Validate() []string {
	issues := make([]string, 0)
	for _, split := range b.SplitOrder() {
		for _, name := range b.cfg.Splits[split] {
			job := b.buildJob(split, name)

			if _, err := os.Stat(job.SequenceDir); err != nil {
				issues = append(issues, fmt.Sprintf("%s: directory not found", name))
				continue
			}
			if _, err := os.Stat(job.RawDir); err != nil {
				issues = append(issues, fmt.Sprintf("%s: missing %s/", name, b.cfg.Dataset.RawSubDir))
			} else if !media.HasAnyClip(job.RawDir) {
				issues = append(issues, fmt.Sprintf("%s: no clips found in %s/", name, b.cfg.Dataset.RawSubDir))
			}
			if _, err := os.Stat(job.AnnotationPath); err != nil {
				issues = append(issues, fmt.Sprintf("%s: missing %s", name, b.cfg.Dataset.AnnotationFile))
			}
		}
	}
	return issues
}

// Run converts every configured sequence in order and writes the per-split
// manifests. A sequence that yields no assemblable video is logged and
// skipped; any pipeline error ends the run immediately, since a partially
// converted dataset must not be completed silently.
//
// Inputs:
//   - ctx: The context for the whole run; it is passed to every external
//     tool invocation.
//
// Outputs:
//   - *RunSummary: Counts of processed and skipped sequences.
//   - error: The first fatal pipeline error, or nil.
func (b *DatasetBuilder) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{}
	start := time.Now()

	if err := os.MkdirAll(b.cfg.Dataset.OutputDir, 0o755); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, split := range b.SplitOrder() {
		for _, name := range b.cfg.Splits[split] {
			slog.Info("converting sequence", "sequence", name, "split", split)
			job := b.buildJob(split, name)
			seqStart := time.Now()

			skipped, err := b.runSequence(ctx, job)
			if err != nil {
				summary.Elapsed = time.Since(start)
				return summary, fmt.Errorf("sequence %s failed: %w", name, err)
			}
			if skipped {
				summary.Skipped++
				continue
			}
			summary.Processed++
			slog.Info("sequence converted",
				"sequence", name,
				"split", split,
				"elapsed", time.Since(seqStart).String())
		}
	}

	if err := b.WriteSeqmaps(); err != nil {
		summary.Elapsed = time.Since(start)
		return summary, err
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// runSequence executes the pipeline for one job inside its own context so
// that scratch artifacts are removed as soon as the sequence finishes,
// successful or not.
func (b *DatasetBuilder) runSequence(ctx context.Context, job *model.SequenceJob) (skipped bool, err error) {
	corCtx := workflow.NewSequenceContext(job)
	corCtx.SetContext(ctx)
	defer corCtx.Close()

	b.workflow.Execute(corCtx)

	if corCtx.HasErrors() {
		errs := make([]error, 0, len(corCtx.GetErrors()))
		for command, cmdErr := range corCtx.GetErrors() {
			errs = append(errs, fmt.Errorf("%s: %w", command, cmdErr))
		}
		return false, errors.Join(errs...)
	}
	return corCtx.Get(commands.GetNoVideoParameterName()) != nil, nil
}

// WriteSeqmaps writes one manifest per non-empty split into the output
// directory, listing the split's sequence names one per line. Benchmark
// evaluation tooling consumes these files to know which sequences belong
// to which split.
func (b *DatasetBuilder) WriteSeqmaps() error {
	for _, split := range b.SplitOrder() {
		names := b.cfg.Splits[split]
		if len(names) == 0 {
			continue
		}
		path := filepath.Join(b.cfg.Dataset.OutputDir, split+SeqmapSuffix)
		content := strings.Join(names, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write seqmap %s: %w", path, err)
		}
	}
	return nil
}

// buildJob resolves every location one sequence conversion touches.
func (b *DatasetBuilder) buildJob(split, name string) *model.SequenceJob {
	sequenceDir := filepath.Join(b.cfg.Dataset.Root, name)
	codeLen := b.cfg.Dataset.CameraCodeLen
	if codeLen <= 0 || codeLen > len(name) {
		codeLen = len(name)
	}
	return &model.SequenceJob{
		Name:           name,
		Split:          split,
		CameraCode:     name[:codeLen],
		SequenceDir:    sequenceDir,
		RawDir:         filepath.Join(sequenceDir, b.cfg.Dataset.RawSubDir),
		AnnotationPath: filepath.Join(sequenceDir, b.cfg.Dataset.AnnotationFile),
		OutputDir:      filepath.Join(b.cfg.Dataset.OutputDir, split, name),
	}
}
