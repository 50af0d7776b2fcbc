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
// file implements the sequence descriptor (seqinfo.ini). The descriptor is
// derived from the frames actually present on disk after masking, never from
// configuration, so it always reflects what the pipeline produced.
package model

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Fixed layout conventions of the MOT sequence directory.
const (
	// ImageDirName is the frame subfolder inside a sequence directory.
	ImageDirName = "img1"
	// ImageExt is the extension of extracted frames.
	ImageExt = ".jpg"
	// SeqInfoFileName is the descriptor file name inside a sequence directory.
	SeqInfoFileName = "seqinfo.ini"
	// GroundTruthDirName is the ground-truth subfolder inside a sequence directory.
	GroundTruthDirName = "gt"
	// GroundTruthFileName is the ground-truth table file name.
	GroundTruthFileName = "gt.txt"
)

// SequenceInfo is the metadata descriptor of one converted sequence.
type SequenceInfo struct {
	Name      string  // The sequence (recording) name.
	ImDir     string  // The frame subfolder name, always ImageDirName.
	FrameRate float64 // Frames per second of the assembled sequence.
	SeqLength int     // Number of frames found on disk.
	ImWidth   int     // Frame width in pixels, read from the first frame.
	ImHeight  int     // Frame height in pixels, read from the first frame.
	ImExt     string  // Frame file extension, always ImageExt.
}

// NewSequenceInfo builds a descriptor with the fixed layout constants filled in.
func NewSequenceInfo(name string, frameRate float64, seqLength, width, height int) *SequenceInfo {
	return &SequenceInfo{
		Name:      name,
		ImDir:     ImageDirName,
		FrameRate: frameRate,
		SeqLength: seqLength,
		ImWidth:   width,
		ImHeight:  height,
		ImExt:     ImageExt,
	}
}

// Write renders the descriptor in the MOT seqinfo.ini format.
//
// Inputs:
//   - path: The destination file path.
//
// Outputs:
//   - error: An error if the file cannot be written.
func (s *SequenceInfo) Write(path string) error {
	var sb strings.Builder
	sb.WriteString("[Sequence]\n")
	fmt.Fprintf(&sb, "name=%s\n", s.Name)
	fmt.Fprintf(&sb, "imDir=%s\n", s.ImDir)
	fmt.Fprintf(&sb, "frameRate=%s\n", strconv.FormatFloat(s.FrameRate, 'f', -1, 64))
	fmt.Fprintf(&sb, "seqLength=%d\n", s.SeqLength)
	fmt.Fprintf(&sb, "imWidth=%d\n", s.ImWidth)
	fmt.Fprintf(&sb, "imHeight=%d\n", s.ImHeight)
	fmt.Fprintf(&sb, "imExt=%s\n", s.ImExt)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write sequence descriptor %s: %w", path, err)
	}
	return nil
}

// ReadSequenceInfo parses a seqinfo.ini file back into a descriptor. The
// converter itself never reads descriptors; this exists so that a finished
// sequence can be verified against what is on disk.
//
// Inputs:
//   - path: The descriptor file path.
//
// Outputs:
//   - *SequenceInfo: The parsed descriptor.
//   - error: An error if the file cannot be read or a field fails to parse.
func ReadSequenceInfo(path string) (*SequenceInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence descriptor %s: %w", path, err)
	}
	out := &SequenceInfo{}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch key {
		case "name":
			out.Name = value
		case "imDir":
			out.ImDir = value
		case "frameRate":
			if out.FrameRate, err = strconv.ParseFloat(value, 64); err != nil {
				return nil, fmt.Errorf("invalid frameRate in %s: %w", path, err)
			}
		case "seqLength":
			if out.SeqLength, err = strconv.Atoi(value); err != nil {
				return nil, fmt.Errorf("invalid seqLength in %s: %w", path, err)
			}
		case "imWidth":
			if out.ImWidth, err = strconv.Atoi(value); err != nil {
				return nil, fmt.Errorf("invalid imWidth in %s: %w", path, err)
			}
		case "imHeight":
			if out.ImHeight, err = strconv.Atoi(value); err != nil {
				return nil, fmt.Errorf("invalid imHeight in %s: %w", path, err)
			}
		case "imExt":
			out.ImExt = value
		}
	}
	return out, nil
}
