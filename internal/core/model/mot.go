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
// file implements the annotation-to-MOT transcoding: the identity map that
// renumbers sparse tool-assigned object ids into the dense 1-based range the
// MOT ground-truth format expects, and the row emission that normalizes the
// unordered corner pairs of the source geometry into top-left + size boxes.
package model

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
)

// GroundTruthRow is one line of a MOT gt.txt table. The three trailing flag
// fields are fixed at "1,1,1" (valid, class 1, fully visible): the source
// format carries no confidence or occlusion information, so every annotated
// figure is emitted as a confirmed, fully visible detection. This is a known
// information loss of the conversion, not something to repair downstream.
type GroundTruthRow struct {
	FrameIndex int // 1-based frame number.
	ObjectID   int // Dense remapped identity.
	X          int // Top-left x in pixels.
	Y          int // Top-left y in pixels.
	Width      int // Box width in pixels, never negative.
	Height     int // Box height in pixels, never negative.
}

// String renders the row in the comma-separated MOT line format.
func (r GroundTruthRow) String() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d,1,1,1", r.FrameIndex, r.ObjectID, r.X, r.Y, r.Width, r.Height)
}

// IdentityMap is a bijection from original tool-assigned object ids to a
// dense 1-based contiguous range, assigned in ascending order of the
// original id. It is computed once over an entire document before any row
// is emitted, so an object appearing only late in the document still
// receives a deterministic identity.
type IdentityMap map[int64]int

// NewIdentityMap collects every distinct object id appearing anywhere in the
// document and assigns dense ids starting at 1 in ascending original-id order.
//
// Inputs:
//   - doc: The annotation document to scan.
//
// Outputs:
//   - IdentityMap: The frozen identity mapping for the document.
func NewIdentityMap(doc *AnnotationDocument) IdentityMap {
	seen := make(map[int64]bool)
	for _, frame := range doc.Frames {
		for _, figure := range frame.Figures {
			seen[figure.ObjectID] = true
		}
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make(IdentityMap, len(ids))
	for i, id := range ids {
		out[id] = i + 1
	}
	return out
}

// ConvertToGroundTruth transcodes an annotation document into an ordered
// ground-truth table. Rows are emitted in document frame order and, within a
// frame, in figure order. The frame index is the record's 0-based index plus
// one. Box coordinates take the element-wise minimum of the two corner
// points as the top-left and the absolute per-axis difference as the size,
// so reversed corner pairs still yield non-negative widths and heights.
//
// A figure whose exterior does not hold exactly two points is rejected: the
// source tool can in principle export rotated or multi-point polygons, and
// silently collapsing those to a box would lose geometry without a trace.
//
// Inputs:
//   - doc: The annotation document to convert.
//
// Outputs:
//   - []GroundTruthRow: The ordered ground-truth table.
//   - error: An error if any figure carries a non-box geometry.
func ConvertToGroundTruth(doc *AnnotationDocument) ([]GroundTruthRow, error) {
	identities := NewIdentityMap(doc)

	rows := make([]GroundTruthRow, 0)
	for _, frame := range doc.Frames {
		frameIndex := frame.Index + 1
		for _, figure := range frame.Figures {
			exterior := figure.Geometry.Points.Exterior
			if len(exterior) != 2 || len(exterior[0]) != 2 || len(exterior[1]) != 2 {
				return nil, fmt.Errorf(
					"object %d in frame %d has %d exterior points, expected a two-corner box",
					figure.ObjectID, frame.Index, len(exterior))
			}
			x1, y1 := exterior[0][0], exterior[0][1]
			x2, y2 := exterior[1][0], exterior[1][1]
			rows = append(rows, GroundTruthRow{
				FrameIndex: frameIndex,
				ObjectID:   identities[figure.ObjectID],
				X:          int(math.Round(math.Min(x1, x2))),
				Y:          int(math.Round(math.Min(y1, y2))),
				Width:      int(math.Round(math.Abs(x2 - x1))),
				Height:     int(math.Round(math.Abs(y2 - y1))),
			})
		}
	}
	return rows, nil
}

// WriteGroundTruth writes an ordered ground-truth table to a gt.txt file,
// one comma-separated row per line.
//
// Inputs:
//   - rows: The ordered table to write.
//   - path: The destination file path.
//
// Outputs:
//   - error: An error if the file cannot be written.
func WriteGroundTruth(rows []GroundTruthRow, path string) error {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(row.String())
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write ground truth %s: %w", path, err)
	}
	return nil
}
