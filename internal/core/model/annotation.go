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
// file describes the per-recording annotation document: an ordered list of
// frame records, each holding the figures (box annotations) visible in that
// frame. The layout mirrors the Supervisely video annotation export, which
// is the only source format the converter reads.
package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// AnnotationDocument is the root of a per-recording annotation file.
type AnnotationDocument struct {
	Frames []*FrameRecord `json:"frames"` // Ordered frame records; the order is preserved in the emitted table.
}

// FrameRecord is one annotated frame. The index is 0-based in the source
// format; the MOT convention is 1-based, so conversion adds one.
type FrameRecord struct {
	Index   int       `json:"index"`
	Figures []*Figure `json:"figures"`
}

// Figure is a single annotated object instance in one frame. The object id
// is assigned by the annotation tool and is stable across frames for the
// same physical object, but the id space is arbitrary and sparse.
type Figure struct {
	ObjectID int64    `json:"objectId"`
	Geometry Geometry `json:"geometry"`
}

// Geometry wraps the point set of a figure.
type Geometry struct {
	Points Points `json:"points"`
}

// Points holds the exterior corner points of a box figure. For the box
// figures this converter understands, Exterior carries exactly two corner
// points in no guaranteed order. Interior is present in the source format
// for polygon holes and is always empty for boxes.
type Points struct {
	Exterior [][]float64 `json:"exterior"`
	Interior [][]float64 `json:"interior"`
}

// LoadAnnotationDocument reads and parses a per-recording annotation file.
//
// Inputs:
//   - path: The path to the annotation JSON document.
//
// Outputs:
//   - *AnnotationDocument: The parsed document.
//   - error: An error if the file cannot be read or parsed.
func LoadAnnotationDocument(path string) (*AnnotationDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation document %s: %w", path, err)
	}
	doc := &AnnotationDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("failed to parse annotation document %s: %w", path, err)
	}
	return doc, nil
}
