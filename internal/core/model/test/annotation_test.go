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

// Package model_test contains unit tests for the data models defined in the
// model package. This file specifically tests the annotation document parsing
// and its transcoding into the MOT ground-truth table: identity remapping,
// corner normalization, and the 0-based to 1-based frame index shift.
package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/go-mot-dataset/internal/core/model"
	test "github.com/jaycherian/go-mot-dataset/internal/testutil"
	"github.com/stretchr/testify/assert"
)

// boxFigure is a small helper that builds a two-corner box figure for an
// object id. The corners are passed exactly as the annotation tool would
// export them, in no particular order.
func boxFigure(objectID int64, x1, y1, x2, y2 float64) *model.Figure {
	return &model.Figure{
		ObjectID: objectID,
		Geometry: model.Geometry{
			Points: model.Points{
				Exterior: [][]float64{{x1, y1}, {x2, y2}},
				Interior: [][]float64{},
			},
		},
	}
}

// TestLoadAnnotationDocument verifies that a document written in the
// annotation tool's export format parses into the expected frame and figure
// structure.
func TestLoadAnnotationDocument(t *testing.T) {
	dir := t.TempDir()
	path := test.WriteTestAnnotation(dir, t)

	doc, err := model.LoadAnnotationDocument(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(doc.Frames))
	assert.Equal(t, 0, doc.Frames[0].Index)
	assert.Equal(t, 2, len(doc.Frames[0].Figures))
	assert.Equal(t, int64(7), doc.Frames[0].Figures[0].ObjectID)
	assert.Equal(t, 2, len(doc.Frames[0].Figures[0].Geometry.Points.Exterior))
}

// TestNewIdentityMap verifies that sparse tool-assigned object ids are
// remapped onto a dense 1-based range in ascending original-id order, and
// that the map is a bijection regardless of the order ids appear in the
// document.
func TestNewIdentityMap(t *testing.T) {
	doc := &model.AnnotationDocument{
		Frames: []*model.FrameRecord{
			{Index: 0, Figures: []*model.Figure{
				boxFigure(7, 0, 0, 1, 1),
				boxFigure(3, 0, 0, 1, 1),
			}},
			{Index: 5, Figures: []*model.Figure{
				boxFigure(42, 0, 0, 1, 1),
				boxFigure(3, 0, 0, 1, 1),
			}},
		},
	}

	identities := model.NewIdentityMap(doc)

	// Three distinct objects, densely numbered by ascending original id.
	assert.Equal(t, 3, len(identities))
	assert.Equal(t, 1, identities[3])
	assert.Equal(t, 2, identities[7])
	assert.Equal(t, 3, identities[42])

	// Bijection: no two originals share a dense id.
	seen := make(map[int]bool)
	for _, dense := range identities {
		assert.False(t, seen[dense])
		seen[dense] = true
	}
}

// TestConvertToGroundTruth runs a small document end to end and checks every
// emitted row: document order is preserved, frame indices are shifted to
// 1-based, identities are remapped, and reversed corner pairs normalize to a
// top-left corner with non-negative sizes.
func TestConvertToGroundTruth(t *testing.T) {
	doc := &model.AnnotationDocument{
		Frames: []*model.FrameRecord{
			{Index: 0, Figures: []*model.Figure{
				// Corners given bottom-right first; must normalize to
				// x=10, y=20, w=40, h=60.
				boxFigure(7, 50, 80, 10, 20),
				boxFigure(3, 100, 100, 140, 160),
			}},
			{Index: 2, Figures: []*model.Figure{
				boxFigure(3, 102, 101, 143, 158),
			}},
		},
	}

	rows, err := model.ConvertToGroundTruth(doc)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(rows))

	// Frame record index 0 becomes frame 1; object 7 holds dense id 2.
	assert.Equal(t, model.GroundTruthRow{FrameIndex: 1, ObjectID: 2, X: 10, Y: 20, Width: 40, Height: 60}, rows[0])
	assert.Equal(t, model.GroundTruthRow{FrameIndex: 1, ObjectID: 1, X: 100, Y: 100, Width: 40, Height: 60}, rows[1])
	assert.Equal(t, model.GroundTruthRow{FrameIndex: 3, ObjectID: 1, X: 102, Y: 101, Width: 41, Height: 57}, rows[2])
}

// TestConvertToGroundTruthRoundsCoordinates verifies that fractional
// coordinates are rounded to the nearest pixel rather than truncated.
func TestConvertToGroundTruthRoundsCoordinates(t *testing.T) {
	doc := &model.AnnotationDocument{
		Frames: []*model.FrameRecord{
			{Index: 0, Figures: []*model.Figure{
				boxFigure(1, 10.6, 20.4, 30.2, 50.8),
			}},
		},
	}

	rows, err := model.ConvertToGroundTruth(doc)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, 11, rows[0].X)
	assert.Equal(t, 20, rows[0].Y)
	// Width rounds abs(30.2-10.6)=19.6 to 20, height abs(50.8-20.4)=30.4 to 30.
	assert.Equal(t, 20, rows[0].Width)
	assert.Equal(t, 30, rows[0].Height)
}

// TestConvertToGroundTruthRejectsPolygon verifies that a figure whose
// exterior is not a two-corner box fails the conversion instead of being
// silently collapsed.
func TestConvertToGroundTruthRejectsPolygon(t *testing.T) {
	doc := &model.AnnotationDocument{
		Frames: []*model.FrameRecord{
			{Index: 0, Figures: []*model.Figure{
				{
					ObjectID: 9,
					Geometry: model.Geometry{Points: model.Points{
						Exterior: [][]float64{{0, 0}, {10, 0}, {10, 10}},
					}},
				},
			}},
		},
	}

	rows, err := model.ConvertToGroundTruth(doc)
	assert.Error(t, err)
	assert.Nil(t, rows)
}

// TestGroundTruthRowString verifies the exact MOT line format, including the
// three fixed trailing flags.
func TestGroundTruthRowString(t *testing.T) {
	row := model.GroundTruthRow{FrameIndex: 1, ObjectID: 2, X: 10, Y: 20, Width: 40, Height: 60}
	assert.Equal(t, "1,2,10,20,40,60,1,1,1", row.String())
}

// TestWriteGroundTruth verifies the on-disk gt.txt rendering: one row per
// line, newline terminated.
func TestWriteGroundTruth(t *testing.T) {
	rows := []model.GroundTruthRow{
		{FrameIndex: 1, ObjectID: 1, X: 0, Y: 0, Width: 5, Height: 5},
		{FrameIndex: 2, ObjectID: 1, X: 1, Y: 1, Width: 5, Height: 5},
	}
	path := filepath.Join(t.TempDir(), "gt.txt")

	assert.NoError(t, model.WriteGroundTruth(rows, path))

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "1,1,0,0,5,5,1,1,1\n2,1,1,1,5,5,1,1,1\n", string(raw))
}
