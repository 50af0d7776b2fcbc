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

// Package media is the narrow boundary to the external tools the converter
// depends on. This file implements camera-mask application: a shared binary
// mask image is multiplied into every extracted frame of a sequence, zeroing
// the regions outside the camera's useful field of view. The operation is
// destructive (frames are overwritten in place) and idempotent, since a
// binary mask applied twice changes nothing beyond the first application.
package media

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// LoadMask reads a camera mask image and binarizes it: any pixel with a
// positive value becomes fully opaque white, everything else black. The
// hard two-level image is what keeps nearest-neighbour resizing from
// introducing gray edges later.
//
// Inputs:
//   - path: The mask image path (PNG by convention).
//
// Outputs:
//   - *image.NRGBA: The binarized mask.
//   - error: An error if the file is missing or undecodable.
func LoadMask(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mask %s: %w", path, err)
	}
	mask := imaging.Grayscale(img)
	for i := 0; i < len(mask.Pix); i += 4 {
		v := uint8(0)
		if mask.Pix[i] > 0 {
			v = 255
		}
		mask.Pix[i] = v
		mask.Pix[i+1] = v
		mask.Pix[i+2] = v
		mask.Pix[i+3] = 255
	}
	return mask, nil
}

// ApplyMask multiplies a frame by a binary mask, zeroing every color channel
// of the masked-out pixels. When the mask dimensions differ from the frame's
// it is resized with nearest-neighbour filtering first, preserving the hard
// binary edge. The input frame is not modified.
//
// Inputs:
//   - frame: The frame image.
//   - mask: A binarized mask as produced by LoadMask.
//
// Outputs:
//   - *image.NRGBA: The masked frame.
func ApplyMask(frame image.Image, mask *image.NRGBA) *image.NRGBA {
	bounds := frame.Bounds()
	if mask.Bounds().Dx() != bounds.Dx() || mask.Bounds().Dy() != bounds.Dy() {
		mask = imaging.Resize(mask, bounds.Dx(), bounds.Dy(), imaging.NearestNeighbor)
	}

	out := imaging.Clone(frame)
	for i := 0; i < len(out.Pix); i += 4 {
		if mask.Pix[i] == 0 {
			out.Pix[i] = 0
			out.Pix[i+1] = 0
			out.Pix[i+2] = 0
		}
	}
	return out
}

// ListFrames returns the frame files of a sequence image directory in
// sorted name order.
func ListFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory %s: %w", dir, err)
	}
	frames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".jpg") {
			continue
		}
		frames = append(frames, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(frames)
	return frames, nil
}

// MaskDirectory applies a binary mask to every frame of a directory in
// sorted name order, overwriting each frame in place. An unreadable frame is
// skipped unless failOnUnreadable is set, in which case it ends the run.
//
// Inputs:
//   - dir: The frame directory.
//   - mask: A binarized mask as produced by LoadMask.
//   - failOnUnreadable: Whether an undecodable frame is an error.
//
// Outputs:
//   - int: The number of frames masked.
//   - error: The first fatal error encountered.
func MaskDirectory(dir string, mask *image.NRGBA, failOnUnreadable bool) (int, error) {
	frames, err := ListFrames(dir)
	if err != nil {
		return 0, err
	}

	masked := 0
	for _, path := range frames {
		frame, err := imaging.Open(path)
		if err != nil {
			if failOnUnreadable {
				return masked, fmt.Errorf("failed to decode frame %s: %w", path, err)
			}
			continue
		}
		if err := imaging.Save(ApplyMask(frame, mask), path); err != nil {
			return masked, fmt.Errorf("failed to overwrite frame %s: %w", path, err)
		}
		masked++
	}
	return masked, nil
}
