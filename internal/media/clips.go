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
// depends on. This file handles clip and segment discovery inside a
// recording's raw directory. Discovery is deliberately order-stable: both
// segments and clips are returned sorted by name, because the concatenation
// order decides every frame index in the finished sequence.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
)

// ClipExtension is the container extension the recording rigs produce.
// Files with other extensions are still accepted when their header sniffs
// as a video type.
const ClipExtension = ".ts"

// IsClip reports whether a file is a usable raw clip. The transport-stream
// extension is accepted directly; anything else is sniffed by file header,
// which covers recordings remuxed into mp4/mkv style containers.
func IsClip(path string) bool {
	if strings.EqualFold(filepath.Ext(path), ClipExtension) {
		return true
	}
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	head := make([]byte, 261)
	n, err := file.Read(head)
	if err != nil || n == 0 {
		return false
	}
	return filetype.IsVideo(head[:n])
}

// ListClips returns the clip files directly inside a segment directory,
// sorted by name.
//
// Inputs:
//   - dir: The segment directory to scan.
//
// Outputs:
//   - []string: Sorted clip paths.
//   - error: An error if the directory cannot be read.
func ListClips(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment directory %s: %w", dir, err)
	}
	clips := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if IsClip(path) {
			clips = append(clips, path)
		}
	}
	sort.Strings(clips)
	return clips, nil
}

// ListSegments returns the segment directories of a raw clip root, sorted by
// name. A recording either stores clips in sub-folders (one per contiguous
// span) or directly in the root; in the latter case the root itself is the
// sole segment.
//
// Inputs:
//   - rawDir: The raw clip root of one recording.
//
// Outputs:
//   - []string: Sorted segment directory paths, never empty on success.
//   - error: An error if the directory cannot be read.
func ListSegments(rawDir string) ([]string, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw directory %s: %w", rawDir, err)
	}
	segments := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			segments = append(segments, filepath.Join(rawDir, entry.Name()))
		}
	}
	if len(segments) == 0 {
		return []string{rawDir}, nil
	}
	sort.Strings(segments)
	return segments, nil
}

// HasAnyClip walks a raw clip root recursively and reports whether at least
// one usable clip exists anywhere below it. Used by pre-flight validation.
func HasAnyClip(rawDir string) bool {
	found := false
	_ = filepath.WalkDir(rawDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || found {
			return nil
		}
		if IsClip(path) {
			found = true
		}
		return nil
	})
	return found
}
