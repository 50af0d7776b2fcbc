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
// depends on. This file wraps the ffmpeg binary behind the four operations
// the pipeline needs: stream-copy transcode, concat-demux, fixed-rate
// resample, and fixed-rate frame sampling. Every operation is a synchronous
// process invocation; a non-zero exit is returned as an error and treated as
// fatal by the caller, because a partially transcoded intermediate is unsafe
// to mix into a dataset.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultFFmpegCommand is the binary name used when the configuration does
// not provide an explicit path, resolved through the system PATH.
const DefaultFFmpegCommand = "ffmpeg"

// FFmpeg executes the external video tool. The zero value is not usable;
// construct instances with NewFFmpeg.
type FFmpeg struct {
	commandPath string // The path to the ffmpeg executable.
}

// NewFFmpeg is the constructor for the ffmpeg wrapper.
//
// Inputs:
//   - commandPath: The file system path to the ffmpeg executable. An empty
//     or blank value falls back to DefaultFFmpegCommand.
//
// Outputs:
//   - *FFmpeg: A pointer to the newly instantiated wrapper.
func NewFFmpeg(commandPath string) *FFmpeg {
	if len(strings.TrimSpace(commandPath)) == 0 {
		commandPath = DefaultFFmpegCommand
	}
	return &FFmpeg{commandPath: commandPath}
}

// Available reports whether the configured binary can be resolved. It is
// checked once at startup so a missing tool fails the run before any work.
func (f *FFmpeg) Available() error {
	if _, err := exec.LookPath(f.commandPath); err != nil {
		return fmt.Errorf("ffmpeg not found at %q: %w", f.commandPath, err)
	}
	return nil
}

// run executes one ffmpeg invocation to completion. The tool's stderr is
// passed through so codec diagnostics reach the operator unmodified.
func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, f.commandPath, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %s failed: %w", strings.Join(args, " "), err)
	}
	return nil
}

// StreamCopy rewraps a single clip into a new container without re-encoding.
//
// Inputs:
//   - ctx: The context governing the invocation.
//   - src: The source clip path (typically a .ts transport stream).
//   - dst: The destination container path (typically .mp4).
func (f *FFmpeg) StreamCopy(ctx context.Context, src, dst string) error {
	return f.run(ctx, "-y", "-loglevel", "error", "-i", src, "-c", "copy", dst)
}

// Concat joins several same-codec files into one using the concat demuxer,
// again without re-encoding. The demuxer requires identical codec parameters
// across all inputs and fails otherwise. The list file the demuxer reads is
// written next to the output and removed afterwards.
//
// Inputs:
//   - ctx: The context governing the invocation.
//   - parts: The ordered input paths.
//   - dst: The destination path.
func (f *FFmpeg) Concat(ctx context.Context, parts []string, dst string) error {
	listPath := dst + ".txt"
	if err := os.WriteFile(listPath, BuildConcatList(parts), 0o644); err != nil {
		return fmt.Errorf("failed to write concat list %s: %w", listPath, err)
	}
	defer os.Remove(listPath)
	return f.run(ctx, "-y", "-loglevel", "error", "-f", "concat", "-safe", "0",
		"-i", listPath, "-c", "copy", dst)
}

// BuildConcatList renders the concat demuxer input list: one `file '...'`
// line per part, slash-separated, with embedded single quotes escaped the
// way the demuxer expects.
func BuildConcatList(parts []string) []byte {
	var sb strings.Builder
	for _, p := range parts {
		quoted := strings.ReplaceAll(filepath.ToSlash(p), "'", `'\''`)
		fmt.Fprintf(&sb, "file '%s'\n", quoted)
	}
	return []byte(sb.String())
}

// Resample re-encodes a video at a fixed sampling rate.
//
// Inputs:
//   - ctx: The context governing the invocation.
//   - src: The source video path.
//   - dst: The destination video path.
//   - fps: The target rate in frames per second.
func (f *FFmpeg) Resample(ctx context.Context, src, dst string, fps float64) error {
	return f.run(ctx, "-y", "-loglevel", "error", "-i", src,
		"-vf", fpsFilter(fps), dst)
}

// SampleFrames extracts sequentially numbered JPEG frames from a video at a
// fixed sampling rate. Frames are named with an 8-digit zero-padded number
// starting at 1. The destination directory is created if absent.
//
// Inputs:
//   - ctx: The context governing the invocation.
//   - video: The source video path.
//   - dstDir: The destination frame directory.
//   - fps: The sampling rate in frames per second.
func (f *FFmpeg) SampleFrames(ctx context.Context, video, dstDir string, fps float64) error {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("failed to create frame directory %s: %w", dstDir, err)
	}
	return f.run(ctx, "-y", "-loglevel", "error", "-i", video,
		"-vf", fpsFilter(fps), "-start_number", "1",
		filepath.Join(dstDir, "%08d.jpg"))
}

// fpsFilter renders the fps video filter argument.
func fpsFilter(fps float64) string {
	return "fps=" + strconv.FormatFloat(fps, 'f', -1, 64)
}
