// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Inspect executes ffprobe and returns a parsed Result. Helpers on Result
// expose display dimensions (rotation aware), frame rate and a duration that
// falls back to stream metadata when the container omits it.
package ffprobe
