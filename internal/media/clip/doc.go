// Package clip defines the narrow media capability the assembly engine is
// written against.
//
// Video and Audio are immutable handles: Resize, CropCenter, Subrange, Loop
// and the audio envelopes all return a new handle. A Backend opens files,
// builds filler and composites layers. The production backend lives in
// internal/media/ffgraph and compiles handles into an ffmpeg filtergraph;
// cliptest provides a fake that reports synthetic durations.
package clip
