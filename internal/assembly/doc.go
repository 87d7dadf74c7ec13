// Package assembly turns a project on disk into an encoded short.
//
// Assemble loads the narration, builds the footage timeline, overlays
// captions and the hook, mixes the music bed, and returns a
// clip.Composition plus a Report of every contained failure. Render wraps
// Assemble with a per-project file lock, a render history row, and the
// ffmpeg encode for one output tier.
//
// Only two failures abort a render: a missing or unreadable narration track
// and a failed encode. Everything else degrades the output and is recorded
// in the Report.
package assembly
