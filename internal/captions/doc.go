// Package captions turns word timestamps into display-ready caption units.
//
// Timestamps come from a JSON sidecar stored beside the narration file
// (voiceover.timestamps.json) or, when none exists, are synthesized from the
// script with square-root length weighting. Every sequence is preprocessed to
// undo known provider artifacts (paragraph breaks inside a token, sentences
// glued without a space, stray newlines) and then grouped either one word per
// unit or into short sentence chunks whose text is pre-wrapped for the frame.
package captions
