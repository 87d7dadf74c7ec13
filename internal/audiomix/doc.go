// Package audiomix combines the narration with an optional background music
// bed.
//
// The narration is authoritative: the output always lasts exactly as long as
// the narration, and a music problem only ever degrades the result to
// narration alone.
package audiomix
