// Package timeline lays footage clips out across a narration.
//
// Every usable clip receives an equal slice of the narration, is scaled to
// cover the output frame and cropped around its centre, and is looped or
// trimmed to fill its slice exactly. The resulting entries are contiguous and
// end at the narration's duration. A build is always recomputed from scratch.
package timeline
