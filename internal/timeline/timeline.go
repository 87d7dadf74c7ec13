package timeline

import (
	"context"
	"fmt"
	"math"
)

// FillerFilename marks an entry backed by the solid colour filler track.
const FillerFilename = "filler"

// FootageClip is a downloaded stock clip owned by a project.
type FootageClip struct {
	Filename string `json:"filename"`
	// SourceID is the stock provider's identifier for the clip.
	SourceID int64   `json:"pexels_id"`
	Keyword  string  `json:"keyword"`
	Duration float64 `json:"duration"`
	URL      string  `json:"url,omitempty"`
}

// Entry is one slice of the assembled timeline.
type Entry struct {
	ClipFilename string  `json:"clip_filename"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Keyword      string  `json:"keyword"`
}

// Duration returns End-Start.
func (e Entry) Duration() float64 {
	return e.End - e.Start
}

// Sink persists a freshly built timeline, replacing whatever was stored for
// the project before.
type Sink interface {
	ReplaceTimeline(ctx context.Context, projectID string, entries []Entry) error
}

// Validate checks that entries are sorted, contiguous, non-overlapping and
// cover [0, total) exactly.
func Validate(entries []Entry, total float64) error {
	const eps = 1e-9
	if len(entries) == 0 {
		if total > 0 {
			return fmt.Errorf("timeline is empty but total is %.3fs", total)
		}
		return nil
	}
	if math.Abs(entries[0].Start) > eps {
		return fmt.Errorf("timeline starts at %.6f, want 0", entries[0].Start)
	}
	for i, entry := range entries {
		if entry.End < entry.Start {
			return fmt.Errorf("entry %d ends before it starts (%.6f < %.6f)", i, entry.End, entry.Start)
		}
		if i > 0 && math.Abs(entry.Start-entries[i-1].End) > eps {
			return fmt.Errorf("entry %d starts at %.6f but previous ends at %.6f", i, entry.Start, entries[i-1].End)
		}
	}
	if last := entries[len(entries)-1].End; last != total {
		return fmt.Errorf("timeline ends at %.6f, want %.6f", last, total)
	}
	return nil
}
