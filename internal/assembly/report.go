package assembly

import (
	"clipforge/internal/audiomix"
	"clipforge/internal/captions"
	"clipforge/internal/timeline"
)

// OverlayResult records whether one text overlay was drawn.
type OverlayResult struct {
	Text   string
	Start  float64
	End    float64
	Drawn  bool
	Reason string
}

// Report summarises what went into a composition.
type Report struct {
	ProjectID string
	RenderID  string
	WorkDir   string
	Duration  float64

	Clips   []timeline.ClipResult
	Entries []timeline.Entry
	Filler  bool

	CaptionSource captions.Source
	Captions      []OverlayResult
	// Hook is nil when no hook overlay was attempted.
	Hook *OverlayResult

	Music audiomix.Result
	// PersistErrors holds timeline sink failures; they never abort a render.
	PersistErrors []string
}

// CaptionsDrawn counts caption overlays that made it into the video.
func (r Report) CaptionsDrawn() int {
	n := 0
	for _, c := range r.Captions {
		if c.Drawn {
			n++
		}
	}
	return n
}

// Degraded reports whether any contained failure affected the output.
func (r Report) Degraded() bool {
	if r.Filler || len(r.PersistErrors) > 0 || r.Music.Status == audiomix.MusicFailed {
		return true
	}
	for _, c := range r.Clips {
		if c.Status == timeline.ClipSkipped {
			return true
		}
	}
	if r.Hook != nil && !r.Hook.Drawn {
		return true
	}
	return r.CaptionsDrawn() < len(r.Captions)
}
