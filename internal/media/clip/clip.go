package clip

import "context"

// Video is an immutable handle to a video source. Every transform returns a
// new handle; the receiver is never modified.
type Video interface {
	// Duration in seconds after all transforms.
	Duration() float64
	// Size in pixels after all transforms.
	Size() (width, height int)
	Resize(width, height int) Video
	// CropCenter crops symmetrically around the frame centre.
	CropCenter(width, height int) Video
	// Subrange keeps [start, end) of the current timeline.
	Subrange(start, end float64) Video
	// Loop plays the current content n times back to back.
	Loop(n int) Video
	// At positions the clip at offset seconds on the composition timeline.
	At(offset float64) Video
	Offset() float64
}

// Audio is an immutable handle to an audio source.
type Audio interface {
	Duration() float64
	Subrange(start, end float64) Audio
	Loop(n int) Audio
	// Gain scales amplitude linearly.
	Gain(multiplier float64) Audio
	// FadeIn and FadeOut apply linear envelopes over the given seconds.
	FadeIn(seconds float64) Audio
	FadeOut(seconds float64) Audio
}

// Anchor selects the vertical placement of a text overlay.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTop
)

// Text describes a styled overlay drawn over [Start, End).
type Text struct {
	Text        string
	Font        string
	FontSize    int
	Color       string
	StrokeColor string
	StrokeWidth int
	// BoxWidth is the width the text was wrapped to; the overlay is centred
	// horizontally within the frame.
	BoxWidth    int
	LineSpacing int
	Anchor      Anchor
	// Top is the distance from the top edge when Anchor is AnchorTop.
	Top   int
	Start float64
	End   float64
	// Fade applies an alpha ramp of this many seconds at both ends.
	Fade float64
}

// Duration returns End-Start.
func (t Text) Duration() float64 {
	return t.End - t.Start
}

// Backend produces and combines media handles.
type Backend interface {
	OpenVideo(ctx context.Context, path string) (Video, error)
	OpenAudio(ctx context.Context, path string) (Audio, error)
	// Filler returns a solid colour track.
	Filler(width, height int, color string, duration float64) Video
	// Compose stacks layers, each at its own offset, over a base of the given
	// geometry and duration. Later layers draw on top.
	Compose(width, height int, duration float64, layers []Video) Video
	// DrawText overlays t on base. An error leaves base usable.
	DrawText(base Video, t Text) (Video, error)
	// Mix sums tracks into one track exactly duration seconds long. The
	// first track is the reference and is never altered.
	Mix(duration float64, tracks []Audio) Audio
}

// Composition is a fully assembled video and audio pair ready to encode.
type Composition struct {
	Video    Video
	Audio    Audio
	Width    int
	Height   int
	FPS      int
	Duration float64
}
