// Package cliptest provides an in-memory clip.Backend for tests.
package cliptest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"clipforge/internal/media/clip"
)

// VideoSpec describes a fake video file.
type VideoSpec struct {
	Duration float64
	Width    int
	Height   int
}

// Backend is a fake clip.Backend. Files not registered fail to open.
type Backend struct {
	mu     sync.Mutex
	videos map[string]VideoSpec
	audios map[string]float64
	// FailText makes DrawText fail for overlays with this text.
	FailText map[string]bool
	Texts    []clip.Text
	Opened   []string
}

// New returns an empty fake backend.
func New() *Backend {
	return &Backend{
		videos:   make(map[string]VideoSpec),
		audios:   make(map[string]float64),
		FailText: make(map[string]bool),
	}
}

// AddVideo registers a fake video file.
func (b *Backend) AddVideo(path string, spec VideoSpec) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.videos[path] = spec
}

// AddAudio registers a fake audio file.
func (b *Backend) AddAudio(path string, duration float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.audios[path] = duration
}

func (b *Backend) OpenVideo(_ context.Context, path string) (clip.Video, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Opened = append(b.Opened, path)
	spec, ok := b.videos[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return &Video{Source: path, duration: spec.Duration, width: spec.Width, height: spec.Height}, nil
}

func (b *Backend) OpenAudio(_ context.Context, path string) (clip.Audio, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Opened = append(b.Opened, path)
	duration, ok := b.audios[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return &Audio{Source: path, duration: duration}, nil
}

func (b *Backend) Filler(width, height int, color string, duration float64) clip.Video {
	return &Video{Source: "filler:" + color, duration: duration, width: width, height: height}
}

func (b *Backend) Compose(width, height int, duration float64, layers []clip.Video) clip.Video {
	return &Video{Source: "compose", duration: duration, width: width, height: height, Layers: slices.Clone(layers)}
}

func (b *Backend) DrawText(base clip.Video, t clip.Text) (clip.Video, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailText[t.Text] {
		return base, fmt.Errorf("draw %q: injected failure", t.Text)
	}
	b.Texts = append(b.Texts, t)
	v := base.(*Video).with(fmt.Sprintf("text(%q)", t.Text))
	return v, nil
}

func (b *Backend) Mix(duration float64, tracks []clip.Audio) clip.Audio {
	return &Audio{Source: "mix", duration: duration, Tracks: slices.Clone(tracks)}
}

// Video is a fake clip.Video that records applied operations.
type Video struct {
	Source   string
	Ops      []string
	Layers   []clip.Video
	duration float64
	width    int
	height   int
	offset   float64
}

func (v *Video) with(op string) *Video {
	clone := *v
	clone.Ops = append(slices.Clone(v.Ops), op)
	return &clone
}

func (v *Video) Duration() float64 { return v.duration }

func (v *Video) Size() (int, int) { return v.width, v.height }

func (v *Video) Offset() float64 { return v.offset }

func (v *Video) Resize(width, height int) clip.Video {
	n := v.with(fmt.Sprintf("resize(%d,%d)", width, height))
	n.width, n.height = width, height
	return n
}

func (v *Video) CropCenter(width, height int) clip.Video {
	n := v.with(fmt.Sprintf("crop(%d,%d)", width, height))
	n.width, n.height = width, height
	return n
}

func (v *Video) Subrange(start, end float64) clip.Video {
	n := v.with(fmt.Sprintf("subrange(%g,%g)", start, end))
	n.duration = end - start
	return n
}

func (v *Video) Loop(count int) clip.Video {
	n := v.with(fmt.Sprintf("loop(%d)", count))
	n.duration = v.duration * float64(count)
	return n
}

func (v *Video) At(offset float64) clip.Video {
	n := v.with(fmt.Sprintf("at(%g)", offset))
	n.offset = offset
	return n
}

// Audio is a fake clip.Audio that records applied operations.
type Audio struct {
	Source   string
	Ops      []string
	Tracks   []clip.Audio
	duration float64
}

func (a *Audio) with(op string) *Audio {
	clone := *a
	clone.Ops = append(slices.Clone(a.Ops), op)
	return &clone
}

func (a *Audio) Duration() float64 { return a.duration }

func (a *Audio) Subrange(start, end float64) clip.Audio {
	n := a.with(fmt.Sprintf("subrange(%g,%g)", start, end))
	n.duration = end - start
	return n
}

func (a *Audio) Loop(count int) clip.Audio {
	n := a.with(fmt.Sprintf("loop(%d)", count))
	n.duration = a.duration * float64(count)
	return n
}

func (a *Audio) Gain(multiplier float64) clip.Audio {
	return a.with(fmt.Sprintf("gain(%g)", multiplier))
}

func (a *Audio) FadeIn(seconds float64) clip.Audio {
	return a.with(fmt.Sprintf("fadein(%g)", seconds))
}

func (a *Audio) FadeOut(seconds float64) clip.Audio {
	return a.with(fmt.Sprintf("fadeout(%g)", seconds))
}
