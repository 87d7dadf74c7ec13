package ffgraph

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"clipforge/internal/media/clip"
)

// SampleRate is the rate every audio source is resampled to before mixing.
const SampleRate = 48000

type audioNode struct {
	path   string
	mix    bool
	tracks []*audioNode

	filters  []string
	loops    int
	timed    bool
	duration float64
}

var _ clip.Audio = (*audioNode)(nil)

func (a *audioNode) clone() *audioNode {
	c := *a
	c.filters = slices.Clone(a.filters)
	c.tracks = slices.Clone(a.tracks)
	return &c
}

func (a *audioNode) with(filter string) *audioNode {
	c := a.clone()
	c.filters = append(c.filters, filter)
	return c
}

func (a *audioNode) Duration() float64 { return a.duration }

func (a *audioNode) Subrange(start, end float64) clip.Audio {
	start = math.Max(start, 0)
	end = math.Min(end, a.duration)
	if end < start {
		end = start
	}
	c := a.with(fmt.Sprintf("atrim=start=%s:end=%s,asetpts=PTS-STARTPTS", num(start), num(end)))
	c.timed = true
	c.duration = end - start
	return c
}

func (a *audioNode) Loop(n int) clip.Audio {
	if n <= 1 {
		return a.clone()
	}
	if a.path != "" && !a.timed {
		c := a.clone()
		c.loops = max(c.loops, 1) * n
		c.duration = a.duration * float64(n)
		return c
	}
	samples := int(math.Ceil(a.duration*SampleRate - 1e-9))
	c := a.with(fmt.Sprintf("aloop=loop=%d:size=%d,asetpts=N/SR/TB", n-1, max(samples, 1)))
	c.timed = true
	c.duration = a.duration * float64(n)
	return c
}

func (a *audioNode) Gain(multiplier float64) clip.Audio {
	return a.with("volume=" + num(multiplier))
}

func (a *audioNode) FadeIn(seconds float64) clip.Audio {
	if seconds <= 0 {
		return a.clone()
	}
	return a.with(fmt.Sprintf("afade=t=in:st=0:d=%s", num(math.Min(seconds, a.duration))))
}

func (a *audioNode) FadeOut(seconds float64) clip.Audio {
	if seconds <= 0 {
		return a.clone()
	}
	d := math.Min(seconds, a.duration)
	return a.with(fmt.Sprintf("afade=t=out:st=%s:d=%s", num(a.duration-d), num(d)))
}

func (a *audioNode) compile(g *graph) string {
	var head string
	if a.mix {
		labels := make([]string, len(a.tracks))
		for i, track := range a.tracks {
			labels[i] = track.compile(g)
		}
		head = strings.Join(labels, "")
		if len(labels) > 1 {
			mixed := g.pad("a")
			g.chain(fmt.Sprintf("%samix=inputs=%d:duration=first:normalize=0%s", head, len(labels), mixed))
			head = mixed
		}
	} else {
		head = fmt.Sprintf("[%d:a]", g.addInput(a.path, a.loops))
	}
	if len(a.filters) == 0 {
		return head
	}
	out := g.pad("a")
	g.chain(head + strings.Join(a.filters, ",") + out)
	return out
}
