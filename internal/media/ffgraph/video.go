package ffgraph

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"clipforge/internal/media/clip"
)

// videoNode is an immutable video handle. Exactly one of path, source or
// composite describes its origin; filters are applied to that origin in order.
type videoNode struct {
	path      string
	source    string
	composite bool
	canvas    string
	layers    []*videoNode

	filters  []string
	loops    int
	timed    bool
	duration float64
	width    int
	height   int
	offset   float64
	fps      int
}

var _ clip.Video = (*videoNode)(nil)

func (v *videoNode) clone() *videoNode {
	c := *v
	c.filters = slices.Clone(v.filters)
	c.layers = slices.Clone(v.layers)
	return &c
}

func (v *videoNode) with(filter string) *videoNode {
	c := v.clone()
	c.filters = append(c.filters, filter)
	return c
}

func (v *videoNode) Duration() float64 { return v.duration }

func (v *videoNode) Size() (int, int) { return v.width, v.height }

func (v *videoNode) Offset() float64 { return v.offset }

func (v *videoNode) Resize(width, height int) clip.Video {
	c := v.with(fmt.Sprintf("scale=%d:%d,setsar=1", width, height))
	c.width, c.height = width, height
	return c
}

func (v *videoNode) CropCenter(width, height int) clip.Video {
	c := v.with(fmt.Sprintf("crop=%d:%d:(iw-%d)/2:(ih-%d)/2", width, height, width, height))
	c.width, c.height = width, height
	return c
}

func (v *videoNode) Subrange(start, end float64) clip.Video {
	start = math.Max(start, 0)
	end = math.Min(end, v.duration)
	if end < start {
		end = start
	}
	c := v.with(fmt.Sprintf("trim=start=%s:end=%s,setpts=PTS-STARTPTS", num(start), num(end)))
	c.timed = true
	c.duration = end - start
	return c
}

// Loop folds into -stream_loop while the node is still an untouched file
// timeline; afterwards it uses the loop filter over the buffered frames.
func (v *videoNode) Loop(n int) clip.Video {
	if n <= 1 {
		return v.clone()
	}
	if v.path != "" && !v.timed {
		c := v.clone()
		c.loops = max(c.loops, 1) * n
		c.duration = v.duration * float64(n)
		return c
	}
	frames := int(math.Ceil(v.duration*float64(v.fps) - 1e-9))
	c := v.with(fmt.Sprintf("loop=loop=%d:size=%d:start=0,setpts=N/FRAME_RATE/TB", n-1, max(frames, 1)))
	c.timed = true
	c.duration = v.duration * float64(n)
	return c
}

func (v *videoNode) At(offset float64) clip.Video {
	c := v.clone()
	c.offset = math.Max(offset, 0)
	return c
}

// compile emits the node's chains into g and returns its output pad label.
func (v *videoNode) compile(g *graph) string {
	var head string
	isPad := true
	switch {
	case v.path != "":
		head = fmt.Sprintf("[%d:v]", g.addInput(v.path, v.loops))
	case v.composite:
		head = v.compileComposite(g)
	default:
		head = v.source
		isPad = false
	}
	if isPad && len(v.filters) == 0 {
		return head
	}
	out := g.pad("v")
	chain := strings.Join(v.filters, ",")
	switch {
	case !isPad && chain == "":
		g.chain(head + out)
	case !isPad:
		g.chain(head + "," + chain + out)
	default:
		g.chain(head + chain + out)
	}
	return out
}

func (v *videoNode) compileComposite(g *graph) string {
	cur := g.pad("v")
	g.chain(fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%s%s", ffColor(v.canvas), v.width, v.height, v.fps, num(v.duration), cur))
	for _, layer := range v.layers {
		label := layer.compile(g)
		shifted := g.pad("v")
		g.chain(fmt.Sprintf("%ssetpts=PTS-STARTPTS+%s/TB%s", label, num(layer.offset), shifted))
		next := g.pad("v")
		g.chain(fmt.Sprintf("%s%soverlay=x=(W-w)/2:y=(H-h)/2:eof_action=pass%s", cur, shifted, next))
		cur = next
	}
	return cur
}
