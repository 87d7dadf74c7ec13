package ffgraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"clipforge/internal/media/clip"
)

// Graph is a composition flattened into ffmpeg arguments.
type Graph struct {
	// InputArgs holds the -i (and -stream_loop) arguments in input order.
	InputArgs     []string
	FilterComplex string
	VideoLabel    string
	// AudioLabel is empty when the composition carries no audio.
	AudioLabel string
	Duration   float64
}

// Args returns the input, filter and stream mapping arguments. Codec and
// output arguments are left to the caller.
func (g Graph) Args() []string {
	args := append([]string{}, g.InputArgs...)
	args = append(args, "-filter_complex", g.FilterComplex, "-map", g.VideoLabel)
	if g.AudioLabel != "" {
		args = append(args, "-map", g.AudioLabel)
	}
	return args
}

// Build flattens comp into a single filter_complex. The composition must have
// been produced by this package's Backend.
func Build(comp clip.Composition) (Graph, error) {
	video, ok := comp.Video.(*videoNode)
	if !ok || video == nil {
		return Graph{}, errors.New("ffgraph: composition video was not produced by ffgraph")
	}
	g := &graph{counters: map[string]int{}}
	label := video.compile(g)
	g.chain(label + "format=yuv420p[vout]")
	out := Graph{VideoLabel: "[vout]", Duration: comp.Duration}

	if comp.Audio != nil {
		audio, ok := comp.Audio.(*audioNode)
		if !ok || audio == nil {
			return Graph{}, errors.New("ffgraph: composition audio was not produced by ffgraph")
		}
		alabel := audio.compile(g)
		g.chain(alabel + "anull[aout]")
		out.AudioLabel = "[aout]"
	}

	out.InputArgs = g.inputs
	out.FilterComplex = strings.Join(g.chains, ";")
	return out, nil
}

type graph struct {
	inputs   []string
	count    int
	chains   []string
	counters map[string]int
}

// addInput registers a file input and returns its index. Each call adds a new
// input so every use of a file gets its own decoder and stream_loop setting.
func (g *graph) addInput(path string, loops int) int {
	if loops > 1 {
		g.inputs = append(g.inputs, "-stream_loop", strconv.Itoa(loops-1))
	}
	g.inputs = append(g.inputs, "-i", path)
	idx := g.count
	g.count++
	return idx
}

func (g *graph) pad(kind string) string {
	n := g.counters[kind]
	g.counters[kind] = n + 1
	return fmt.Sprintf("[%s%d]", kind, n)
}

func (g *graph) chain(s string) {
	g.chains = append(g.chains, s)
}
