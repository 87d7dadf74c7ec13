package ffgraph

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"clipforge/internal/config"
	"clipforge/internal/media/clip"
	"clipforge/internal/media/ffprobe"
)

// audioNormalize brings every source to a common layout so amix never has to
// negotiate formats.
var audioNormalize = fmt.Sprintf("aresample=%d,aformat=sample_fmts=fltp:channel_layouts=stereo", SampleRate)

const defaultFPS = 30

// Prober inspects a media file.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// Backend implements clip.Backend on top of ffmpeg filtergraphs.
type Backend struct {
	probe   Prober
	fps     int
	workDir string
}

var _ clip.Backend = (*Backend)(nil)

// New returns a backend producing frames at fps. Text overlay files are
// written under workDir.
func New(probe Prober, fps int, workDir string) *Backend {
	if fps <= 0 {
		fps = defaultFPS
	}
	return &Backend{probe: probe, fps: fps, workDir: workDir}
}

// ProberFor adapts ffprobe.Inspect with a fixed binary.
func ProberFor(binary string) Prober {
	return func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, binary, path)
	}
}

func (b *Backend) OpenVideo(ctx context.Context, path string) (clip.Video, error) {
	if b.probe == nil {
		return nil, errors.New("ffgraph: no prober configured")
	}
	result, err := b.probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if result.VideoStreamCount() == 0 {
		return nil, fmt.Errorf("%s: no video stream", path)
	}
	width, height := result.Dimensions()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%s: invalid dimensions %dx%d", path, width, height)
	}
	return &videoNode{
		path:     path,
		filters:  []string{fmt.Sprintf("fps=%d", b.fps)},
		duration: result.DurationSeconds(),
		width:    width,
		height:   height,
		fps:      b.fps,
	}, nil
}

func (b *Backend) OpenAudio(ctx context.Context, path string) (clip.Audio, error) {
	if b.probe == nil {
		return nil, errors.New("ffgraph: no prober configured")
	}
	result, err := b.probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if !result.HasAudio() {
		return nil, fmt.Errorf("%s: no audio stream", path)
	}
	return &audioNode{
		path:     path,
		filters:  []string{audioNormalize},
		duration: result.DurationSeconds(),
	}, nil
}

func (b *Backend) Filler(width, height int, color string, duration float64) clip.Video {
	duration = math.Max(duration, 0)
	return &videoNode{
		source:   fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%s", ffColor(color), width, height, b.fps, num(duration)),
		duration: duration,
		width:    width,
		height:   height,
		fps:      b.fps,
	}
}

// Compose places layers produced by this backend over a black canvas. Layers
// from another backend are ignored.
func (b *Backend) Compose(width, height int, duration float64, layers []clip.Video) clip.Video {
	nodes := make([]*videoNode, 0, len(layers))
	for _, layer := range layers {
		if n, ok := layer.(*videoNode); ok && n != nil {
			nodes = append(nodes, n)
		}
	}
	return &videoNode{
		composite: true,
		canvas:    "black",
		layers:    nodes,
		duration:  math.Max(duration, 0),
		width:     width,
		height:    height,
		fps:       b.fps,
	}
}

// DrawText adds one drawtext filter per wrapped line. Each line is read from
// its own text file so no escaping of caption content is needed.
func (b *Backend) DrawText(base clip.Video, t clip.Text) (clip.Video, error) {
	node, ok := base.(*videoNode)
	if !ok || node == nil {
		return base, errors.New("ffgraph: base video was not produced by ffgraph")
	}
	if t.Duration() <= 0 {
		return base, fmt.Errorf("text %q has non-positive duration", t.Text)
	}
	lines := make([]string, 0, 4)
	for _, line := range strings.Split(t.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return base, errors.New("text is empty")
	}
	if t.FontSize <= 0 {
		return base, fmt.Errorf("text %q has invalid font size %d", t.Text, t.FontSize)
	}

	files := make([]string, 0, len(lines))
	cleanup := func() {
		for _, f := range files {
			_ = os.Remove(f)
		}
	}
	for _, line := range lines {
		path, err := b.writeTextFile(line)
		if err != nil {
			cleanup()
			return base, err
		}
		files = append(files, path)
	}

	lineHeight := t.LineSpacing
	if lineHeight <= 0 {
		lineHeight = t.FontSize
	}
	out := node.clone()
	for i, path := range files {
		out.filters = append(out.filters, drawtextFilter(t, path, lineY(t, len(files), lineHeight, i)))
	}
	return out, nil
}

func (b *Backend) writeTextFile(line string) (string, error) {
	dir := b.workDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create text dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "text-*.txt")
	if err != nil {
		return "", fmt.Errorf("create text file: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write text file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close text file: %w", err)
	}
	return f.Name(), nil
}

func lineY(t clip.Text, count, lineHeight, index int) string {
	offset := index * lineHeight
	if t.Anchor == clip.AnchorTop {
		return fmt.Sprintf("%d", t.Top+offset)
	}
	return fmt.Sprintf("(h-%d)/2+%d", count*lineHeight, offset)
}

func drawtextFilter(t clip.Text, textPath, y string) string {
	opts := []string{"textfile=" + escapeValue(textPath)}
	if config.IsFontFile(t.Font) {
		opts = append(opts, "fontfile="+escapeValue(t.Font))
	} else if strings.TrimSpace(t.Font) != "" {
		opts = append(opts, "font="+escapeValue(t.Font))
	}
	opts = append(opts,
		fmt.Sprintf("fontsize=%d", t.FontSize),
		"fontcolor="+ffColor(t.Color),
	)
	if t.StrokeWidth > 0 {
		opts = append(opts,
			fmt.Sprintf("borderw=%d", t.StrokeWidth),
			"bordercolor="+ffColor(t.StrokeColor),
		)
	}
	opts = append(opts,
		"expansion=none",
		"x=(w-text_w)/2",
		"y="+y,
		"enable="+escapeValue(fmt.Sprintf("between(t,%s,%s)", num(t.Start), num(t.End))),
	)
	if fade := math.Min(t.Fade, t.Duration()/2); fade > 0 {
		alpha := fmt.Sprintf("if(lt(t,%[1]s+%[3]s),(t-%[1]s)/%[3]s,if(gt(t,%[2]s-%[3]s),(%[2]s-t)/%[3]s,1))",
			num(t.Start), num(t.End), num(fade))
		opts = append(opts, "alpha="+escapeValue(alpha))
	}
	return "drawtext=" + strings.Join(opts, ":")
}

// Mix sums tracks with the first as the length reference, then pads or trims
// to exactly duration seconds.
func (b *Backend) Mix(duration float64, tracks []clip.Audio) clip.Audio {
	nodes := make([]*audioNode, 0, len(tracks))
	for _, track := range tracks {
		if n, ok := track.(*audioNode); ok && n != nil {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	d := num(math.Max(duration, 0))
	return &audioNode{
		mix:      true,
		tracks:   nodes,
		filters:  []string{"apad=whole_dur=" + d, "atrim=end=" + d},
		duration: math.Max(duration, 0),
	}
}
