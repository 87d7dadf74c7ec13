package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media/clip"
	"clipforge/internal/media/ffgraph"
	"clipforge/internal/services"
)

const stderrTailLines = 20

// Outcome describes a finished encode.
type Outcome struct {
	Output   string
	Tier     Tier
	Encoder  string
	Duration float64
	Elapsed  time.Duration
}

// Pipeline drives ffmpeg to encode compositions.
type Pipeline struct {
	binary string
	render config.Render
	probe  *EncoderProbe
	logger *slog.Logger
}

// NewPipeline returns a pipeline sharing probe across encodes.
func NewPipeline(cfg *config.Config, probe *EncoderProbe, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		binary: cfg.FFmpegBinary(),
		render: cfg.Render,
		probe:  probe,
		logger: logging.NewComponentLogger(logger, "render"),
	}
}

// Encode renders comp to output. The file is written next to output under a
// temporary name and renamed once ffmpeg succeeds, so a failed encode never
// leaves a truncated artifact at output.
func (p *Pipeline) Encode(ctx context.Context, comp clip.Composition, tier Tier, output string) (Outcome, error) {
	graph, err := ffgraph.Build(comp)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrValidation, "render", "build filtergraph", "Composition could not be flattened", err)
	}
	encoder := SoftwareEncoder
	if p.probe != nil {
		encoder = p.probe.Encoder(ctx)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Outcome{}, services.Wrap(services.ErrConfiguration, "render", "create output dir", "Failed to create output directory", err)
	}
	partial := output + ".partial"

	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-progress", "pipe:1", "-nostats"}
	args = append(args, graph.Args()...)
	args = append(args, Params(tier, encoder, p.render, comp.FPS)...)
	args = append(args, "-t", strconv.FormatFloat(comp.Duration, 'f', 3, 64), "-f", "mp4", "-y", partial)

	logger := logging.WithContext(ctx, p.logger)
	logger.Info("launching ffmpeg encode",
		logging.String("tier", string(tier)),
		logging.String("encoder", encoder),
		logging.String("output", output),
		logging.Seconds("duration_seconds", comp.Duration),
		logging.Int("inputs", inputCount(graph.InputArgs)),
	)
	logger.Debug("ffmpeg command", logging.String("command", p.binary+" "+strings.Join(args, " ")))

	start := time.Now()
	if err := p.run(ctx, logger, args, comp.Duration); err != nil {
		_ = os.Remove(partial)
		return Outcome{}, services.Wrap(services.ErrExternalTool, "render", "ffmpeg encode",
			fmt.Sprintf("%s encode with %s failed", tier, encoder), err)
	}
	if err := Verify(partial); err != nil {
		_ = os.Remove(partial)
		return Outcome{}, services.Wrap(services.ErrExternalTool, "render", "verify output", "ffmpeg exited cleanly without producing output", err)
	}
	if err := os.Rename(partial, output); err != nil {
		_ = os.Remove(partial)
		return Outcome{}, services.Wrap(services.ErrExternalTool, "render", "finalize output", "Failed to move encoded file into place", err)
	}

	outcome := Outcome{
		Output:   output,
		Tier:     tier,
		Encoder:  encoder,
		Duration: comp.Duration,
		Elapsed:  time.Since(start),
	}
	logger.Info("encode complete",
		logging.String("tier", string(tier)),
		logging.String("output", output),
		logging.Duration("elapsed", outcome.Elapsed),
	)
	return outcome, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, args []string, duration float64) error {
	cmd := commandContext(ctx, p.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	sampler := logging.NewProgressSampler(10)
	tail := newLineTail(stderrTailLines)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdout, func(line string) {
			seconds, ok := parseProgressLine(line)
			if !ok || duration <= 0 {
				return
			}
			percent := min(seconds/duration*100, 100)
			if sampler.ShouldLog(percent) {
				logger.Info("encode progress", logging.Float64("percent", percent))
			}
		})
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, tail.add)
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if detail := tail.String(); detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

func scanLines(r io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	// Drain so ffmpeg never blocks on a full pipe after a scan error.
	_, _ = io.Copy(io.Discard, r)
}

// parseProgressLine extracts the encoded position from a -progress line.
func parseProgressLine(line string) (float64, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return 0, false
	}
	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds.
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		return float64(us) / 1e6, true
	default:
		return 0, false
	}
}

func inputCount(args []string) int {
	n := 0
	for _, arg := range args {
		if arg == "-i" {
			n++
		}
	}
	return n
}

type lineTail struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func newLineTail(limit int) *lineTail {
	return &lineTail{limit: limit}
}

func (t *lineTail) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *lineTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "; ")
}

// ErrNoOutput is returned by Verify when an encode produced nothing usable.
var ErrNoOutput = errors.New("encoded output missing or empty")

// Verify checks that output exists and is non-empty.
func Verify(output string) error {
	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	if info.Size() == 0 {
		return ErrNoOutput
	}
	return nil
}
