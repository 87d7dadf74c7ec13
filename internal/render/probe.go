package render

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"clipforge/internal/config"
	"clipforge/internal/logging"
)

var commandContext = exec.CommandContext

// EncoderStatus describes one hardware candidate after probing.
type EncoderStatus struct {
	Name    string
	Listed  bool
	Working bool
	Detail  string
}

// EncoderProbe finds a working hardware H.264 encoder. The first successful
// detection is memoised until Invalidate; concurrent callers wait for the
// in-flight probe instead of starting another.
type EncoderProbe struct {
	binary     string
	candidates []string
	enabled    bool
	logger     *slog.Logger

	mu       sync.Mutex
	resolved bool
	encoder  string
	statuses []EncoderStatus
}

// NewEncoderProbe builds a probe from the [render] settings.
func NewEncoderProbe(binary string, r config.Render, logger *slog.Logger) *EncoderProbe {
	if binary == "" {
		binary = "ffmpeg"
	}
	candidates := r.Encoders
	if len(candidates) == 0 {
		candidates = config.DefaultEncoders
	}
	return &EncoderProbe{
		binary:     binary,
		candidates: slices.Clone(candidates),
		enabled:    r.HardwareAcceleration != config.HardwareAccelerationOff,
		logger:     logging.NewComponentLogger(logger, "encoder-probe"),
	}
}

// Encoder returns the selected encoder name, probing on first use.
func (p *EncoderProbe) Encoder(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved {
		return p.encoder
	}
	encoder, statuses := p.detect(ctx)
	if ctx.Err() != nil {
		// A cancelled probe says nothing about the hardware.
		return encoder
	}
	p.encoder = encoder
	p.statuses = statuses
	p.resolved = true
	return encoder
}

// Statuses returns the per-candidate results of the last completed probe.
func (p *EncoderProbe) Statuses() []EncoderStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.statuses)
}

// Invalidate forgets the memoised result so the next call probes again.
func (p *EncoderProbe) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolved = false
	p.encoder = ""
	p.statuses = nil
}

func (p *EncoderProbe) detect(ctx context.Context) (string, []EncoderStatus) {
	if !p.enabled {
		p.logger.Info("hardware acceleration disabled", logging.String("encoder", SoftwareEncoder))
		return SoftwareEncoder, nil
	}

	output, err := commandContext(ctx, p.binary, "-hide_banner", "-encoders").Output()
	if err != nil {
		logging.WarnWithContext(p.logger, "ffmpeg encoder listing failed; using software encoder", "encoder_probe_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check render.ffmpeg_binary"),
			logging.String(logging.FieldImpact, "encodes run on the CPU"),
		)
		return SoftwareEncoder, nil
	}
	listed := parseEncoderList(output)

	statuses := make([]EncoderStatus, 0, len(p.candidates))
	selected := ""
	for _, name := range p.candidates {
		status := EncoderStatus{Name: name, Listed: listed[name]}
		switch {
		case selected != "":
			status.Detail = "not tested"
		case !status.Listed:
			status.Detail = "not compiled into ffmpeg"
		default:
			if detail := p.testEncode(ctx, name); detail != "" {
				status.Detail = detail
			} else {
				status.Working = true
				selected = name
			}
		}
		statuses = append(statuses, status)
	}

	if selected == "" {
		p.logger.Info("no hardware encoder available", logging.String("encoder", SoftwareEncoder))
		return SoftwareEncoder, statuses
	}
	p.logger.Info("hardware encoder selected", logging.String("encoder", selected))
	return selected, statuses
}

// testEncode pushes a few synthetic frames through the encoder and returns an
// empty string on success. A listed encoder can still lack its driver.
func (p *EncoderProbe) testEncode(ctx context.Context, name string) string {
	cmd := commandContext(ctx, p.binary,
		"-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=duration=0.2:size=256x256:rate=25",
		"-frames:v", "5", "-c:v", name, "-f", "null", "-",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		p.logger.Debug("hardware encoder test failed", logging.String("encoder", name), logging.String("detail", detail))
		return firstLine(detail)
	}
	return ""
}

// parseEncoderList reads `ffmpeg -encoders` output. Encoder rows are a flags
// column followed by the encoder name.
func parseEncoderList(output []byte) map[string]bool {
	listed := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	inTable := false
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && strings.HasPrefix(fields[0], "---") {
			inTable = true
			continue
		}
		if !inTable || len(fields) < 2 {
			continue
		}
		listed[fields[1]] = true
	}
	return listed
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
