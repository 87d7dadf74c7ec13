package captions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"clipforge/internal/services"
)

// SidecarSuffix replaces the narration file's extension to name its word
// timestamp sidecar (voiceover.mp3 -> voiceover.timestamps.json).
const SidecarSuffix = ".timestamps.json"

// WordTimestamp is one spoken token and its interval in seconds.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End-Start.
func (w WordTimestamp) Duration() float64 {
	return w.End - w.Start
}

// SidecarPath derives the sidecar location for a narration file.
func SidecarPath(narrationPath string) string {
	ext := filepath.Ext(narrationPath)
	return strings.TrimSuffix(narrationPath, ext) + SidecarSuffix
}

// LoadSidecar reads the timestamps stored next to narrationPath. A missing
// sidecar is not an error and reports found=false.
func LoadSidecar(narrationPath string) ([]WordTimestamp, bool, error) {
	path := SidecarPath(narrationPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, services.Wrap(services.ErrValidation, "captions", "read sidecar", path, err)
	}
	var words []WordTimestamp
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, true, services.Wrap(services.ErrValidation, "captions", "decode sidecar", path, err)
	}
	return words, true, nil
}

// WriteSidecar stores words next to narrationPath.
func WriteSidecar(narrationPath string, words []WordTimestamp) error {
	data, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	return os.WriteFile(SidecarPath(narrationPath), data, 0o644)
}

// Validate checks that every interval is finite, non-negative and ordered,
// and that starts never decrease.
func Validate(words []WordTimestamp) error {
	prevStart := 0.0
	for i, w := range words {
		if math.IsNaN(w.Start) || math.IsNaN(w.End) || math.IsInf(w.Start, 0) || math.IsInf(w.End, 0) {
			return fmt.Errorf("word %d (%q): non-finite timestamp", i, w.Word)
		}
		if w.Start < 0 {
			return fmt.Errorf("word %d (%q): negative start %.3f", i, w.Word, w.Start)
		}
		if w.End < w.Start {
			return fmt.Errorf("word %d (%q): end %.3f before start %.3f", i, w.Word, w.End, w.Start)
		}
		if i > 0 && w.Start < prevStart {
			return fmt.Errorf("word %d (%q): start %.3f before previous start %.3f", i, w.Word, w.Start, prevStart)
		}
		prevStart = w.Start
	}
	return nil
}
