package captions

import (
	"log/slog"

	"clipforge/internal/logging"
)

// Source names where a timestamp sequence came from.
type Source string

const (
	SourceSidecar   Source = "sidecar"
	SourceSynthetic Source = "synthetic"
	SourceNone      Source = "none"
)

// Timings returns the word timestamps for a narration file. Real timestamps
// from the sidecar win when present and valid; otherwise the script is
// synthesized across total seconds. An empty script with no sidecar yields
// SourceNone and no words, which downstream treats as "no captions".
func Timings(logger *slog.Logger, narrationPath, script string, total float64) ([]WordTimestamp, Source) {
	words, found, err := LoadSidecar(narrationPath)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "timestamp sidecar unreadable; using synthetic timing", "caption_sidecar_invalid",
			logging.String("path", SidecarPath(narrationPath)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "regenerate the voiceover timestamps"),
			logging.String(logging.FieldImpact, "caption pacing is estimated from the script"),
		)
	case found && len(words) > 0:
		if verr := Validate(words); verr != nil {
			logging.WarnWithContext(logger, "timestamp sidecar not monotonic; using synthetic timing", "caption_sidecar_invalid",
				logging.String("path", SidecarPath(narrationPath)),
				logging.String("reason", verr.Error()),
				logging.String(logging.FieldErrorHint, "regenerate the voiceover timestamps"),
				logging.String(logging.FieldImpact, "caption pacing is estimated from the script"),
			)
			break
		}
		if logger != nil {
			logger.Debug("using sidecar timestamps", logging.Int("words", len(words)))
		}
		return words, SourceSidecar
	}

	synthetic := Synthesize(script, total)
	if len(synthetic) == 0 {
		return nil, SourceNone
	}
	return synthetic, SourceSynthetic
}
