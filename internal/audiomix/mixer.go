package audiomix

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media/clip"
)

// MusicStatus reports how the background track was handled.
type MusicStatus string

const (
	MusicMixed    MusicStatus = "mixed"
	MusicDisabled MusicStatus = "disabled"
	MusicNone     MusicStatus = "no_track"
	MusicFailed   MusicStatus = "failed"
)

// Result is the mixed audio plus what happened to the music bed.
type Result struct {
	Audio  clip.Audio
	Track  string
	Status MusicStatus
	Reason string
	Loops  int
}

// Mixer lays an optional music bed under the narration.
type Mixer struct {
	backend clip.Backend
	music   config.Music
	logger  *slog.Logger
}

// NewMixer returns a mixer using the [music] settings.
func NewMixer(backend clip.Backend, music config.Music, logger *slog.Logger) *Mixer {
	return &Mixer{backend: backend, music: music, logger: logging.NewComponentLogger(logger, "audiomix")}
}

// Mix returns one track exactly total seconds long. The narration is never
// altered; when music is disabled, missing or unreadable the output is the
// narration alone.
func (m *Mixer) Mix(ctx context.Context, narration clip.Audio, total float64, trackPath string) Result {
	narrationOnly := func(status MusicStatus, reason string) Result {
		return Result{
			Audio:  m.backend.Mix(total, []clip.Audio{narration}),
			Track:  trackPath,
			Status: status,
			Reason: reason,
		}
	}
	if !m.music.Enabled {
		return narrationOnly(MusicDisabled, "")
	}
	if trackPath == "" {
		m.logger.Info("no music track resolved; narration only")
		return narrationOnly(MusicNone, "")
	}

	music, err := m.backend.OpenAudio(ctx, trackPath)
	if err == nil && (music.Duration() <= 0 || math.IsNaN(music.Duration())) {
		err = fmt.Errorf("unusable duration %.3fs", music.Duration())
	}
	if err != nil {
		logging.WarnWithContext(m.logger, "music track failed to load; narration only", "music_load_failed",
			logging.String("track", trackPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "replace or remove the music file"),
			logging.String(logging.FieldImpact, "video has no background music"),
		)
		return narrationOnly(MusicFailed, err.Error())
	}

	loops := 1
	if d := music.Duration(); d < total {
		loops = int(math.Ceil(total/d - 1e-9))
		music = music.Loop(loops)
	}
	music = music.Subrange(0, total).Gain(m.music.Volume)
	if m.music.FadeIn > 0 {
		music = music.FadeIn(m.music.FadeIn)
	}
	if m.music.FadeOut > 0 {
		music = music.FadeOut(m.music.FadeOut)
	}

	m.logger.Info("music mixed",
		logging.String("track", trackPath),
		logging.Int("loops", loops),
		logging.Float64("volume", m.music.Volume),
	)
	return Result{
		Audio:  m.backend.Mix(total, []clip.Audio{narration, music}),
		Track:  trackPath,
		Status: MusicMixed,
		Loops:  loops,
	}
}
