package assembly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"clipforge/internal/audiomix"
	"clipforge/internal/captions"
	"clipforge/internal/config"
	"clipforge/internal/deps"
	"clipforge/internal/logging"
	"clipforge/internal/media/clip"
	"clipforge/internal/media/ffgraph"
	"clipforge/internal/project"
	"clipforge/internal/render"
	"clipforge/internal/services"
	"clipforge/internal/textutil"
	"clipforge/internal/timeline"
)

// BackendFactory returns a clip backend writing scratch files under workDir.
type BackendFactory func(workDir string) clip.Backend

// FFmpegBackends returns the production backend factory, probing inputs with
// the ffprobe that ships beside the configured ffmpeg when there is one.
func FFmpegBackends(cfg *config.Config) BackendFactory {
	probe := ffgraph.ProberFor(deps.ResolveFFprobe(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
	fps := cfg.Video.FPS
	return func(workDir string) clip.Backend {
		return ffgraph.New(probe, fps, workDir)
	}
}

// Encoder renders a finished composition to disk.
type Encoder interface {
	Encode(ctx context.Context, comp clip.Composition, tier render.Tier, output string) (render.Outcome, error)
}

// History records render attempts.
type History interface {
	BeginRender(ctx context.Context, id, projectID, tier string) error
	FinishRender(ctx context.Context, id, encoder, outputPath string, renderErr error) error
}

// Option customises an Assembler.
type Option func(*Assembler)

// WithEncoder sets the encoder used by Render.
func WithEncoder(encoder Encoder) Option {
	return func(a *Assembler) { a.encoder = encoder }
}

// WithHistory records every Render in h.
func WithHistory(h History) Option {
	return func(a *Assembler) { a.history = h }
}

// WithSinks adds destinations for the computed timeline.
func WithSinks(sinks ...timeline.Sink) Option {
	return func(a *Assembler) { a.sinks = append(a.sinks, sinks...) }
}

// WithRand fixes the random source used to pick music tracks.
func WithRand(rng *rand.Rand) Option {
	return func(a *Assembler) { a.rng = rng }
}

// Assembler builds compositions for projects.
type Assembler struct {
	cfg      *config.Config
	backends BackendFactory
	encoder  Encoder
	history  History
	sinks    []timeline.Sink
	rng      *rand.Rand
	logger   *slog.Logger
}

// New constructs an assembler. The backend factory is required; everything
// else is optional.
func New(cfg *config.Config, backends BackendFactory, logger *slog.Logger, opts ...Option) *Assembler {
	a := &Assembler{
		cfg:      cfg,
		backends: backends,
		logger:   logging.NewComponentLogger(logger, "assembly"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type session struct {
	ctx       context.Context
	logger    *slog.Logger
	backend   clip.Backend
	narration clip.Audio
	report    Report
}

// open loads the narration, which fixes the composition length.
func (a *Assembler) open(ctx context.Context, p *project.Project) (*session, error) {
	if p == nil {
		return nil, errors.New("assembly requires a project")
	}
	if a.backends == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "init", "No media backend configured", nil)
	}
	ctx = services.WithProject(ctx, p.ID)
	renderID, ok := services.RenderIDFromContext(ctx)
	if !ok {
		renderID = uuid.NewString()
		ctx = services.WithRenderID(ctx, renderID)
	}

	s := &session{
		ctx:    ctx,
		logger: logging.WithContext(ctx, a.logger),
		report: Report{
			ProjectID: p.ID,
			RenderID:  renderID,
			WorkDir:   a.workDir(p.ID, renderID),
		},
	}
	s.backend = a.backends(s.report.WorkDir)

	path := p.VoiceoverPath()
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "assembly", "locate narration",
			fmt.Sprintf("Narration %s is missing", path), err)
	}
	narration, err := s.backend.OpenAudio(ctx, path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "assembly", "open narration", "Narration track could not be read", err)
	}
	total := narration.Duration()
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, services.Wrap(services.ErrNotFound, "assembly", "open narration", "Narration track has no audio",
			fmt.Errorf("duration %.3fs", total))
	}
	s.narration = narration
	s.report.Duration = total
	return s, nil
}

func (a *Assembler) workDir(projectID, renderID string) string {
	short := renderID
	if len(short) > 8 {
		short = short[:8]
	}
	return filepath.Join(a.cfg.Paths.WorkDir, textutil.Slug(projectID)+"-"+short)
}

// Timeline recomputes and persists the footage timeline without drawing or
// encoding anything.
func (a *Assembler) Timeline(ctx context.Context, p *project.Project) (Report, error) {
	s, err := a.open(ctx, p)
	if err != nil {
		return Report{}, err
	}
	a.buildTimeline(s, p)
	return s.report, nil
}

func (a *Assembler) buildTimeline(s *session, p *project.Project) clip.Video {
	track := timeline.NewBuilder(s.backend, a.cfg.Video, s.logger).
		Build(s.ctx, p.FootageDir(), p.State.FootageClips, s.report.Duration)
	s.report.Clips = track.Results
	s.report.Entries = track.Entries
	s.report.Filler = track.Filler

	for _, sink := range a.sinks {
		if err := sink.ReplaceTimeline(s.ctx, p.ID, track.Entries); err != nil {
			logging.WarnWithContext(s.logger, "timeline persist failed", "timeline_persist_failed",
				logging.String("sink", fmt.Sprintf("%T", sink)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check database_path and projects_dir permissions"),
				logging.String(logging.FieldImpact, "inspection tooling shows a stale timeline"),
			)
			s.report.PersistErrors = append(s.report.PersistErrors, err.Error())
		}
	}
	return track.Video
}

// Assemble builds the full composition for p. Only narration problems are
// returned as errors; every other failure is contained and recorded in the
// Report.
func (a *Assembler) Assemble(ctx context.Context, p *project.Project) (clip.Composition, Report, error) {
	return a.assemble(ctx, p, a.musicTrack(p))
}

// musicTrack picks the background track for p, or "" when music is off.
func (a *Assembler) musicTrack(p *project.Project) string {
	if !a.cfg.Music.Enabled {
		return ""
	}
	mood := p.State.MusicMood
	if mood == "" {
		mood = a.cfg.Music.Mood
	}
	return audiomix.ResolveTrack(a.cfg.MusicDir(), p.MusicTrack(), mood, a.rng)
}

func (a *Assembler) assemble(ctx context.Context, p *project.Project, trackPath string) (clip.Composition, Report, error) {
	s, err := a.open(ctx, p)
	if err != nil {
		return clip.Composition{}, Report{}, err
	}
	total := s.report.Duration
	video := a.buildTimeline(s, p)

	s.report.CaptionSource = captions.SourceNone
	if cc := a.cfg.Captions; cc.Enabled {
		words, source := captions.Timings(s.logger, p.VoiceoverPath(), p.Script(), total)
		_, layout := captionLayout(a.cfg.Video, cc)
		units := captions.Build(words, captions.Options{
			Style:    captions.Style(cc.Style),
			MaxWords: cc.MaxWords,
			Layout:   layout,
		})
		s.report.CaptionSource = source
		video, s.report.Captions = drawAll(s.logger, s.backend, video, a.captionOverlays(units), "caption_skipped")
	}

	if hook, ok := a.hookOverlay(p.State.HookText, total); ok {
		var results []OverlayResult
		video, results = drawAll(s.logger, s.backend, video, []clip.Text{hook}, "hook_skipped")
		s.report.Hook = &results[0]
	}

	s.report.Music = audiomix.NewMixer(s.backend, a.cfg.Music, s.logger).Mix(s.ctx, s.narration, total, trackPath)

	s.logger.Info("composition assembled",
		logging.Seconds("duration_seconds", total),
		logging.Int("timeline_entries", len(s.report.Entries)),
		logging.Bool("filler", s.report.Filler),
		logging.String("caption_source", string(s.report.CaptionSource)),
		logging.Int("captions_drawn", s.report.CaptionsDrawn()),
		logging.String("music", string(s.report.Music.Status)),
	)
	return clip.Composition{
		Video:    video,
		Audio:    s.report.Music.Audio,
		Width:    a.cfg.Video.Width,
		Height:   a.cfg.Video.Height,
		FPS:      a.cfg.Video.FPS,
		Duration: total,
	}, s.report, nil
}
