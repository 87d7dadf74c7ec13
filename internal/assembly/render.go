package assembly

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"clipforge/internal/logging"
	"clipforge/internal/project"
	"clipforge/internal/render"
	"clipforge/internal/services"
	"clipforge/internal/textutil"
)

// ErrProjectBusy is returned when another process holds the project's lock.
var ErrProjectBusy = errors.New("project is already rendering")

// TierResult is the outcome of encoding one tier.
type TierResult struct {
	Outcome render.Outcome
	Report  Report
}

// Render assembles projectID and encodes it for tier.
func (a *Assembler) Render(ctx context.Context, projectID string, tier render.Tier) (render.Outcome, Report, error) {
	results, err := a.RenderTiers(ctx, projectID, []render.Tier{tier})
	if len(results) == 0 {
		return render.Outcome{}, Report{}, err
	}
	return results[0].Outcome, results[0].Report, err
}

// RenderTiers encodes projectID once per tier, in order, stopping at the first
// failure. The project lock is held across all tiers and the music track is
// chosen once, so a preview and its final share the same soundtrack. Scratch
// files are removed after each successful tier and kept after a failure.
func (a *Assembler) RenderTiers(ctx context.Context, projectID string, tiers []render.Tier) ([]TierResult, error) {
	if a.encoder == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "render", "No encoder configured", nil)
	}
	p, err := project.Load(a.cfg.Paths.ProjectsDir, projectID)
	if err != nil {
		return nil, err
	}

	unlock, err := a.lockProject(p.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	a.pruneWorkDirs()
	track := a.musicTrack(p)
	results := make([]TierResult, 0, len(tiers))
	for _, tier := range tiers {
		outcome, report, err := a.renderTier(ctx, p, tier, track)
		results = append(results, TierResult{Outcome: outcome, Report: report})
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (a *Assembler) renderTier(ctx context.Context, p *project.Project, tier render.Tier, track string) (render.Outcome, Report, error) {
	renderID := uuid.NewString()
	ctx = services.WithRenderID(ctx, renderID)
	ctx = services.WithProject(ctx, p.ID)
	ctx = services.WithTier(ctx, string(tier))
	logger := logging.WithContext(ctx, a.logger)

	if a.history != nil {
		if err := a.history.BeginRender(ctx, renderID, p.ID, string(tier)); err != nil {
			logging.WarnWithContext(logger, "render history unavailable", "render_history_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "render is missing from history"),
			)
		}
	}

	comp, report, err := a.assemble(ctx, p, track)
	var outcome render.Outcome
	if err == nil {
		outcome, err = a.encoder.Encode(ctx, comp, tier, p.OutputPath(tier.OutputName()))
	}

	if a.history != nil {
		if herr := a.history.FinishRender(context.WithoutCancel(ctx), renderID, outcome.Encoder, outcome.Output, err); herr != nil {
			logging.WarnWithContext(logger, "render history update failed", "render_history_failed",
				logging.Error(herr),
				logging.String(logging.FieldImpact, "render stays marked running in history"),
			)
		}
	}
	if err != nil {
		logging.ErrorWithContext(logger, "render failed", "render_failed",
			logging.Error(err),
			logging.String("work_dir", report.WorkDir),
			logging.String(logging.FieldErrorHint, "inspect the work dir and rerun with --log-level debug"),
		)
		return outcome, report, err
	}

	if report.WorkDir != "" {
		if rmErr := os.RemoveAll(report.WorkDir); rmErr != nil {
			logger.Debug("work dir cleanup failed", logging.String("path", report.WorkDir), logging.Error(rmErr))
		}
	}
	logger.Info("render finished",
		logging.String(logging.FieldEventType, "render_complete"),
		logging.String("output", outcome.Output),
		logging.String("encoder", outcome.Encoder),
		logging.Bool("degraded", report.Degraded()),
		logging.Duration("elapsed", outcome.Elapsed),
	)
	return outcome, report, nil
}

func (a *Assembler) lockProject(projectID string) (func(), error) {
	if err := os.MkdirAll(a.cfg.Paths.WorkDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "create work dir", "Failed to create work directory", err)
	}
	lockPath := filepath.Join(a.cfg.Paths.WorkDir, textutil.Slug(projectID)+".lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "assembly", "acquire lock", "Failed to lock project", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrTransient, "assembly", "acquire lock",
			fmt.Sprintf("Project %q is locked by %s", projectID, lockPath), ErrProjectBusy)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			a.logger.Warn("failed to release project lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}, nil
}

// pruneWorkDirs removes scratch directories left behind by old failed renders.
func (a *Assembler) pruneWorkDirs() {
	logging.CleanupOld(a.logger, a.cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:  a.cfg.Paths.WorkDir,
		Dirs: true,
	})
}
