package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipforge/internal/assembly"
	"clipforge/internal/deps"
	"clipforge/internal/logging"
	"clipforge/internal/preflight"
	"clipforge/internal/render"
	"clipforge/internal/timeline"
)

type renderSummary struct {
	Project        string   `json:"project"`
	RenderID       string   `json:"render_id"`
	Tier           string   `json:"tier"`
	Output         string   `json:"output"`
	Encoder        string   `json:"encoder"`
	Duration       float64  `json:"duration_seconds"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	ClipsUsed      int      `json:"clips_used"`
	ClipsSkipped   []string `json:"clips_skipped,omitempty"`
	Filler         bool     `json:"filler"`
	CaptionSource  string   `json:"caption_source"`
	CaptionsDrawn  int      `json:"captions_drawn"`
	CaptionsTotal  int      `json:"captions_total"`
	Music          string   `json:"music"`
	Degraded       bool     `json:"degraded"`
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string

	cmd := &cobra.Command{
		Use:   "render <project>",
		Short: "Assemble a project and encode it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tiers, err := parseTiers(tierFlag)
			if err != nil {
				return err
			}
			a, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if missing := missingBinaries(preflight.CheckSystemDeps(a.cfg)); len(missing) > 0 {
				return fmt.Errorf("missing required binaries: %s (run `clipforge check`)", strings.Join(missing, ", "))
			}
			logging.CleanupOld(a.logger, a.cfg.Logging.RetentionDays, logging.RetentionTarget{
				Dir:     a.cfg.Paths.LogDir,
				Pattern: "*.log",
				Exclude: []string{filepath.Join(a.cfg.Paths.LogDir, logging.LogFileName)},
			})

			results, err := a.assembler.RenderTiers(cmd.Context(), args[0], tiers)
			if err != nil {
				return err
			}
			summaries := make([]renderSummary, 0, len(results))
			for _, r := range results {
				summaries = append(summaries, summarizeRender(r.Outcome, r.Report))
			}

			if ctx.jsonOutput() {
				return writeJSONList(cmd, summaries)
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					s.Tier,
					s.Output,
					s.Encoder,
					seconds(s.Duration),
					seconds(s.ElapsedSeconds),
					fmt.Sprintf("%d/%d", s.ClipsUsed, s.ClipsUsed+len(s.ClipsSkipped)),
					fmt.Sprintf("%d/%d", s.CaptionsDrawn, s.CaptionsTotal),
					s.Music,
					yesNo(s.Degraded),
				})
			}
			out := cmd.OutOrStdout()
			writeTable(out,
				[]string{"Tier", "Output", "Encoder", "Duration", "Elapsed", "Clips", "Captions", "Music", "Degraded"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
			)
			for _, s := range summaries {
				for _, skipped := range s.ClipsSkipped {
					fmt.Fprintf(out, "skipped clip: %s\n", skipped)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tierFlag, "tier", "both", "Output tier: preview, final or both")
	return cmd
}

func parseTiers(value string) ([]render.Tier, error) {
	if strings.EqualFold(strings.TrimSpace(value), "both") {
		return []render.Tier{render.TierPreview, render.TierFinal}, nil
	}
	tier, err := render.ParseTier(value)
	if err != nil {
		return nil, err
	}
	return []render.Tier{tier}, nil
}

func missingBinaries(statuses []deps.Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}

func summarizeRender(outcome render.Outcome, report assembly.Report) renderSummary {
	s := renderSummary{
		Project:        report.ProjectID,
		RenderID:       report.RenderID,
		Tier:           string(outcome.Tier),
		Output:         outcome.Output,
		Encoder:        outcome.Encoder,
		Duration:       outcome.Duration,
		ElapsedSeconds: outcome.Elapsed.Seconds(),
		Filler:         report.Filler,
		CaptionSource:  string(report.CaptionSource),
		CaptionsDrawn:  report.CaptionsDrawn(),
		CaptionsTotal:  len(report.Captions),
		Music:          string(report.Music.Status),
		Degraded:       report.Degraded(),
	}
	for _, c := range report.Clips {
		switch c.Status {
		case timeline.ClipUsed:
			s.ClipsUsed++
		case timeline.ClipSkipped:
			s.ClipsSkipped = append(s.ClipsSkipped, c.Filename+" ("+c.Reason+")")
		}
	}
	if report.Music.Loops > 1 {
		s.Music += " x" + strconv.Itoa(report.Music.Loops)
	}
	return s
}
