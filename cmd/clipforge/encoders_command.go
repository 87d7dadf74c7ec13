package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/render"
)

func newEncodersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "encoders",
		Short: "Probe hardware H.264 encoders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			probe := render.NewEncoderProbe(cfg.FFmpegBinary(), cfg.Render, logger)
			selected := probe.Encoder(cmd.Context())
			statuses := probe.Statuses()

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"selected":   selected,
					"candidates": statuses,
				})
			}
			out := cmd.OutOrStdout()
			if len(statuses) > 0 {
				rows := make([][]string, 0, len(statuses))
				for _, s := range statuses {
					rows = append(rows, []string{s.Name, yesNo(s.Listed), yesNo(s.Working), s.Detail})
				}
				writeTable(out, []string{"Encoder", "Listed", "Working", "Detail"}, rows, nil)
			}
			fmt.Fprintf(out, "Selected encoder: %s\n", selected)
			return nil
		},
	}
}
