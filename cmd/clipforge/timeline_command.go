package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clipforge/internal/project"
	"clipforge/internal/timeline"
)

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:   "timeline <project>",
		Short: "Rebuild and show a project's footage timeline",
		Long: "Rebuild the footage timeline from the narration length and footage clips, " +
			"persist it, and print it. With --stored, print the last persisted timeline instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var entries []timeline.Entry
			var skipped []timeline.ClipResult
			if stored {
				if err := project.ValidateID(args[0]); err != nil {
					return err
				}
				entries, err = a.store.Timeline(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			} else {
				p, err := project.Load(a.cfg.Paths.ProjectsDir, args[0])
				if err != nil {
					return err
				}
				report, err := a.assembler.Timeline(cmd.Context(), p)
				if err != nil {
					return err
				}
				entries = report.Entries
				for _, result := range report.Clips {
					if result.Status == timeline.ClipSkipped {
						skipped = append(skipped, result)
					}
				}
			}

			if ctx.jsonOutput() {
				return writeJSONList(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No timeline entries")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					entry.ClipFilename,
					seconds(entry.Start),
					seconds(entry.End),
					seconds(entry.Duration()),
					entry.Keyword,
				})
			}
			writeTable(out,
				[]string{"#", "Clip", "Start", "End", "Length", "Keyword"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			)
			for _, result := range skipped {
				fmt.Fprintf(out, "skipped clip: %s (%s)\n", result.Filename, result.Reason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "Show the last persisted timeline without rebuilding")
	return cmd
}
