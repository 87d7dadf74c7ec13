package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/project"
	"clipforge/internal/store"
)

type historyRow struct {
	ID         string `json:"id"`
	Tier       string `json:"tier"`
	Status     string `json:"status"`
	Encoder    string `json:"encoder,omitempty"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <project>",
		Short: "Show recent renders of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := project.ValidateID(args[0]); err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			renders, err := st.Renders(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			rows := make([]historyRow, 0, len(renders))
			for _, r := range renders {
				row := historyRow{
					ID:        r.ID,
					Tier:      r.Tier,
					Status:    string(r.Status),
					Encoder:   r.Encoder,
					Output:    r.OutputPath,
					Error:     r.ErrorMessage,
					StartedAt: r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				}
				if !r.FinishedAt.IsZero() {
					row.FinishedAt = r.FinishedAt.Local().Format("2006-01-02 15:04:05")
				}
				rows = append(rows, row)
			}

			if ctx.jsonOutput() {
				return writeJSONList(cmd, rows)
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No renders recorded")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				detail := r.Output
				if r.Error != "" {
					detail = r.Error
				}
				table = append(table, []string{r.StartedAt, r.Tier, r.Status, r.Encoder, detail})
			}
			writeTable(out, []string{"Started", "Tier", "Status", "Encoder", "Output / Error"}, table, nil)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of renders to show (0 for all)")
	return cmd
}
