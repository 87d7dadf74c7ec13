package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/preflight"
)

type checkRow struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify binaries, directories and fonts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var rows []checkRow
			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Command
				if status.Detail != "" {
					detail = status.Detail
				}
				rows = append(rows, checkRow{Name: status.Name, Passed: status.Available, Detail: detail})
			}
			for _, result := range preflight.RunAll(cfg) {
				rows = append(rows, checkRow{Name: result.Name, Passed: result.Passed, Detail: result.Detail})
			}

			failed := 0
			for _, row := range rows {
				if !row.Passed {
					failed++
				}
			}

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, rows); err != nil {
					return err
				}
			} else {
				table := make([][]string, 0, len(rows))
				for _, row := range rows {
					status := "ok"
					if !row.Passed {
						status = "FAIL"
					}
					table = append(table, []string{row.Name, status, row.Detail})
				}
				writeTable(cmd.OutOrStdout(), []string{"Check", "Status", "Detail"}, table, nil)
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
