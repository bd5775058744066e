package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/clipshr/internal/model"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.buildApp()
			if err != nil {
				return err
			}
			records, err := app.orchestrator.History()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "History is empty (%s)\n", app.history.Path())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records))
			return nil
		},
	}

	historyCmd.AddCommand(&cobra.Command{
		Use:   "delete <filename>",
		Short: "Delete a downloaded file and its history entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.buildApp()
			if err != nil {
				return err
			}
			if err := app.orchestrator.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	})

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every downloaded file and empty the history",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.buildApp()
			if err != nil {
				return err
			}
			deleted, err := app.orchestrator.ClearHistory()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History cleared, %d files deleted\n", deleted)
			return nil
		},
	})

	return historyCmd
}

func renderHistory(records []model.HistoryRecord) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.DisplayTitle(), string(rec.Kind), rec.SizeLabel, rec.Timestamp, rec.Filename})
	}
	return renderTable(
		[]string{"Title", "Type", "Size", "Job", "File"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
