package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/clipshr/internal/model"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <url>",
		Short: "List the formats offered for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.buildApp()
			if err != nil {
				return err
			}

			analysis, err := app.orchestrator.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", analysis.Title, formatDuration(analysis.Duration))
			fmt.Fprintln(out, renderFormats(analysis.Formats))
			return nil
		},
	}
}

func renderFormats(formats []model.CatalogEntry) string {
	rows := make([][]string, 0, len(formats))
	for _, f := range formats {
		fps := "-"
		if f.FPS != nil {
			fps = fmt.Sprintf("%.0f", *f.FPS)
		}
		rows = append(rows, []string{f.SelectionID, string(f.Kind), f.Resolution, fps, f.Codec, f.Ext, f.SizeLabel})
	}
	return renderTable(
		[]string{"Format", "Type", "Resolution", "FPS", "Codec", "Ext", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight},
	)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "unknown length"
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	return s
}
