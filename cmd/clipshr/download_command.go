package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/clipshr/internal/jobs"
	"github.com/ytget/clipshr/internal/model"
)

const progressPollInterval = 500 * time.Millisecond

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var opts model.DownloadOptions
	var noCompress bool

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a URL and post-process the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.buildApp()
			if err != nil {
				return err
			}

			opts.URL = args[0]
			if noCompress {
				compress := false
				opts.Compress = &compress
			}
			if opts.JobID == "" {
				opts.JobID = jobs.NewJobID(time.Now())
			}

			done := make(chan struct{})
			go reportProgress(cmd.ErrOrStderr(), app.orchestrator, opts.JobID, done)

			result, err := app.orchestrator.Download(cmd.Context(), opts)
			close(done)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %s)\n", result.Path, result.Kind, result.SizeLabel)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.SelectionID, "format", "f", "", "Format id from 'clipshr analyze' (default: best)")
	cmd.Flags().StringVar(&opts.TrimStart, "trim-start", "", "Trim start timestamp (e.g. 5 or 00:00:05)")
	cmd.Flags().StringVar(&opts.TrimEnd, "trim-end", "", "Trim end timestamp")
	cmd.Flags().StringVar(&opts.ConvertTo, "convert", "", "Convert to container/extension (e.g. webm, mkv, mp3)")
	cmd.Flags().BoolVar(&noCompress, "no-compress", false, "Skip H.264 compression")
	cmd.Flags().BoolVar(&opts.ExtractAudio, "audio", false, "Extract audio only (mp3)")

	return cmd
}

// progressSource is the slice of the orchestrator the reporter polls
type progressSource interface {
	Progress(jobID string) model.ProgressRecord
}

// reportProgress prints the job's record whenever it changes until done is closed
func reportProgress(w io.Writer, src progressSource, jobID string, done <-chan struct{}) {
	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	var last string
	for {
		select {
		case <-done:
			if last != "" {
				fmt.Fprintln(w)
			}
			return
		case <-ticker.C:
			line := progressLine(src.Progress(jobID))
			if line != last {
				fmt.Fprintf(w, "\r%-72s", line)
				last = line
			}
		}
	}
}

func progressLine(rec model.ProgressRecord) string {
	switch rec.Phase {
	case model.PhaseDownloading:
		return fmt.Sprintf("%s %5.1f%%  %s  ETA %s", rec.Phase, rec.Percent, rec.Speed, rec.ETA)
	case model.PhaseUnknown:
		return ""
	default:
		return fmt.Sprintf("%s  %s", rec.Phase, rec.ETA)
	}
}
