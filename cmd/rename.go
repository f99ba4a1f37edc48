package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/topherjaynes/Screenshot-Holmes/internal/audit"
	"github.com/topherjaynes/Screenshot-Holmes/internal/classify"
	"github.com/topherjaynes/Screenshot-Holmes/internal/config"
	"github.com/topherjaynes/Screenshot-Holmes/internal/processor"
	"github.com/topherjaynes/Screenshot-Holmes/internal/tui"
	"github.com/topherjaynes/Screenshot-Holmes/internal/vision"
)

var (
	renameDryRun bool
	renameResize bool
)

var renameCmd = &cobra.Command{
	Use:   "rename <folder>",
	Short: "Describe, tag, and rename every screenshot in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := args[0]

		cfg, err := config.Load(!renameDryRun)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("resize") {
			cfg.Resize = renameResize
		}
		cls := classify.New(cfg.Indicators)

		if renameDryRun {
			candidates, err := processor.Snapshot(folder, cls)
			if err != nil {
				return err
			}
			sort.Slice(candidates, func(i, j int) bool { return candidates[i].Path < candidates[j].Path })
			for _, cand := range candidates {
				fmt.Fprintln(os.Stdout, cand.Path)
			}
			fmt.Fprintf(os.Stdout, "%d screenshot(s) would be processed\n", len(candidates))
			return nil
		}

		logger, err := audit.New(cfg.AuditDir, time.Now())
		if err != nil {
			return err
		}

		client := vision.NewOpenAIClient(cfg.APIKey, vision.Options{
			VisionModel: cfg.VisionModel,
			NamingModel: cfg.NamingModel,
			Attempts:    cfg.RetryAttempts,
			BaseDelay:   cfg.RetryBase,
		})

		var auditErr error
		runner := &processor.Runner{
			Extractor:    client,
			Namer:        client,
			Workers:      cfg.Workers,
			Resize:       cfg.Resize,
			CollisionMax: cfg.CollisionMax,
			OnResult: func(res processor.Result) {
				if err := logger.Record(res); err != nil && auditErr == nil {
					auditErr = err
				}
			},
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		updates := make(chan processor.ProgressUpdate, 64)
		model := tui.NewModel(updates)
		program := tea.NewProgram(model)

		uiDone := make(chan struct{})
		go func() {
			_, _ = program.Run()
			close(uiDone)
		}()

		summary, results, runErr := runner.Run(ctx, folder, cls, updates)
		close(updates)
		<-uiDone

		if closeErr := logger.Close(); closeErr != nil && auditErr == nil {
			auditErr = closeErr
		}
		if runErr != nil {
			return runErr
		}

		failedTone := tui.ToneNeutral
		if summary.Failed > 0 {
			failedTone = tui.ToneWarn
		}
		rows := []tui.SummaryRow{
			{Label: "Screenshots attempted", Value: fmt.Sprintf("%d", summary.Total)},
			{Label: "Renamed", Value: fmt.Sprintf("%d", summary.Succeeded), Tone: tui.ToneSuccess},
			{Label: "Skipped (already tagged)", Value: fmt.Sprintf("%d", summary.Skipped)},
			{Label: "Failed", Value: fmt.Sprintf("%d", summary.Failed), Tone: failedTone},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))

		for _, res := range results {
			switch res.Status {
			case processor.StatusSuccess:
				fmt.Fprintf(os.Stdout, "renamed: %s -> %s\n", res.OriginalPath, res.NewPath)
			case processor.StatusFailed:
				fmt.Fprintf(os.Stderr, "failed:  %s (%s/%s): %v\n", res.OriginalPath, res.Stage, res.Kind, res.Err)
			}
		}

		fmt.Fprintf(os.Stdout, "Audit log: %s\n", logger.Path())
		if auditErr != nil {
			fmt.Fprintf(os.Stderr, "warning: audit log incomplete: %v\n", auditErr)
		}
		return nil
	},
}

func init() {
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false, "list the screenshots that would be processed and exit")
	renameCmd.Flags().BoolVar(&renameResize, "resize", false, "downscale images to half size before submission")

	rootCmd.AddCommand(renameCmd)
}
