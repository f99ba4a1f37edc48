package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/topherjaynes/Screenshot-Holmes/internal/classify"
	"github.com/topherjaynes/Screenshot-Holmes/internal/config"
	"github.com/topherjaynes/Screenshot-Holmes/internal/cost"
	"github.com/topherjaynes/Screenshot-Holmes/internal/tui"
)

var estimateOutput string

var estimateCmd = &cobra.Command{
	Use:   "estimate <folder>",
	Short: "Estimate vision-API cost for a folder of screenshots, offline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(false)
		if err != nil {
			return err
		}
		cls := classify.New(cfg.Indicators)

		rows, err := cost.ScanFolder(args[0], cls)
		if err != nil {
			return err
		}

		for _, row := range rows {
			if row.Err != nil {
				fmt.Fprintf(os.Stderr, "unreadable: %s: %v\n", row.Path, row.Err)
			}
		}

		totals := cost.Sum(rows)
		summary := []tui.SummaryRow{
			{Label: "Screenshots scanned", Value: fmt.Sprintf("%d", totals.Files)},
			{Label: "Cost at full size", Value: fmt.Sprintf("$%.4f", totals.OriginalCostUSD)},
			{Label: "Cost at half size", Value: fmt.Sprintf("$%.4f", totals.HalvedCostUSD)},
			{Label: "Savings from halving", Value: fmt.Sprintf("$%.4f", totals.SavingsUSD), Tone: tui.ToneSuccess},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(summary))
		if totals.UnreadableFiles > 0 {
			fmt.Fprintf(os.Stderr, "%d file(s) could not be read\n", totals.UnreadableFiles)
		}

		if estimateOutput != "" {
			if err := cost.WriteReport(estimateOutput, rows); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Cost report written to: %s\n", estimateOutput)
		}
		return nil
	},
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateOutput, "output", "o", "", "write the per-file cost report CSV to this path")

	rootCmd.AddCommand(estimateCmd)
}
