package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/topherjaynes/Screenshot-Holmes/internal/classify"
	"github.com/topherjaynes/Screenshot-Holmes/internal/config"
)

var countCmd = &cobra.Command{
	Use:   "count <folder>",
	Short: "Count screenshot PNGs under a folder, recursively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(false)
		if err != nil {
			return err
		}
		cls := classify.New(cfg.Indicators)

		count := 0
		err = filepath.WalkDir(args[0], func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				// Unreadable subtrees are noted, not fatal.
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, walkErr)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if cls.IsScreenshot(d.Name()) {
				count++
			}
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Total number of screenshot PNGs found: %d\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
