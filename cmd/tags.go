package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/topherjaynes/Screenshot-Holmes/internal/pngmeta"
	"github.com/topherjaynes/Screenshot-Holmes/internal/tui"
	"github.com/topherjaynes/Screenshot-Holmes/pkg/imgutil"
)

var tagsCmd = &cobra.Command{
	Use:   "tags <folder>",
	Short: "Show the embedded description of every PNG in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := args[0]
		entries, err := os.ReadDir(folder)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if entry.IsDir() || !entry.Type().IsRegular() {
				continue
			}
			if !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
				continue
			}
			path := filepath.Join(folder, entry.Name())

			if isPNG, err := imgutil.SniffPNG(path); err != nil || !isPNG {
				continue
			}

			fmt.Fprintf(os.Stdout, "%s\n", tagFileStyle.Render(entry.Name()))

			description, ok, err := pngmeta.Read(path)
			switch {
			case err != nil:
				fmt.Fprintf(os.Stdout, "  %s\n", tagDimStyle.Render(fmt.Sprintf("unreadable: %v", err)))
			case ok:
				fmt.Fprintf(os.Stdout, "  %s\n", tagValueStyle.Render(description))
			default:
				fmt.Fprintf(os.Stdout, "  %s\n", tagDimStyle.Render("no description found"))
			}

			if captured, err := pngmeta.CaptureTime(path); err == nil && captured != "" {
				fmt.Fprintf(os.Stdout, "  %s\n", tagDimStyle.Render("captured: "+captured))
			}
		}
		return nil
	},
}

var (
	tagFileStyle  = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	tagValueStyle = lipgloss.NewStyle().Foreground(tui.ColorInk)
	tagDimStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(tagsCmd)
}
