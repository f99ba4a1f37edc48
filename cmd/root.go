package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "holmes",
	Short: "holmes 🔎 - give your screenshots names worth keeping",
	Long:  "holmes 🔎 describes screenshots with a vision model, embeds the description as PNG metadata, and renames the files without ever clobbering an existing one.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
