package cmd

import (
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "venvdash",
	Short: "venvdash — pyenv virtualenv dashboard",
	Long:  "venvdash serves a web dashboard for pyenv virtual environments and ships a CLI and TUI client for it.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "http://127.0.0.1:5000", "dashboard server URL")
}
