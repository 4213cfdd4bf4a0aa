package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ThatCatDev/venvdash/internal/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List virtual environments",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(serverURL)
		envs, err := client.ListEnvironments(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list environments: %w", err)
		}

		if len(envs) == 0 {
			fmt.Println("No environments found.")
			return nil
		}

		fmt.Printf("%-30s %-20s %12s\n", "NAME", "VERSION", "SIZE")
		fmt.Println("──────────────────────────────────────────────────────────────────")
		for _, e := range envs {
			fmt.Printf("%-30s %-20s %12s\n", e.Name, e.Version, e.Size)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
