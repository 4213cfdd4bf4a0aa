package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ThatCatDev/venvdash/internal/apiclient"
)

var packagesCmd = &cobra.Command{
	Use:   "packages <venv>",
	Short: "List the packages installed in an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(serverURL)

		if raw, _ := cmd.Flags().GetBool("json"); raw {
			out, err := client.PackagesRaw(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list packages: %w", err)
			}
			noColor, _ := cmd.Flags().GetBool("no-color")
			fmt.Println(formatJSON(out, !noColor && isTerminal(os.Stdout)))
			return nil
		}

		pkgs, err := client.Packages(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list packages: %w", err)
		}
		if len(pkgs) == 0 {
			fmt.Println("No packages installed.")
			return nil
		}

		fmt.Printf("%-40s %15s\n", "PACKAGE", "VERSION")
		fmt.Println("────────────────────────────────────────────────────────")
		for _, p := range pkgs {
			fmt.Printf("%-40s %15s\n", p.Name, p.Version)
		}
		return nil
	},
}

func init() {
	packagesCmd.Flags().Bool("json", false, "print the pip JSON output")
	packagesCmd.Flags().Bool("no-color", false, "disable syntax highlighting")
	rootCmd.AddCommand(packagesCmd)
}
