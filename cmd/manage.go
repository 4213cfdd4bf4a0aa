package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ThatCatDev/venvdash/internal/apiclient"
)

var createCmd = &cobra.Command{
	Use:   "create <venv> <python-version>",
	Short: "Create a virtual environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := apiclient.New(serverURL).Create(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[0], err)
		}
		fmt.Println(msg)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <venv>",
	Short: "Delete a virtual environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := apiclient.New(serverURL).Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		fmt.Println(msg)
		return nil
	},
}

var cloneCmd = &cobra.Command{
	Use:   "clone <source> <target>",
	Short: "Copy a virtual environment under a new name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := apiclient.New(serverURL).Clone(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to clone %s: %w", args[0], err)
		}
		fmt.Println(msg)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <venv>",
	Short: "Export the requirements of an environment on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := apiclient.New(serverURL).Export(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", args[0], err)
		}
		fmt.Println(msg)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <venv> <requirements-file>",
	Short: "Install an exported requirements file into an environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := apiclient.New(serverURL).Import(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to import into %s: %w", args[0], err)
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd, deleteCmd, cloneCmd, exportCmd, importCmd)
}
