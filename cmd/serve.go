package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ThatCatDev/venvdash/internal/config"
	"github.com/ThatCatDev/venvdash/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()

		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if bin, _ := cmd.Flags().GetString("pyenv"); bin != "" {
			cfg.PyenvBin = bin
		}
		if dir, _ := cmd.Flags().GetString("export-dir"); dir != "" {
			cfg.ExportDir = dir
		}
		if timeout, _ := cmd.Flags().GetDuration("command-timeout"); timeout > 0 {
			cfg.CommandTimeout = timeout
		}
		if n, _ := cmd.Flags().GetInt("list-concurrency"); n > 0 {
			cfg.ListConcurrency = n
		}

		if err := config.EnsureDirs(cfg); err != nil {
			return err
		}
		log.Printf("pyenv: %s, exports: %s, command timeout: %v", cfg.PyenvBin, cfg.ExportDir, cfg.CommandTimeout)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "bind address (default 127.0.0.1)")
	serveCmd.Flags().Int("port", 0, "listen port (default 5000)")
	serveCmd.Flags().String("pyenv", "", "pyenv executable")
	serveCmd.Flags().String("export-dir", "", "directory for exported requirements files")
	serveCmd.Flags().Duration("command-timeout", 0, "timeout for each external command (default 10m)")
	serveCmd.Flags().Int("list-concurrency", 0, "environments inspected in parallel (default 4)")
	rootCmd.AddCommand(serveCmd)
}
