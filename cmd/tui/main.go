package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/todo-tracker/internal/client"
	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		apiBaseURL string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:           "todo-tui",
		Short:         "Terminal client for the todo API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("api-base-url") {
				apiBaseURL = cfg.Client.APIBaseURL
			}

			// The terminal belongs to the UI, so logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := cfg.Log.NewLogger(w)

			api, err := client.NewAPIClient(apiBaseURL, nil)
			if err != nil {
				return err
			}
			logger.Info("starting todo ui", "api", apiBaseURL)
			return tui.Run(cmd.Context(), client.NewTodoService(api), logger)
		},
	}

	cmd.Flags().StringVar(&apiBaseURL, "api-base-url", "", "base URL of the todo API (default $API_BASE_URL or http://localhost:8080)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
