// Package main provides the synccli binary, which runs the contract
// pipeline against local files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dhisync/synccore/internal/config"
	"github.com/spf13/cobra"
)

const (
	Version = "2.0.0"
	appName = "synccli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Contract ingestion and atomization",
		Long: `synccli runs the contract pipeline against local files.

  ingest   parse a .docx into the Symbolic DSD XML tree
  extract  map .docx or .pdf contracts onto Symbolic Skeleton atoms

Configuration is read from the same environment variables as the server
(GOOGLE_API_KEY, GEMINI_MODEL, UID_SCHEME, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	logger := func() (*slog.Logger, error) {
		level, err := config.ParseLevel(logLevel)
		if err != nil {
			return nil, err
		}
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
	}

	cmd.AddCommand(ingestCmd(logger), extractCmd(logger))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
