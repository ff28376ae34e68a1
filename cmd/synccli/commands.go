package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dhisync/synccore/internal/config"
	"github.com/dhisync/synccore/internal/pipeline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type loggerFunc func() (*slog.Logger, error)

// Output formats for extract.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func ingestCmd(logger loggerFunc) *cobra.Command {
	var envelope bool

	cmd := &cobra.Command{
		Use:   "ingest <file.docx>",
		Short: "Render a .docx as Symbolic DSD XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger()
			if err != nil {
				return err
			}
			components, err := setup(cmd, log)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			res, err := components.Service.Ingest(data, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			if envelope {
				return writeOutput(cmd.OutOrStdout(), formatJSON, res)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), res.DSD)
			return err
		},
	}
	cmd.Flags().BoolVar(&envelope, "envelope", false, "Print the JSON response envelope instead of bare XML")
	return cmd
}

func extractCmd(logger loggerFunc) *cobra.Command {
	var (
		concurrency int
		format      string
	)

	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Atomize .docx or .pdf contracts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			log, err := logger()
			if err != nil {
				return err
			}
			components, err := setup(cmd, log)
			if err != nil {
				return err
			}
			if err := components.Gemini.Ready(); err != nil {
				log.Warn("extraction capability unavailable", "error", err)
			}

			docs := make([]pipeline.Document, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				docs = append(docs, pipeline.Document{Filename: filepath.Base(path), Data: data})
			}

			results, err := components.Service.ExtractBatch(cmd.Context(), docs, concurrency)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, results)
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 4, "Documents atomized in parallel")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format (json, yaml)")
	return cmd
}

func setup(cmd *cobra.Command, log *slog.Logger) (pipeline.Components, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return pipeline.Components{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return pipeline.NewFromConfig(cmd.Context(), cfg, log)
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
