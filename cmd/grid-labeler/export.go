package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"grid-labeler/internal/catalog"
	"grid-labeler/internal/export"
	"grid-labeler/internal/logger"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		directory string
		format    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the path/label table to YAML, Parquet or CSV",
		Long: `Export reads images.db from --directory and writes every row.

Use --output - to write to stdout (not available for parquet).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return runExport(cmd, directory, f, output)
		},
	}

	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	cmd.Flags().StringVar(&directory, "directory", ".", "Directory holding images.db")
	cmd.Flags().StringVar(&format, "format", string(export.YAML), "Output format: "+strings.Join(names, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")

	return cmd
}

func runExport(cmd *cobra.Command, directory string, format export.Format, output string) error {
	log := logger.FromEnvironment()

	store, err := catalog.Open(directory, log)
	if err != nil {
		return err
	}
	defer store.Shutdown()

	records, err := store.Records(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "-" {
		var buf bytes.Buffer
		if err := export.Write(&buf, format, store.Path(), records); err != nil {
			return err
		}
		if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		log.Info("Export", "catalog exported", map[string]interface{}{
			"format":  string(format),
			"output":  output,
			"records": len(records),
		})
		return nil
	}

	if format == export.Parquet {
		return fmt.Errorf("parquet output needs --output FILE")
	}
	return export.Write(w, format, store.Path(), records)
}
