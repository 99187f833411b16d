// Package export writes the catalog's path/label table to files that
// training pipelines can read.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"grid-labeler/internal/catalog"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	YAML    Format = "yaml"
	Parquet Format = "parquet"
	CSV     Format = "csv"
)

// Formats lists the supported encodings.
func Formats() []Format {
	return []Format{YAML, Parquet, CSV}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", name)
}

// Document is the YAML layout.
type Document struct {
	Database string           `yaml:"database"`
	Total    int              `yaml:"total"`
	Records  []catalog.Record `yaml:"records"`
}

// Write encodes records to w.
func Write(w io.Writer, format Format, database string, records []catalog.Record) error {
	switch format {
	case YAML:
		return writeYAML(w, database, records)
	case Parquet:
		return writeParquet(w, records)
	case CSV:
		return writeCSV(w, records)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeYAML(w io.Writer, database string, records []catalog.Record) error {
	doc := Document{Database: database, Total: len(records), Records: records}
	if doc.Records == nil {
		doc.Records = []catalog.Record{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func writeParquet(w io.Writer, records []catalog.Record) error {
	writer := parquet.NewGenericWriter[catalog.Record](w)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, records []catalog.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"path", "label"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Path, r.Label}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
