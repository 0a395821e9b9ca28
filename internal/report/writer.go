package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"fjacquet/ud-extract/internal/models"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Format is an output rendering of the report.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// TextHeader is the first line of the text report.
const TextHeader = "ID, STATUS, RETCODE"

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (must be text, csv, json or yaml)", s)
	}
}

// SortRows orders rows by trace id, numerically where possible.
func SortRows(rows []models.ReportRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return models.CompareTraceIDs(rows[i].ID, rows[j].ID) < 0
	})
}

// Write renders rows to w in the given format.
func Write(w io.Writer, rows []models.ReportRow, format Format) error {
	if rows == nil {
		rows = []models.ReportRow{}
	}

	switch format {
	case FormatText, "":
		return writeText(w, rows)
	case FormatCSV:
		if err := gocsv.Marshal(rows, w); err != nil {
			return fmt.Errorf("error writing CSV report: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("error writing JSON report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("error writing YAML report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("error writing YAML report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeText(w io.Writer, rows []models.ReportRow) error {
	if _, err := fmt.Fprintln(w, TextHeader); err != nil {
		return fmt.Errorf("error writing report header: %w", err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s, %s, %s\n", row.ID, row.Status, row.RetCode); err != nil {
			return fmt.Errorf("error writing report row %s: %w", row.ID, err)
		}
	}
	return nil
}
