// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-select/pkg/types"
)

// Format names an output encoding for selection results.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// selectedColumns is the CSV column order of SelectedPaper.
var selectedColumns = []string{
	ColResearcher, ColTitle, ColYear, ColCitations, ColFirstAuthor, ColLastAuthor, ColAbstract,
}

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv, json, or yaml)", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer output format from %q: no extension", path)
	}
	return ParseFormat(ext)
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []types.SelectedPaper) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatYAML:
		return WriteYAML(w, records)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteFile writes records to path, creating parent directories. An empty
// format is inferred from the path's extension.
func WriteFile(path string, format Format, records []types.SelectedPaper) error {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		format = f
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, format, records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []types.SelectedPaper) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(selectedColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Researcher,
			r.Title,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Citations),
			r.FirstAuthor,
			r.LastAuthor,
			r.Abstract,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as an indented JSON array. A nil slice is
// written as [].
func WriteJSON(w io.Writer, records []types.SelectedPaper) error {
	if records == nil {
		records = []types.SelectedPaper{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteYAML writes records as a YAML sequence.
func WriteYAML(w io.Writer, records []types.SelectedPaper) error {
	if records == nil {
		records = []types.SelectedPaper{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WritePapersCSV writes papers in dump format with a header row.
func WritePapersCSV(w io.Writer, papers []types.Paper) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dumpColumns); err != nil {
		return err
	}
	if err := writePaperRows(cw, papers); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// AppendCSV appends papers to the dump at path, writing the header first
// when the file is new or empty. An existing file must have been written
// in dump column order.
func AppendCSV(path string, papers []types.Paper) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dump directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(dumpColumns); err != nil {
			return err
		}
	}
	if err := writePaperRows(cw, papers); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return f.Close()
}

func writePaperRows(cw *csv.Writer, papers []types.Paper) error {
	for _, p := range papers {
		row := []string{
			p.Researcher,
			strconv.Itoa(p.Year),
			p.Title,
			p.Abstract,
			p.Authors,
			strconv.Itoa(p.Citations),
			p.FirstAuthor,
			p.LastAuthor,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
