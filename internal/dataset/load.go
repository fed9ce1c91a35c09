// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads and writes paper dumps and selection results.
//
// A paper dump is a CSV file with one row per paper and at least the
// columns year, title, abstract, authors, citations, first_author and
// last_author. An optional researcher column names who the row was
// collected for. Column order is free and extra columns are ignored.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/pdiddy/scholar-select/pkg/types"
)

// Dump column names.
const (
	ColResearcher  = "researcher"
	ColYear        = "year"
	ColTitle       = "title"
	ColAbstract    = "abstract"
	ColAuthors     = "authors"
	ColCitations   = "citations"
	ColFirstAuthor = "first_author"
	ColLastAuthor  = "last_author"
)

// RequiredColumns lists the columns every paper dump must carry.
var RequiredColumns = []string{
	ColYear, ColTitle, ColAbstract, ColAuthors, ColCitations, ColFirstAuthor, ColLastAuthor,
}

// dumpColumns is the column order written by WritePapersCSV and AppendCSV.
var dumpColumns = []string{
	ColResearcher, ColYear, ColTitle, ColAbstract, ColAuthors, ColCitations, ColFirstAuthor, ColLastAuthor,
}

// RowError reports an invalid value in a data row. Row is the zero-based
// index of the paper, not the file line.
type RowError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

var (
	errMissing  = errors.New("missing value")
	errNegative = errors.New("must not be negative")
	errFraction = errors.New("not a whole number")
)

// LoadCSVFile opens path and loads it with LoadCSV.
func LoadCSVFile(path string) ([]types.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening paper dump: %w", err)
	}
	defer f.Close()

	papers, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return papers, nil
}

// LoadCSV parses a paper dump. It fails on a missing required column, an
// empty or non-numeric year, or a non-numeric or negative citation count.
// An empty citation count is read as zero. Numbers written as floats with
// no fractional part (2021.0) are accepted.
func LoadCSV(r io.Reader) ([]types.Paper, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("reading header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	for _, c := range RequiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("missing required column %q", c)
		}
	}

	var papers []types.Paper
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		year, err := parseWhole(get(ColYear), false)
		if err != nil {
			return nil, &RowError{Row: row, Field: ColYear, Value: get(ColYear), Err: err}
		}
		citations, err := parseWhole(get(ColCitations), true)
		if err != nil {
			return nil, &RowError{Row: row, Field: ColCitations, Value: get(ColCitations), Err: err}
		}

		papers = append(papers, types.Paper{
			Title:       get(ColTitle),
			Year:        year,
			Abstract:    get(ColAbstract),
			Authors:     get(ColAuthors),
			Citations:   citations,
			FirstAuthor: get(ColFirstAuthor),
			LastAuthor:  get(ColLastAuthor),
			Researcher:  strings.TrimSpace(get(ColResearcher)),
		})
	}
	return papers, nil
}

// parseWhole parses a non-negative whole number, accepting float notation.
// When emptyIsZero is set a blank value reads as 0.
func parseWhole(s string, emptyIsZero bool) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if emptyIsZero {
			return 0, nil
		}
		return 0, errMissing
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("not a number")
		}
		if f != math.Trunc(f) {
			return 0, errFraction
		}
		n = int(f)
	}
	if n < 0 {
		return 0, errNegative
	}
	return n, nil
}

// Researchers returns the distinct non-blank researcher names of papers in
// first-seen order.
func Researchers(papers []types.Paper) []string {
	names := lo.FilterMap(papers, func(p types.Paper, _ int) (string, bool) {
		return p.Researcher, p.Researcher != ""
	})
	return lo.Uniq(names)
}
