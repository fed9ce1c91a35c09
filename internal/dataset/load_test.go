// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-select/pkg/types"
)

const header = "researcher,year,title,abstract,authors,citations,first_author,last_author\n"

func TestLoadCSV(t *testing.T) {
	in := header +
		`J. Doe,2023,Graph networks,"An abstract, with a comma","J. Doe, A. Smith",50,J. Doe,A. Smith` + "\n" +
		`J. Doe,2021.0,Older work,Text,J. Doe,12.0,J. Doe,J. Doe` + "\n" +
		`A. Smith,2024,No citations yet,Text,A. Smith,,A. Smith,A. Smith` + "\n"

	papers, err := LoadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, papers, 3)

	assert.Equal(t, types.Paper{
		Title:       "Graph networks",
		Year:        2023,
		Abstract:    "An abstract, with a comma",
		Authors:     "J. Doe, A. Smith",
		Citations:   50,
		FirstAuthor: "J. Doe",
		LastAuthor:  "A. Smith",
		Researcher:  "J. Doe",
	}, papers[0])
	assert.Equal(t, 2021, papers[1].Year)
	assert.Equal(t, 12, papers[1].Citations)
	assert.Equal(t, 0, papers[2].Citations, "empty citations read as zero")
}

func TestLoadCSVColumnOrderAndExtras(t *testing.T) {
	in := "Citations,last_author,first_author,authors,abstract,title,year,venue\n" +
		"7,B,A,\"A, B\",abs,T,2022,NeurIPS\n"

	papers, err := LoadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, 7, papers[0].Citations)
	assert.Equal(t, "A", papers[0].FirstAuthor)
	assert.Equal(t, "B", papers[0].LastAuthor)
	assert.Empty(t, papers[0].Researcher)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	in := "year,title,abstract,authors,first_author,last_author\n2024,t,a,x,x,x\n"
	_, err := LoadCSV(strings.NewReader(in))
	assert.ErrorContains(t, err, `"citations"`)
}

func TestLoadCSVRowErrors(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		field string
	}{
		{"empty year", ",t,a,x,0,x,x", ColYear},
		{"text year", "soon,t,a,x,0,x,x", ColYear},
		{"fractional year", "2021.5,t,a,x,0,x,x", ColYear},
		{"negative citations", "2024,t,a,x,-4,x,x", ColCitations},
		{"text citations", "2024,t,a,x,many,x,x", ColCitations},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "year,title,abstract,authors,citations,first_author,last_author\n" +
				"2024,ok,a,x,1,x,x\n" + tt.row + "\n"

			_, err := LoadCSV(strings.NewReader(in))
			var rerr *RowError
			require.True(t, errors.As(err, &rerr), "got %v", err)
			assert.Equal(t, 1, rerr.Row)
			assert.Equal(t, tt.field, rerr.Field)
			assert.Contains(t, err.Error(), "row 1")
		})
	}
}

func TestLoadCSVEmptyInput(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty input")
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"R,2024,t,a,x,3,x,y\n"), 0o644))

	papers, err := LoadCSVFile(path)
	require.NoError(t, err)
	assert.Len(t, papers, 1)

	_, err = LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "opening paper dump")
}

func TestResearchers(t *testing.T) {
	papers := []types.Paper{
		{Researcher: "B"},
		{Researcher: "A"},
		{Researcher: ""},
		{Researcher: "B"},
		{Researcher: "C"},
	}
	assert.Equal(t, []string{"B", "A", "C"}, Researchers(papers))
	assert.Empty(t, Researchers(nil))
}
