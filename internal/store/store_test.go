// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-select/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Dir: filepath.Join(t.TempDir(), "history"), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(researcher, title, abstract string, year int) types.SelectedPaper {
	return types.SelectedPaper{
		Researcher:  researcher,
		Title:       title,
		Year:        year,
		Citations:   year - 2000,
		FirstAuthor: researcher,
		LastAuthor:  "Co Author",
		Abstract:    abstract,
	}
}

func sampleRun() Run {
	return Run{
		Input:      "dump.csv",
		Similarity: "tfidf",
		Config:     types.DefaultSelectionConfig(),
		Records: []types.SelectedPaper{
			record("Jane Doe", "Graph neural networks", "message passing on graphs", 2024),
			record("Jane Doe", "Reinforcement learning", "policy gradients", 2022),
			record("Sam Roe", "Protein folding", "structure prediction", 2023),
		},
	}
}

func TestSaveRunAndRetrieve(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	assert.Len(t, id, 36, "uuid run id")

	results, err := s.Retrieve(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, id, results[0].RunID)
	assert.Equal(t, "Graph neural networks", results[0].Title)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, 1, results[2].Rank, "rank restarts per researcher")
	assert.Equal(t, 24, results[0].Citations)
	assert.False(t, results[0].RunAt.IsZero())
}

func TestSaveRunKeepsGivenID(t *testing.T) {
	s := testStore(t)
	run := sampleRun()
	run.ID = "fixed-id"
	run.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.SaveRun(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	_, err = s.SaveRun(context.Background(), run)
	assert.Error(t, err, "duplicate run id")

	results, err := s.Retrieve(context.Background(), QueryOptions{RunID: "fixed-id"})
	require.NoError(t, err)
	assert.Len(t, results, 3, "failed save leaves no partial rows")
	assert.True(t, results[0].RunAt.Equal(run.CreatedAt))
}

func TestRetrieveFilters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, Run{Records: []types.SelectedPaper{
		record("Jane Doe", "Graph transformers", "attention over graphs", 2025),
	}})
	require.NoError(t, err)

	tests := []struct {
		name   string
		opts   QueryOptions
		titles []string
	}{
		{"newest run first", QueryOptions{}, []string{
			"Graph transformers", "Graph neural networks", "Reinforcement learning", "Protein folding",
		}},
		{"researcher case-insensitive", QueryOptions{Researcher: "sam roe"}, []string{"Protein folding"}},
		{"run id", QueryOptions{RunID: second}, []string{"Graph transformers"}},
		{"run id prefix", QueryOptions{RunID: second[:8]}, []string{"Graph transformers"}},
		{"text and run", QueryOptions{Query: "graphs", RunID: first}, []string{"Graph neural networks"}},
		{"max results", QueryOptions{MaxResults: 2}, []string{"Graph transformers", "Graph neural networks"}},
		{"no match", QueryOptions{Query: "cryptography"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Retrieve(ctx, tt.opts)
			require.NoError(t, err)
			var got []string
			for _, r := range results {
				got = append(got, r.Title)
			}
			assert.Equal(t, tt.titles, got)
		})
	}
}

func TestRetrieveFullText(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)

	results, err := s.Retrieve(ctx, QueryOptions{Query: "policy"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Reinforcement learning", results[0].Title)

	results, err = s.Retrieve(ctx, QueryOptions{Query: "protein"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sam Roe", results[0].Researcher)
}

func TestRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, Run{Input: "empty.csv", Similarity: "fastembed"})
	require.NoError(t, err)

	runs, err = s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, 0, runs[0].Papers)
	assert.Equal(t, "fastembed", runs[0].Similarity)

	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, 2, runs[1].Researchers)
	assert.Equal(t, 3, runs[1].Papers)
	assert.Equal(t, types.DefaultSelectionConfig(), runs[1].Config)
}

func TestReopenKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	_, err = s.SaveRun(context.Background(), sampleRun())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	results, err := s.Retrieve(context.Background(), QueryOptions{Query: "graphs"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)

	yamlPath, err := s.ExportYAML(ctx, QueryOptions{Researcher: "Jane Doe"}, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "export.yaml"), yamlPath)

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []QueryResult
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "Graph neural networks", fromYAML[0].Title)
	assert.Equal(t, 1, fromYAML[0].Rank)
	assert.Contains(t, string(data), "first_author: Jane Doe")

	jsonPath := filepath.Join(t.TempDir(), "out", "history.json")
	got, err := s.ExportJSON(ctx, QueryOptions{}, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, jsonPath, got)

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []map[string]any
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 3)
	assert.Equal(t, "Protein folding", fromJSON[2]["title"])
	assert.NotEmpty(t, fromJSON[0]["run_id"])
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)
	path, err := s.ExportJSON(context.Background(), QueryOptions{}, "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestRunsRejectsCorruptRows(t *testing.T) {
	ctx := context.Background()

	t.Run("created_at", func(t *testing.T) {
		s := testStore(t)
		id, err := s.SaveRun(ctx, sampleRun())
		require.NoError(t, err)
		_, err = s.db.Exec(`UPDATE runs SET created_at = 'yesterday' WHERE id = ?`, id)
		require.NoError(t, err)

		_, err = s.Runs(ctx)
		assert.ErrorContains(t, err, "parsing created_at")
		_, err = s.Retrieve(ctx, QueryOptions{})
		assert.ErrorContains(t, err, "parsing created_at")
	})

	t.Run("config", func(t *testing.T) {
		s := testStore(t)
		id, err := s.SaveRun(ctx, sampleRun())
		require.NoError(t, err)
		_, err = s.db.Exec(`UPDATE runs SET config = '{"n_papers":' WHERE id = ?`, id)
		require.NoError(t, err)

		_, err = s.Runs(ctx)
		assert.ErrorContains(t, err, "decoding config")
	})
}

// withoutFTS makes stores opened during the test behave as if the driver
// had been built without sqlite_fts5.
func withoutFTS(t *testing.T) {
	t.Helper()
	old := ftsAvailable
	ftsAvailable = func(*sql.DB) (bool, error) { return false, nil }
	t.Cleanup(func() { ftsAvailable = old })
}

func TestReopenWithoutFTSKeepsSaving(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	withoutFTS(t)
	s, err = NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, s.fts)

	_, err = s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)

	results, err := s.Retrieve(ctx, QueryOptions{Query: "graphs"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestReopenWithFTSIndexesEarlierRuns(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	old := ftsAvailable
	ftsAvailable = func(*sql.DB) (bool, error) { return false, nil }
	s, err := NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	require.NoError(t, s.Close())
	ftsAvailable = old

	s, err = NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()
	if !s.fts {
		t.Skip("sqlite3 built without sqlite_fts5")
	}

	results, err := s.Retrieve(ctx, QueryOptions{Query: "graphs"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Graph neural networks", results[0].Title)
}
