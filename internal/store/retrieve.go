// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/scholar-select/pkg/types"
)

// QueryOptions holds parameters for history queries.
type QueryOptions struct {
	// Query is an FTS5 full-text search over title and abstract.
	Query string

	// Researcher filters by researcher name, case-insensitively.
	Researcher string

	// RunID filters by run ID or ID prefix.
	RunID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// QueryResult is a stored selection with its run context.
type QueryResult struct {
	RunID               string    `json:"run_id" yaml:"run_id"`
	RunAt               time.Time `json:"run_at" yaml:"run_at"`
	Rank                int       `json:"rank" yaml:"rank"`
	types.SelectedPaper `yaml:",inline"`
}

// Retrieve queries stored selections with optional full-text search and
// filters. Full-text results are ranked by relevance; otherwise results
// come newest run first, then in stored order. Without FTS5 each query
// term must appear in the title or abstract.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		query  = strings.TrimSpace(opts.Query)
		useFTS = query != "" && s.fts
	)

	const cols = `sel.run_id, r.created_at, sel.rank, sel.researcher, sel.title, sel.year,
		sel.citations, sel.first_author, sel.last_author, sel.abstract`

	if useFTS {
		qb.WriteString(`SELECT ` + cols + `
			FROM selections_fts
			JOIN selections sel ON sel.rowid = selections_fts.rowid
			JOIN runs r ON r.id = sel.run_id
			WHERE selections_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + cols + `
			FROM selections sel
			JOIN runs r ON r.id = sel.run_id
			WHERE 1=1`)
	}

	if query != "" && !s.fts {
		for _, term := range strings.Fields(query) {
			qb.WriteString(` AND (sel.title LIKE ? OR sel.abstract LIKE ?)`)
			like := "%" + term + "%"
			args = append(args, like, like)
		}
	}
	if opts.Researcher != "" {
		qb.WriteString(` AND sel.researcher = ? COLLATE NOCASE`)
		args = append(args, opts.Researcher)
	}
	if opts.RunID != "" {
		qb.WriteString(` AND sel.run_id LIKE ?`)
		args = append(args, opts.RunID+"%")
	}

	if useFTS {
		qb.WriteString(` ORDER BY selections_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.seq DESC, sel.rowid`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying selections: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr      QueryResult
			created string
		)
		if err := rows.Scan(
			&qr.RunID, &created, &qr.Rank, &qr.Researcher, &qr.Title, &qr.Year,
			&qr.Citations, &qr.FirstAuthor, &qr.LastAuthor, &qr.Abstract,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if qr.RunAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("run %s: parsing created_at %q: %w", qr.RunID, created, err)
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}
