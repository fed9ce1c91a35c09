// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store records selection runs in a SQLite database and supports
// full-text search over the papers each run selected.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-select/pkg/types"
)

const dbFile = "scholar.db"

// timeFormat sorts lexically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Store manages the selection history database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int

	// fts is false when the driver was built without FTS5; text queries
	// then fall back to LIKE matching.
	fts bool
}

// Run is one invocation of the selector over a paper dump.
type Run struct {
	// ID is assigned by SaveRun when empty.
	ID string `json:"id" yaml:"id"`

	// CreatedAt defaults to the save time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Input names the paper dump the run read.
	Input string `json:"input" yaml:"input"`

	// Similarity names the similarity backend used.
	Similarity string `json:"similarity" yaml:"similarity"`

	Config types.SelectionConfig `json:"config" yaml:"config"`

	// Records holds every researcher's selections, each researcher's
	// papers in pick order.
	Records []types.SelectedPaper `json:"records,omitempty" yaml:"records,omitempty"`
}

// NewStore opens or creates the database at cfg.Dir/scholar.db. It creates
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			input TEXT,
			similarity TEXT,
			config TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS selections (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			researcher TEXT NOT NULL,
			title TEXT,
			year INTEGER,
			citations INTEGER,
			first_author TEXT,
			last_author TEXT,
			abstract TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_selections_run_id ON selections(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_selections_researcher ON selections(researcher COLLATE NOCASE)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return s.syncFTS()
}

var ftsTriggers = []struct{ name, sql string }{
	{"selections_ai", `CREATE TRIGGER IF NOT EXISTS selections_ai AFTER INSERT ON selections BEGIN
		INSERT INTO selections_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
	END`},
	{"selections_ad", `CREATE TRIGGER IF NOT EXISTS selections_ad AFTER DELETE ON selections BEGIN
		INSERT INTO selections_fts(selections_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
	END`},
	{"selections_au", `CREATE TRIGGER IF NOT EXISTS selections_au AFTER UPDATE ON selections BEGIN
		INSERT INTO selections_fts(selections_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
		INSERT INTO selections_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
	END`},
}

// ftsAvailable reports whether the linked SQLite has FTS5 compiled in.
// Tests replace it to simulate a driver built without sqlite_fts5.
var ftsAvailable = func(db *sql.DB) (bool, error) {
	var used int
	if err := db.QueryRow(`SELECT sqlite_compileoption_used('ENABLE_FTS5')`).Scan(&used); err != nil {
		return false, fmt.Errorf("checking FTS5 support: %w", err)
	}
	return used == 1, nil
}

// syncFTS brings the full-text index in line with the running driver. The
// same database may be opened by binaries built with and without FTS5:
// without it the sync triggers are dropped so inserts keep working; with it
// the table and triggers are (re)created and the index rebuilt whenever
// rows may have been written while the triggers were absent.
func (s *Store) syncFTS() error {
	ok, err := ftsAvailable(s.db)
	if err != nil {
		return err
	}
	if !ok {
		for _, tr := range ftsTriggers {
			if _, err := s.db.Exec(`DROP TRIGGER IF EXISTS ` + tr.name); err != nil {
				return fmt.Errorf("dropping FTS trigger %s: %w", tr.name, err)
			}
		}
		s.fts = false
		return nil
	}

	var tables, triggers int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='selections_fts'`,
	).Scan(&tables); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='trigger' AND name IN ('selections_ai', 'selections_ad', 'selections_au')`,
	).Scan(&triggers); err != nil {
		return fmt.Errorf("checking FTS triggers: %w", err)
	}

	if tables == 0 {
		if _, err := s.db.Exec(`CREATE VIRTUAL TABLE selections_fts USING fts5(title, abstract, content=selections, content_rowid=rowid)`); err != nil {
			return fmt.Errorf("creating FTS table: %w", err)
		}
	}
	for _, tr := range ftsTriggers {
		if _, err := s.db.Exec(tr.sql); err != nil {
			return fmt.Errorf("creating FTS trigger %s: %w", tr.name, err)
		}
	}
	if tables == 0 || triggers < len(ftsTriggers) {
		if _, err := s.db.Exec(`INSERT INTO selections_fts(selections_fts) VALUES('rebuild')`); err != nil {
			return fmt.Errorf("rebuilding FTS index: %w", err)
		}
	}
	s.fts = true
	return nil
}

// SaveRun records run and its selections in one transaction and returns
// the run ID. Each record's rank is its 1-based position among the
// records of the same researcher.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return "", fmt.Errorf("marshaling run config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, input, similarity, config) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeFormat), run.Input, run.Similarity, string(cfgJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO selections (run_id, rank, researcher, title, year, citations, first_author, last_author, abstract)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ranks := make(map[string]int)
	for _, r := range run.Records {
		ranks[r.Researcher]++
		_, err := stmt.ExecContext(ctx,
			run.ID, ranks[r.Researcher], r.Researcher, r.Title, r.Year, r.Citations,
			r.FirstAuthor, r.LastAuthor, r.Abstract,
		)
		if err != nil {
			return "", fmt.Errorf("inserting selection %q: %w", r.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// RunSummary describes a stored run without its records.
type RunSummary struct {
	ID          string                `json:"id" yaml:"id"`
	CreatedAt   time.Time             `json:"created_at" yaml:"created_at"`
	Input       string                `json:"input" yaml:"input"`
	Similarity  string                `json:"similarity" yaml:"similarity"`
	Config      types.SelectionConfig `json:"config" yaml:"config"`
	Researchers int                   `json:"researchers" yaml:"researchers"`
	Papers      int                   `json:"papers" yaml:"papers"`
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.input, r.similarity, r.config,
			COUNT(DISTINCT sel.researcher), COUNT(sel.rowid)
		FROM runs r
		LEFT JOIN selections sel ON sel.run_id = r.id
		GROUP BY r.seq
		ORDER BY r.seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs                       RunSummary
			created                  string
			input, simName, cfgJSON  sql.NullString
		)
		if err := rows.Scan(&rs.ID, &created, &input, &simName, &cfgJSON, &rs.Researchers, &rs.Papers); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if rs.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("run %s: parsing created_at %q: %w", rs.ID, created, err)
		}
		rs.Input = input.String
		rs.Similarity = simName.String
		if cfgJSON.Valid && cfgJSON.String != "" {
			if err := json.Unmarshal([]byte(cfgJSON.String), &rs.Config); err != nil {
				return nil, fmt.Errorf("run %s: decoding config: %w", rs.ID, err)
			}
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}
