// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scholar-select pipeline:
// paper records loaded from a dump, the public projection of a selected paper,
// and the configuration of each stage.
package types

// Paper is one row of a paper dump. A paper's identity is its position in
// the collection it was loaded into; the selector never mutates it.
type Paper struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Abstract is the paper abstract. Papers with a blank abstract are
	// excluded from selection.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors is the author list as a single display string
	// (e.g. "J. Doe, A. Smith").
	Authors string `json:"authors" yaml:"authors"`

	// Citations is the citation count (never negative).
	Citations int `json:"citations" yaml:"citations"`

	// FirstAuthor is the first listed author.
	FirstAuthor string `json:"first_author" yaml:"first_author"`

	// LastAuthor is the last listed author.
	LastAuthor string `json:"last_author" yaml:"last_author"`

	// Researcher is the researcher the dump row was collected for. It is
	// informational; selection filters on FirstAuthor and LastAuthor.
	Researcher string `json:"researcher,omitempty" yaml:"researcher,omitempty"`
}

// SelectedPaper is the public projection of a selected paper, stamped with
// the researcher it was selected for. Field order matches the CSV column
// order written by the dataset package.
type SelectedPaper struct {
	Researcher  string `json:"researcher" yaml:"researcher"`
	Title       string `json:"title" yaml:"title"`
	Year        int    `json:"year" yaml:"year"`
	Citations   int    `json:"citations" yaml:"citations"`
	FirstAuthor string `json:"first_author" yaml:"first_author"`
	LastAuthor  string `json:"last_author" yaml:"last_author"`
	Abstract    string `json:"abstract" yaml:"abstract"`
}
