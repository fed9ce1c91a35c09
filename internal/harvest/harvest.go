// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest builds a paper dump for a researcher by querying
// academic APIs for the works of the best-matching author record.
package harvest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/samber/lo"

	"github.com/pdiddy/scholar-select/pkg/types"
)

// Backend fetches one researcher's works from a single API. Each backend
// (Semantic Scholar, OpenAlex) implements this interface per the Strategy
// pattern.
type Backend interface {
	Name() string
	AuthorWorks(ctx context.Context, researcher string, cfg types.HarvestConfig) ([]types.Paper, error)
}

// ErrAuthorNotFound is returned by a backend whose author search is empty.
var ErrAuthorNotFound = errors.New("author not found")

// Output holds harvested papers and merge statistics.
type Output struct {
	Papers        []types.Paper
	DupsRemoved   int
	BackendErrors []string
}

// Backends returns the default backends built from cfg.
func Backends(client *http.Client, cfg types.HarvestConfig) []Backend {
	return []Backend{
		&SemanticScholarBackend{Client: client, APIKey: cfg.SemanticScholarAPIKey},
		&OpenAlexBackend{Client: client, Email: cfg.OpenAlexEmail},
	}
}

// Harvest queries all backends concurrently and merges their papers.
// Backend failures are reported to w and collected; Harvest fails only
// when every backend failed. Papers without a publication year, or
// published before cfg.SinceYear, are dropped. The result is stamped with
// researcher and sorted by year then citations, both descending.
func Harvest(ctx context.Context, researcher string, backends []Backend, cfg types.HarvestConfig, w io.Writer) (Output, error) {
	researcher = strings.TrimSpace(researcher)
	if researcher == "" {
		return Output{}, fmt.Errorf("researcher name is empty")
	}
	if len(backends) == 0 {
		return Output{}, fmt.Errorf("no harvest backends configured")
	}

	type backendResult struct {
		papers []types.Paper
		err    error
		name   string
	}

	ch := make(chan backendResult, len(backends))
	var wg sync.WaitGroup
	for _, b := range backends {
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			papers, err := b.AuthorWorks(ctx, researcher, cfg)
			ch <- backendResult{papers: papers, err: err, name: b.Name()}
		}(b)
	}
	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.Paper
	var backendErrors []string
	for br := range ch {
		if br.err != nil {
			backendErrors = append(backendErrors, fmt.Sprintf("%s: %v", br.name, br.err))
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", br.name, br.err)
			continue
		}
		fmt.Fprintf(w, "%s: %d works\n", br.name, len(br.papers))
		all = append(all, br.papers...)
	}
	slices.Sort(backendErrors)

	if len(backendErrors) == len(backends) {
		return Output{BackendErrors: backendErrors}, fmt.Errorf("all backends failed: %s", strings.Join(backendErrors, "; "))
	}

	all = lo.Filter(all, func(p types.Paper, _ int) bool {
		return p.Year > 0 && p.Year >= cfg.SinceYear
	})

	merged, removed := deduplicate(all)
	for i := range merged {
		merged[i].Researcher = researcher
	}
	slices.SortStableFunc(merged, func(a, b types.Paper) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return cmp.Compare(b.Citations, a.Citations)
	})

	return Output{
		Papers:        merged,
		DupsRemoved:   removed,
		BackendErrors: backendErrors,
	}, nil
}

// deduplicate merges papers sharing a normalized title. Papers with an
// empty normalized title are kept as they are.
func deduplicate(papers []types.Paper) ([]types.Paper, int) {
	seen := make(map[string]int)
	var out []types.Paper
	removed := 0

	for _, p := range papers {
		key := normalizeTitle(p.Title)
		if key != "" {
			if idx, ok := seen[key]; ok {
				mergeInto(&out[idx], p)
				removed++
				continue
			}
			seen[key] = len(out)
		}
		out = append(out, p)
	}
	return out, removed
}

// mergeInto fills empty fields of dst from src and keeps the higher
// citation count.
func mergeInto(dst *types.Paper, src types.Paper) {
	if dst.Abstract == "" {
		dst.Abstract = src.Abstract
	}
	if dst.Authors == "" {
		dst.Authors = src.Authors
		dst.FirstAuthor = src.FirstAuthor
		dst.LastAuthor = src.LastAuthor
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	dst.Citations = max(dst.Citations, src.Citations)
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// withAuthors sets the display author list and the first and last author
// from an ordered list of names.
func withAuthors(p types.Paper, names []string) types.Paper {
	names = lo.Compact(lo.Map(names, func(n string, _ int) string { return strings.TrimSpace(n) }))
	if len(names) == 0 {
		return p
	}
	p.Authors = strings.Join(names, ", ")
	p.FirstAuthor = names[0]
	p.LastAuthor = names[len(names)-1]
	return p
}

func maxResults(cfg types.HarvestConfig, limit int) int {
	n := cfg.MaxResults
	if n <= 0 {
		n = 100
	}
	return min(n, limit)
}
