// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/scholar-select/internal/httputil"
	"github.com/pdiddy/scholar-select/pkg/types"
)

// openAlexAPIBase is the OpenAlex API root. Declared as a var so tests can
// substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org"

// openAlexMaxPerPage is the largest page OpenAlex serves.
const openAlexMaxPerPage = 200

// OpenAlexBackend resolves a researcher to an OpenAlex author and lists
// their works.
type OpenAlexBackend struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return "openalex" }

// AuthorWorks returns the works of the top author search hit, newest first.
func (b *OpenAlexBackend) AuthorWorks(ctx context.Context, researcher string, cfg types.HarvestConfig) ([]types.Paper, error) {
	headers := map[string]string{"User-Agent": cfg.UserAgent}

	params := url.Values{
		"search":   {researcher},
		"per_page": {"1"},
	}
	b.polite(params)
	var authors openAlexAuthorSearch
	if err := httputil.GetJSON(ctx, b.Client, openAlexAPIBase+"/authors?"+params.Encode(), headers, &authors); err != nil {
		return nil, fmt.Errorf("searching OpenAlex authors: %w", err)
	}
	if len(authors.Results) == 0 || authors.Results[0].ID == "" {
		return nil, fmt.Errorf("%q: %w", researcher, ErrAuthorNotFound)
	}
	authorID := shortID(authors.Results[0].ID)

	filters := []string{"author.id:" + authorID}
	if cfg.SinceYear > 0 {
		filters = append(filters, fmt.Sprintf("from_publication_date:%d-01-01", cfg.SinceYear))
	}
	params = url.Values{
		"filter":   {strings.Join(filters, ",")},
		"per_page": {strconv.Itoa(maxResults(cfg, openAlexMaxPerPage))},
		"sort":     {"publication_year:desc"},
		"page":     {"1"},
	}
	b.polite(params)

	var oar openAlexWorkList
	if err := httputil.GetJSON(ctx, b.Client, openAlexAPIBase+"/works?"+params.Encode(), headers, &oar); err != nil {
		return nil, fmt.Errorf("listing OpenAlex works: %w", err)
	}

	papers := make([]types.Paper, 0, len(oar.Results))
	for _, work := range oar.Results {
		p := types.Paper{
			Title:     work.Title,
			Year:      work.PublicationYear,
			Abstract:  reconstructAbstract(work.AbstractInvertedIndex),
			Citations: max(work.CitedByCount, 0),
		}
		var names []string
		for _, a := range work.Authorships {
			names = append(names, a.Author.DisplayName)
		}
		papers = append(papers, withAuthors(p, names))
	}
	return papers, nil
}

func (b *OpenAlexBackend) polite(params url.Values) {
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}
}

// shortID strips the https://openalex.org/ prefix from an entity ID.
func shortID(id string) string {
	return id[strings.LastIndex(id, "/")+1:]
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexAuthorSearch struct {
	Results []openAlexAuthor `json:"results"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	WorksCount  int    `json:"works_count"`
}

type openAlexWorkList struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexAuthorship struct {
	AuthorPosition string         `json:"author_position"`
	Author         openAlexAuthor `json:"author"`
}
