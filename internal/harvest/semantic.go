// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/scholar-select/internal/httputil"
	"github.com/pdiddy/scholar-select/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API root. Declared as a
// var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

const semanticPaperFields = "title,abstract,year,citationCount,authors"

// semanticMaxLimit is the largest page the author papers endpoint serves.
const semanticMaxLimit = 1000

// SemanticScholarBackend resolves a researcher to a Semantic Scholar
// author and lists their papers.
type SemanticScholarBackend struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() string { return "semantic_scholar" }

// AuthorWorks returns the papers of the top author search hit.
func (b *SemanticScholarBackend) AuthorWorks(ctx context.Context, researcher string, cfg types.HarvestConfig) ([]types.Paper, error) {
	headers := map[string]string{
		"User-Agent": cfg.UserAgent,
		"x-api-key":  b.APIKey,
	}

	params := url.Values{
		"query":  {researcher},
		"fields": {"name,paperCount"},
		"limit":  {"1"},
	}
	var authors semanticAuthorSearch
	if err := httputil.GetJSON(ctx, b.Client, semanticAPIBase+"/author/search?"+params.Encode(), headers, &authors); err != nil {
		return nil, fmt.Errorf("searching Semantic Scholar authors: %w", err)
	}
	if len(authors.Data) == 0 || authors.Data[0].AuthorID == "" {
		return nil, fmt.Errorf("%q: %w", researcher, ErrAuthorNotFound)
	}
	authorID := authors.Data[0].AuthorID

	params = url.Values{
		"fields": {semanticPaperFields},
		"limit":  {strconv.Itoa(maxResults(cfg, semanticMaxLimit))},
	}
	reqURL := semanticAPIBase + "/author/" + url.PathEscape(authorID) + "/papers?" + params.Encode()

	var sr semanticPaperList
	if err := httputil.GetJSON(ctx, b.Client, reqURL, headers, &sr); err != nil {
		return nil, fmt.Errorf("listing Semantic Scholar papers: %w", err)
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, sp := range sr.Data {
		p := types.Paper{
			Title:     sp.Title,
			Year:      sp.Year,
			Abstract:  sp.Abstract,
			Citations: max(sp.CitationCount, 0),
		}
		names := make([]string, len(sp.Authors))
		for i, a := range sp.Authors {
			names[i] = a.Name
		}
		papers = append(papers, withAuthors(p, names))
	}
	return papers, nil
}

// Semantic Scholar API JSON structures.
type semanticAuthorSearch struct {
	Total int              `json:"total"`
	Data  []semanticAuthor `json:"data"`
}

type semanticAuthor struct {
	AuthorID   string `json:"authorId"`
	Name       string `json:"name"`
	PaperCount int    `json:"paperCount"`
}

type semanticPaperList struct {
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string           `json:"paperId"`
	Title         string           `json:"title"`
	Abstract      string           `json:"abstract"`
	Year          int              `json:"year"`
	CitationCount int              `json:"citationCount"`
	Authors       []semanticAuthor `json:"authors"`
}
