// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector picks a researcher's most representative recent papers.
//
// Candidates are the researcher's first- or last-authored papers inside a
// recency window. Each gets an immutable base score blending recency and
// citation impact; papers are then chosen greedily by a working score that
// is re-derived every round from the base score and a bounded penalty for
// similarity to the papers already chosen.
package selector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/scholar-select/internal/namematch"
	"github.com/pdiddy/scholar-select/pkg/types"
)

// recencyDecay is the exponential decay rate per year (half-life ≈ 1.39 years).
const recencyDecay = 0.5

// topK is how many of the strongest similarities to selected papers are
// averaged into the penalty.
const topK = 3

// NameMatcher decides whether an author field names the researcher.
type NameMatcher interface {
	Match(a, b string) bool
}

// SimilarityBackend returns a square, symmetric similarity matrix for docs.
type SimilarityBackend interface {
	Matrix(ctx context.Context, docs []string) ([][]float64, error)
}

// Options configures a selection. Use DefaultOptions and override fields.
type Options struct {
	types.SelectionConfig

	// CurrentYear anchors the recency window and score. Zero uses the
	// clock's current year.
	CurrentYear int

	// Matcher filters by authorship. Nil uses namematch with
	// SelectionConfig.NameThreshold.
	Matcher NameMatcher

	// Similarity computes content similarity between candidates. Required.
	Similarity SimilarityBackend

	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns options with the selector defaults and no
// similarity backend.
func DefaultOptions() Options {
	return Options{SelectionConfig: types.DefaultSelectionConfig()}
}

// Selection is a chosen paper with the scores that ranked it.
type Selection struct {
	// Index is the paper's position in the input slice.
	Index int

	Paper types.Paper

	// Recency is exp(-0.5·years_ago), in (0, 1].
	Recency float64

	// Citation is log1p(citations) normalized by the pool maximum, in [0, 1].
	Citation float64

	// Base is Alpha·Recency + Beta·Citation.
	Base float64

	// Final is the diversity-adjusted score the paper had when picked.
	Final float64
}

// Record projects the selection to its public fields, stamped with researcher.
func (s Selection) Record(researcher string) types.SelectedPaper {
	return types.SelectedPaper{
		Researcher:  researcher,
		Title:       s.Paper.Title,
		Year:        s.Paper.Year,
		Citations:   s.Paper.Citations,
		FirstAuthor: s.Paper.FirstAuthor,
		LastAuthor:  s.Paper.LastAuthor,
		Abstract:    s.Paper.Abstract,
	}
}

// Records projects selections in order.
func Records(selections []Selection, researcher string) []types.SelectedPaper {
	out := make([]types.SelectedPaper, len(selections))
	for i, s := range selections {
		out[i] = s.Record(researcher)
	}
	return out
}

// candidate is the per-paper working state of one selection call.
type candidate struct {
	index    int
	recency  float64
	citation float64
	base     float64
	final    float64
}

// Select returns up to opts.NPapers of researcher's papers in pick order.
// An empty candidate pool is not an error: Select logs it and returns an
// empty slice. Invalid options, malformed papers, and similarity failures
// are returned as errors.
func Select(ctx context.Context, papers []types.Paper, researcher string, opts Options) ([]Selection, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := validatePapers(papers); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = namematch.New(opts.NameThreshold)
	}
	currentYear := opts.CurrentYear
	if currentYear == 0 {
		currentYear = time.Now().Year()
	}

	pool := filter(papers, researcher, matcher, currentYear-opts.RecencyWindowYears)
	if len(pool) == 0 {
		logger.Info("no papers found",
			"researcher", researcher,
			"window_years", opts.RecencyWindowYears)
		return []Selection{}, nil
	}
	if opts.NPapers == 0 {
		return []Selection{}, nil
	}

	cands := score(papers, pool, currentYear, opts.Alpha, opts.Beta)

	docs := make([]string, len(pool))
	for i, idx := range pool {
		docs[i] = blob(papers[idx])
	}
	sim, err := opts.Similarity.Matrix(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("computing similarity for %s: %w", researcher, err)
	}
	if err := checkMatrix(sim, len(docs)); err != nil {
		return nil, err
	}

	order := greedy(cands, sim, opts.NPapers, opts.PenaltyWeight)

	out := make([]Selection, len(order))
	for i, pick := range order {
		c := cands[pick.pos]
		out[i] = Selection{
			Index:    c.index,
			Paper:    papers[c.index],
			Recency:  c.recency,
			Citation: c.citation,
			Base:     c.base,
			Final:    pick.final,
		}
	}

	logger.Debug("selected papers",
		"researcher", researcher,
		"pool", len(pool),
		"selected", len(out))
	return out, nil
}

// filter returns the input indices of papers in the window, authored first
// or last by researcher, with a non-blank abstract.
func filter(papers []types.Paper, researcher string, m NameMatcher, minYear int) []int {
	var pool []int
	for i, p := range papers {
		if p.Year < minYear {
			continue
		}
		if strings.TrimSpace(p.Abstract) == "" {
			continue
		}
		if !m.Match(p.FirstAuthor, researcher) && !m.Match(p.LastAuthor, researcher) {
			continue
		}
		pool = append(pool, i)
	}
	return pool
}

// score computes the immutable score triple for each pooled paper.
func score(papers []types.Paper, pool []int, currentYear int, alpha, beta float64) []candidate {
	cands := make([]candidate, len(pool))
	logCitations := make([]float64, len(pool))

	maxLog := math.Inf(-1)
	for i, idx := range pool {
		logCitations[i] = math.Log1p(float64(papers[idx].Citations))
		maxLog = math.Max(maxLog, logCitations[i])
	}
	if math.IsNaN(maxLog) || maxLog <= 0 {
		maxLog = 1.0
	}

	for i, idx := range pool {
		yearsAgo := max(currentYear-papers[idx].Year, 0)
		c := candidate{
			index:    idx,
			recency:  math.Exp(-recencyDecay * float64(yearsAgo)),
			citation: logCitations[i] / maxLog,
		}
		c.base = alpha*c.recency + beta*c.citation
		c.final = c.base
		cands[i] = c
	}
	return cands
}

// blob is the text compared for similarity: title, abstract, and authors.
func blob(p types.Paper) string {
	return p.Title + " " + p.Abstract + " " + p.Authors
}

func checkMatrix(sim [][]float64, n int) error {
	if len(sim) != n {
		return fmt.Errorf("similarity matrix has %d rows, want %d", len(sim), n)
	}
	for i, row := range sim {
		if len(row) != n {
			return fmt.Errorf("similarity matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	for i := range sim {
		for j := i; j < n; j++ {
			v, w := sim[i][j], sim[j][i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("similarity matrix entry (%d,%d) is not finite: %v", i, j, v)
			}
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("similarity matrix entry (%d,%d) is not finite: %v", j, i, w)
			}
			if math.Abs(v-w) > symmetryTolerance {
				return fmt.Errorf("similarity matrix is not symmetric at (%d,%d): %v != %v", i, j, v, w)
			}
		}
	}
	return nil
}

// symmetryTolerance absorbs float32 rounding in embedding backends.
const symmetryTolerance = 1e-6

// pick records which candidate was chosen in a round and its score then.
type pick struct {
	pos   int
	final float64
}

// greedy repeatedly takes the remaining candidate with the highest final
// score, then re-derives every remaining final score from its base score
// and its similarity to all picks so far. Ties go to the lowest position,
// which is the earliest paper in input order.
func greedy(cands []candidate, sim [][]float64, n int, penaltyWeight float64) []pick {
	remaining := make([]int, len(cands))
	for i := range remaining {
		remaining[i] = i
	}

	var picks []pick
	var selected []int
	for len(picks) < n && len(remaining) > 0 {
		best := 0
		for k := 1; k < len(remaining); k++ {
			if cands[remaining[k]].final > cands[remaining[best]].final {
				best = k
			}
		}

		chosen := remaining[best]
		picks = append(picks, pick{pos: chosen, final: cands[chosen].final})
		selected = append(selected, chosen)
		remaining = append(remaining[:best], remaining[best+1:]...)

		for _, r := range remaining {
			p := Penalty(topKMean(sim[r], selected), penaltyWeight)
			cands[r].final = cands[r].base * (1 - p)
		}
	}
	return picks
}

// topKMean averages the topK largest similarities between row and the
// selected positions, or all of them when fewer are selected.
func topKMean(row []float64, selected []int) float64 {
	sims := make([]float64, len(selected))
	for i, s := range selected {
		sims[i] = row[s]
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sims)))
	if len(sims) > topK {
		sims = sims[:topK]
	}

	var sum float64
	for _, s := range sims {
		sum += s
	}
	return sum / float64(len(sims))
}

// Penalty maps a similarity to [0, 1) through a sigmoid shifted to pass
// through the origin: 2/(1+exp(-w·sim)) - 1. Negative similarity is
// treated as zero so the penalty never raises a score.
func Penalty(sim, weight float64) float64 {
	sim = math.Max(sim, 0)
	return 2.0/(1.0+math.Exp(-weight*sim)) - 1.0
}
