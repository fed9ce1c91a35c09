// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selector

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/scholar-select/pkg/types"
)

// BatchResult holds the selections for one researcher of a batch.
type BatchResult struct {
	Researcher string
	Selections []Selection
}

// SelectAll runs Select for each researcher in order over the same paper
// collection and writes a progress line per researcher to w. The first
// error aborts the batch.
func SelectAll(ctx context.Context, papers []types.Paper, researchers []string, opts Options, w io.Writer) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(researchers))
	for i, r := range researchers {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		fmt.Fprintf(w, "processing researcher %d/%d: %s\n", i+1, len(researchers), r)
		sel, err := Select(ctx, papers, r, opts)
		if err != nil {
			return results, fmt.Errorf("selecting papers for %s: %w", r, err)
		}
		if len(sel) > 0 {
			fmt.Fprintf(w, "  selected %d papers\n", len(sel))
		}
		results = append(results, BatchResult{Researcher: r, Selections: sel})
	}
	return results, nil
}

// Flatten concatenates the public records of every batch result.
func Flatten(results []BatchResult) []types.SelectedPaper {
	var out []types.SelectedPaper
	for _, r := range results {
		out = append(out, Records(r.Selections, r.Researcher)...)
	}
	return out
}
