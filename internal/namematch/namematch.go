// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package namematch decides whether two author names refer to the same
// researcher. Names are compared after normalization using several fuzzy
// strategies: whole-string ratio, token-sorted ratio, token-set ratio, and
// a last-name-plus-initials rule for abbreviated given names.
package namematch

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the minimum similarity (0-100) for a fuzzy match.
const DefaultThreshold = 80

// Default is a Matcher using DefaultThreshold.
var Default = Matcher{Threshold: DefaultThreshold}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// Matcher compares names with a fixed similarity threshold.
type Matcher struct {
	// Threshold is the minimum ratio (0-100) accepted by the fuzzy
	// strategies. Zero uses DefaultThreshold.
	Threshold int
}

// New returns a Matcher with the given threshold. Values outside 1-100
// fall back to DefaultThreshold.
func New(threshold int) Matcher {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return Matcher{Threshold: threshold}
}

// Normalize lowercases name, replaces punctuation with spaces, and
// collapses runs of whitespace.
func Normalize(name string) string {
	name = nonWord.ReplaceAllString(strings.ToLower(name), " ")
	return strings.Join(strings.Fields(name), " ")
}

// Match reports whether a and b name the same person. It is symmetric and
// returns false when either name is blank.
func (m Matcher) Match(a, b string) bool {
	threshold := m.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	if Ratio(a, b) >= threshold ||
		TokenSortRatio(a, b) >= threshold ||
		TokenSetRatio(a, b) >= threshold {
		return true
	}

	return initialsMatch(a, b, threshold)
}

// initialsMatch handles "j doe" versus "john doe": last names must be
// similar and the initials of all preceding tokens identical.
func initialsMatch(a, b string, threshold int) bool {
	pa, pb := strings.Fields(a), strings.Fields(b)
	if len(pa) < 2 || len(pb) < 2 {
		return false
	}
	if Ratio(pa[len(pa)-1], pb[len(pb)-1]) < threshold {
		return false
	}
	return initials(pa[:len(pa)-1]) == initials(pb[:len(pb)-1])
}

func initials(parts []string) string {
	var sb strings.Builder
	for _, p := range parts {
		r, _ := utf8.DecodeRuneInString(p)
		sb.WriteRune(r)
	}
	return sb.String()
}

// Ratio returns the Levenshtein similarity of a and b on a 0-100 scale:
// 100·(1 − distance/longer length), rounded. An empty operand yields 0.
//
// This is not the Indel ratio 2·LCS/(len a + len b) used by thefuzz and
// rapidfuzz. A substitution costs 1 here and 2 there, so Ratio scores
// transpositions lower: "jane smiht" against "jane smith" is 80 here and
// 90 under thefuzz. Thresholds tuned for thefuzz may need lowering.
func Ratio(a, b string) int {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	maxLen := max(la, lb)
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(maxLen))))
}

// TokenSortRatio compares a and b after sorting their tokens, so word
// order does not matter ("doe john" matches "john doe").
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(strings.Fields(a)), sortedTokens(strings.Fields(b)))
}

// TokenSetRatio compares the shared tokens of a and b against each side's
// full token set. A name whose tokens are a subset of the other scores 100.
func TokenSetRatio(a, b string) int {
	setA, setB := tokenSet(a), tokenSet(b)

	var common, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}

	t0 := sortedTokens(common)
	t1 := strings.TrimSpace(t0 + " " + sortedTokens(onlyA))
	t2 := strings.TrimSpace(t0 + " " + sortedTokens(onlyB))

	return max(Ratio(t0, t1), Ratio(t0, t2), Ratio(t1, t2))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

func sortedTokens(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}
