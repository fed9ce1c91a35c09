// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package namematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Doe", "john doe"},
		{"  Doe,   John  ", "doe john"},
		{"J.-P. Müller", "j p müller"},
		{"", ""},
		{"...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("doe", "doe"))
	assert.Equal(t, 0, Ratio("", "doe"))
	assert.Equal(t, 0, Ratio("doe", ""))
	// one substitution in eight runes
	assert.Equal(t, 88, Ratio("john doe", "jahn doe"))
}

func TestRatioCountsTranspositionAsTwoEdits(t *testing.T) {
	// thefuzz scores this pair 90; edit distance 2 over 10 runes gives 80
	assert.Equal(t, 80, Ratio("jane smiht", "jane smith"))
	assert.True(t, New(80).Match("Jane Smiht", "Jane Smith"))
	assert.False(t, New(85).Match("Jane Smiht", "Jane Smith"))
}

func TestTokenSortRatioIgnoresOrder(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("doe john", "john doe"))
}

func TestTokenSetRatioSubset(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("john doe", "john michael doe"))
	assert.Equal(t, 0, TokenSetRatio("alice", "bob"))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Jane Smith", "Jane Smith", true},
		{"case and punctuation", "jane smith.", "JANE SMITH", true},
		{"reordered", "Smith, Jane", "Jane Smith", true},
		{"initials", "J. Smith", "Jane Smith", true},
		{"middle name", "Jane Q. Smith", "Jane Smith", true},
		{"typo", "Jane Smiht", "Jane Smith", true},
		{"contained", "Smith", "Jane Smith", true},
		{"different person", "Alan Turing", "Jane Smith", false},
		{"same last name different initials", "R. Smith", "Jane Smith", false},
		{"blank", "", "Jane Smith", false},
		{"punctuation only", "--", "Jane Smith", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Default.Match(tt.a, tt.b))
			assert.Equal(t, tt.want, Default.Match(tt.b, tt.a), "match must be symmetric")
		})
	}
}

func TestNewFallsBackToDefaultThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, New(0).Threshold)
	assert.Equal(t, DefaultThreshold, New(101).Threshold)
	assert.Equal(t, 95, New(95).Threshold)
}

func TestStricterThresholdRejectsTypos(t *testing.T) {
	m := New(95)
	assert.False(t, m.Match("Jane Smiht", "Jane Smythe"))
	assert.True(t, m.Match("Smith, Jane", "Jane Smith"))
}
