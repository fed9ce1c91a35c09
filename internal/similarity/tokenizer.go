// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	_ "embed"
	"regexp"
	"strings"
	"unicode/utf8"
)

//go:embed stopwords.txt
var stopWordsText string

var stopWords = func() map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(stopWordsText) {
		words[w] = true
	}
	return words
}()

// nonToken matches anything that is not a letter, digit, space, or hyphen
// in any script.
var nonToken = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)

// Tokenize lowercases text, strips punctuation, splits hyphenated words,
// and drops single-character tokens and English stop words.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	text = nonToken.ReplaceAllString(strings.ToLower(text), " ")
	text = strings.ReplaceAll(text, "-", " ")

	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) > 1 && !stopWords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// termCounts returns the frequency of each token.
func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}
