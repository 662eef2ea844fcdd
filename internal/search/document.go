package search

import (
	"strings"
)

// Document represents a searchable item
type Document struct {
	ID      string
	Content string   // Raw description
	Tokens  []string // Output of the Preprocessor
	TF      Vector
	Vector  Vector // TF-IDF weights
}

// asciiPunctuation matches Python's string.punctuation
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Preprocessor turns raw text into normalized tokens:
// stopword removal, punctuation stripping, then stemming.
type Preprocessor struct {
	stopwords map[string]struct{}
	stemmer   Stemmer
}

// NewPreprocessor builds a preprocessor around a fixed stopword set.
// A nil stemmer falls back to the default suffix table.
func NewPreprocessor(stopwords map[string]struct{}, stemmer Stemmer) *Preprocessor {
	set := make(map[string]struct{}, len(stopwords))
	for w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	if stemmer == nil {
		stemmer = NewSuffixStemmer()
	}
	return &Preprocessor{
		stopwords: set,
		stemmer:   stemmer,
	}
}

// Preprocess normalizes raw text into its token sequence
func (p *Preprocessor) Preprocess(raw string) []string {
	text := p.RemoveStopwords(raw)
	text = RemovePunctuation(text)
	return p.Stem(text)
}

// RemoveStopwords drops whitespace-separated words found in the stopword set
func (p *Preprocessor) RemoveStopwords(text string) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if _, stop := p.stopwords[strings.ToLower(w)]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// RemovePunctuation deletes ASCII punctuation without inserting separators
func RemovePunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if r < 128 && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, text)
}

// Stem splits text on whitespace and stems every word.
// Words that stem to the empty string are dropped.
func (p *Preprocessor) Stem(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if stem := p.stemmer.Stem(w); stem != "" {
			tokens = append(tokens, stem)
		}
	}
	return tokens
}
