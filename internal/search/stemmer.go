package search

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// Stemmer reduces a single token to its stem
type Stemmer interface {
	Stem(token string) string
}

// SuffixRule replaces a trailing Suffix with Replacement
type SuffixRule struct {
	Suffix      string
	Replacement string
}

// DefaultSuffixRules is the ordered table used when no other is configured
var DefaultSuffixRules = []SuffixRule{
	{Suffix: "ing"},
	{Suffix: "ed"},
	{Suffix: "es"},
	{Suffix: "s"},
}

// SuffixStemmer applies the first matching rule whose result is not itself
// one of the table's suffixes. It is a heuristic, not a linguistic stemmer:
// "running" -> "runn", "boss" -> "bos".
type SuffixStemmer struct {
	rules    []SuffixRule
	suffixes map[string]struct{}
}

// NewSuffixStemmer creates a stemmer over rules, checked in order.
// With no rules it uses DefaultSuffixRules.
func NewSuffixStemmer(rules ...SuffixRule) *SuffixStemmer {
	if len(rules) == 0 {
		rules = DefaultSuffixRules
	}
	s := &SuffixStemmer{
		rules:    append([]SuffixRule(nil), rules...),
		suffixes: make(map[string]struct{}, len(rules)),
	}
	for _, r := range rules {
		s.suffixes[r.Suffix] = struct{}{}
	}
	return s
}

func (s *SuffixStemmer) Stem(token string) string {
	for _, r := range s.rules {
		if !strings.HasSuffix(token, r.Suffix) {
			continue
		}
		stem := token[:len(token)-len(r.Suffix)] + r.Replacement
		if _, collides := s.suffixes[stem]; !collides {
			return stem
		}
	}
	return token
}

// SnowballStemmer wraps the Snowball (Porter2) English stemmer
type SnowballStemmer struct{}

func (SnowballStemmer) Stem(token string) string {
	return english.Stem(token, true)
}

// NewStemmer resolves a stemmer by name: "suffix" (default) or "snowball"
func NewStemmer(name string) (Stemmer, bool) {
	switch strings.ToLower(name) {
	case "", "suffix":
		return NewSuffixStemmer(), true
	case "snowball":
		return SnowballStemmer{}, true
	default:
		return nil, false
	}
}
