package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knowledge-engine/movierec/internal/search"
)

func stopwords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func TestRemoveStopwords(t *testing.T) {
	p := search.NewPreprocessor(stopwords("the", "a"), nil)

	assert.Equal(t, "movie is story", p.RemoveStopwords("the movie is a story"))
	// Matching ignores case
	assert.Equal(t, "movie", p.RemoveStopwords("The movie A"))
	assert.Equal(t, "", p.RemoveStopwords("   "))
}

func TestRemovePunctuation(t *testing.T) {
	assert.Equal(t, "dont stopmotion", search.RemovePunctuation("don't stop-motion!"))
	assert.Equal(t, "a  b", search.RemovePunctuation("a ... b"))
	// Non-ASCII symbols are kept
	assert.Equal(t, "café–noir", search.RemovePunctuation("café–noir"))
}

func TestPreprocess(t *testing.T) {
	p := search.NewPreprocessor(stopwords("the", "a", "of"), nil)

	tokens := p.Preprocess("The story of a boy, running from aliens!")
	assert.Equal(t, []string{"story", "boy", "runn", "from", "alien"}, tokens)
}

func TestPreprocess_StopwordsBeforePunctuation(t *testing.T) {
	p := search.NewPreprocessor(stopwords("the"), nil)

	// "the," is not an exact stopword match, so it survives as "the"
	assert.Equal(t, []string{"the", "end"}, p.Preprocess("the, end"))
}

func TestPreprocess_Idempotent(t *testing.T) {
	p := search.NewPreprocessor(stopwords("the", "a"), nil)

	once := p.Preprocess("space battle saga")
	assert.Equal(t, []string{"space", "battle", "saga"}, once)

	text := ""
	for i, tok := range once {
		if i > 0 {
			text += " "
		}
		text += tok
	}
	assert.Equal(t, once, p.Preprocess(text))
}

func TestPreprocess_Empty(t *testing.T) {
	p := search.NewPreprocessor(stopwords("the"), nil)

	assert.Empty(t, p.Preprocess(""))
	assert.Empty(t, p.Preprocess("the the"))
	assert.Empty(t, p.Preprocess("!!! ..."))
}

func TestPreprocess_SuffixOnlyTokensDropped(t *testing.T) {
	p := search.NewPreprocessor(nil, nil)

	assert.Equal(t, []string{"cat"}, p.Preprocess("s cat ing"))
}
