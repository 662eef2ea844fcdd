package search

import (
	"math"
	"sort"
	"sync"

	apperrors "github.com/knowledge-engine/movierec/internal/errors"
)

// SearchResult holds a matching document and its score
type SearchResult struct {
	Document *Document
	Score    float64
}

// VectorStore holds the training corpus and its fitted TF-IDF caches.
// Caches are rebuilt only by Index and are read-only otherwise.
type VectorStore struct {
	mu         sync.RWMutex
	documents  []*Document
	byID       map[string]*Document
	vectorizer *TFIDFVectorizer
}

func NewVectorStore() *VectorStore {
	return &VectorStore{
		documents:  make([]*Document, 0),
		byID:       make(map[string]*Document),
		vectorizer: NewTFIDFVectorizer(),
	}
}

// Index replaces the corpus with docs (Tokens already set) and refits the
// vectorizer. Corpus order is the order of docs. Duplicate ids are rejected
// and leave the previous corpus untouched.
func (vs *VectorStore) Index(docs []*Document) error {
	byID := make(map[string]*Document, len(docs))
	for i, d := range docs {
		if _, dup := byID[d.ID]; dup {
			return apperrors.NewInvalidInputError("corpus", i+1, "duplicate document id '"+d.ID+"'", nil)
		}
		byID[d.ID] = d
	}

	vectorizer := NewTFIDFVectorizer()
	vectorizer.Fit(docs)

	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.documents = append([]*Document(nil), docs...)
	vs.byID = byID
	vs.vectorizer = vectorizer
	return nil
}

// Transform weights query tokens against the corpus IDF
func (vs *VectorStore) Transform(tokens []string) Vector {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.vectorizer.Transform(tokens)
}

// Vector returns the cached TF-IDF vector of a training document
func (vs *VectorStore) Vector(id string) (Vector, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	d, ok := vs.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(id)
	}
	return d.Vector, nil
}

// Search ranks the corpus against query, skipping excludeID
func (vs *VectorStore) Search(query Vector, excludeID string, topK int) []SearchResult {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return Rank(query, vs.documents, excludeID, topK)
}

// Len returns the number of indexed documents
func (vs *VectorStore) Len() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.documents)
}

// VocabularySize returns the number of distinct terms in the IDF table
func (vs *VectorStore) VocabularySize() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.vectorizer.IDF)
}

// IDF returns a copy of the fitted IDF table
func (vs *VectorStore) IDF() IDF {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	table := make(IDF, len(vs.vectorizer.IDF))
	for term, w := range vs.vectorizer.IDF {
		table[term] = w
	}
	return table
}

// Rank scores every document except excludeID against query and returns
// the topK best, most similar first. Ties keep the order of docs.
func Rank(query Vector, docs []*Document, excludeID string, topK int) []SearchResult {
	if topK <= 0 {
		return []SearchResult{}
	}

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == excludeID {
			continue
		}
		results = append(results, SearchResult{
			Document: doc,
			Score:    CosineSimilarity(query, doc.Vector),
		})
	}

	// Sort by descending score
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		return results[:topK]
	}
	return results
}

// IDs returns the document ids of results in order
func IDs(results []SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Document.ID
	}
	return ids
}

// CosineSimilarity calculates the cosine similarity between two sparse
// vectors over the union of their terms. Zero vectors score 0.
func CosineSimilarity(a, b Vector) float64 {
	var dotProduct, normA, normB float64
	for term, x := range a {
		dotProduct += x * b[term]
		normA += x * x
	}
	for _, y := range b {
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
