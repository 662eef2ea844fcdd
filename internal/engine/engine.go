package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/movierec/internal/config"
	apperrors "github.com/knowledge-engine/movierec/internal/errors"
	"github.com/knowledge-engine/movierec/internal/search"
	"github.com/knowledge-engine/movierec/internal/storage"
)

// Engine orchestrates preprocessing, vectorization and ranking
type Engine struct {
	Config       *config.Config
	Logger       *logrus.Entry
	Preprocessor *search.Preprocessor
	VectorStore  *search.VectorStore
	Storage      storage.RecordStorage // nil disables result records

	mu    sync.RWMutex
	stats EngineStats
}

type EngineStats struct {
	Documents  int
	Vocabulary int
	Queries    int64
	TrainedAt  time.Time
	StartTime  time.Time
}

// NewEngine wires an engine around a stopword set. store may be nil.
func NewEngine(cfg *config.Config, logger *logrus.Entry, stopwords map[string]struct{}, vStore *search.VectorStore, store storage.RecordStorage) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	stemmer, ok := search.NewStemmer(cfg.Preprocess.Stemmer)
	if !ok {
		return nil, fmt.Errorf("unknown stemmer %q", cfg.Preprocess.Stemmer)
	}

	return &Engine{
		Config:       cfg,
		Logger:       logger.WithField("component", "engine"),
		Preprocessor: search.NewPreprocessor(stopwords, stemmer),
		VectorStore:  vStore,
		Storage:      store,
		stats:        EngineStats{StartTime: time.Now()},
	}, nil
}

// Train preprocesses docs and fits the vector store. Either the whole
// corpus is indexed or the previous one stays in place.
func (e *Engine) Train(docs []*search.Document) error {
	start := time.Now()
	for _, d := range docs {
		d.Tokens = e.Preprocessor.Preprocess(d.Content)
	}

	if err := e.VectorStore.Index(docs); err != nil {
		return fmt.Errorf("failed to index corpus: %w", err)
	}

	e.mu.Lock()
	e.stats.Documents = e.VectorStore.Len()
	e.stats.Vocabulary = e.VectorStore.VocabularySize()
	e.stats.TrainedAt = time.Now()
	e.mu.Unlock()

	e.Logger.WithFields(logrus.Fields{
		"documents":  len(docs),
		"vocabulary": e.VectorStore.VocabularySize(),
		"took":       time.Since(start).String(),
	}).Info("Corpus trained")
	return nil
}

// Recommend ranks the training corpus against a query description.
// queryID is excluded from the results; topK <= 0 uses the configured default.
func (e *Engine) Recommend(queryID, rawText string, topK int) []search.SearchResult {
	tokens := e.Preprocessor.Preprocess(rawText)

	var query search.Vector
	if e.Config.Ranking.QueryWeighting == config.WeightingSelf {
		query = search.SelfTransform(tokens)
	} else {
		query = e.VectorStore.Transform(tokens)
	}

	results := e.VectorStore.Search(query, queryID, e.topK(topK))
	e.countQuery()

	e.Logger.WithFields(logrus.Fields{
		"query":   queryID,
		"tokens":  len(tokens),
		"results": len(results),
	}).Debug("Recommendation computed")
	return results
}

// RecommendFor ranks the corpus against the cached vector of a training
// document, excluding that document.
func (e *Engine) RecommendFor(id string, topK int) ([]search.SearchResult, error) {
	query, err := e.VectorStore.Vector(id)
	if err != nil {
		return nil, err
	}
	e.countQuery()
	return e.VectorStore.Search(query, id, e.topK(topK)), nil
}

// Record stores results for queryID. It returns nil without error when
// record storage is disabled.
func (e *Engine) Record(queryID string, results []search.SearchResult) (*storage.Record, error) {
	if e.Storage == nil {
		return nil, nil
	}

	record := &storage.Record{
		QueryID: queryID,
		Matches: make([]storage.Match, len(results)),
	}
	for i, r := range results {
		record.Matches[i] = storage.Match{ID: r.Document.ID, Score: r.Score}
	}

	if err := e.Storage.Save(record); err != nil {
		return nil, fmt.Errorf("failed to save record: %w", err)
	}
	return record, nil
}

// GetRecord loads a stored record
func (e *Engine) GetRecord(id string) (*storage.Record, error) {
	if e.Storage == nil {
		return nil, apperrors.NewNotFoundError(id)
	}
	return e.Storage.Get(id)
}

// Stats returns a snapshot of engine statistics
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) topK(k int) int {
	if k <= 0 {
		return e.Config.Ranking.TopK
	}
	return k
}

func (e *Engine) countQuery() {
	e.mu.Lock()
	e.stats.Queries++
	e.mu.Unlock()
}
