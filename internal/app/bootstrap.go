// Package app wires configuration, sources and the engine for the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/movierec/internal/config"
	"github.com/knowledge-engine/movierec/internal/engine"
	"github.com/knowledge-engine/movierec/internal/fetcher"
	"github.com/knowledge-engine/movierec/internal/loader"
	"github.com/knowledge-engine/movierec/internal/search"
	"github.com/knowledge-engine/movierec/internal/storage"
)

// LoadConfig reads the YAML file at path on top of the environment, or the
// environment alone when path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Load()
		return cfg, cfg.Validate()
	}
	return config.LoadFile(path)
}

// NewLogger builds the service logger at the configured level
func NewLogger(cfg *config.Config, service string) *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warnf("Unknown log level %q, using info", cfg.Server.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger.WithField("service", service)
}

// Build loads stopwords and corpus, then returns a trained engine and the
// loader used for any further sources.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (*engine.Engine, *loader.Loader, error) {
	f := fetcher.NewFetcher(cfg.Fetch, logger.WithField("component", "fetcher"))
	ld := loader.New(f, logger.WithField("component", "loader"))

	stopwords, err := ld.Stopwords(ctx, cfg.Corpus.StopwordsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load stopwords: %w", err)
	}

	var store storage.RecordStorage
	if cfg.Storage.ResultsDir != "" {
		fs, err := storage.NewFileStorage(cfg.Storage.ResultsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = fs
	}

	eng, err := engine.NewEngine(cfg, logger, stopwords, search.NewVectorStore(), store)
	if err != nil {
		return nil, nil, err
	}

	docs, err := ld.Corpus(ctx, cfg.Corpus.Path, CorpusOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	if err := eng.Train(docs); err != nil {
		return nil, nil, err
	}
	return eng, ld, nil
}

// CorpusOptions maps the corpus section of cfg to loader options
func CorpusOptions(cfg *config.Config) loader.CorpusOptions {
	return loader.CorpusOptions{
		HasHeader:   cfg.Corpus.HasHeader,
		StripMarkup: cfg.Corpus.StripMarkup,
	}
}
