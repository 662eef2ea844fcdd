// Package loader reads the training corpus and stopword list from local
// files or remote URLs.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "github.com/knowledge-engine/movierec/internal/errors"
	"github.com/knowledge-engine/movierec/internal/fetcher"
	"github.com/knowledge-engine/movierec/internal/search"
)

// CorpusOptions controls how corpus rows are read
type CorpusOptions struct {
	HasHeader   bool
	StripMarkup bool
}

// Loader opens corpus and stopword sources
type Loader struct {
	fetcher *fetcher.Fetcher
	logger  *logrus.Entry
}

// New creates a loader; f may be nil when only local paths are used
func New(f *fetcher.Fetcher, logger *logrus.Entry) *Loader {
	if logger == nil {
		logger = logrus.WithField("component", "loader")
	}
	return &Loader{fetcher: f, logger: logger}
}

// Open returns a reader over a local file or an http(s) URL
func (l *Loader) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if isRemote(location) {
		if l.fetcher == nil {
			return nil, apperrors.NewInvalidInputError(location, 0, "remote sources are not enabled", nil)
		}
		res, err := l.fetcher.Fetch(ctx, location)
		if err != nil {
			return nil, apperrors.NewInvalidInputError(location, 0, "failed to fetch source", err)
		}
		return io.NopCloser(bytes.NewReader(res.Body)), nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(location, 0, "failed to open source", err)
	}
	return f, nil
}

// Corpus loads the training documents at location
func (l *Loader) Corpus(ctx context.Context, location string, opts CorpusOptions) ([]*search.Document, error) {
	rc, err := l.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	docs, duplicates, err := ReadCorpus(rc, location, opts)
	if err != nil {
		return nil, err
	}
	for _, id := range duplicates {
		l.logger.WithField("id", id).Warn("Duplicate title in corpus, keeping last description")
	}

	l.logger.WithFields(logrus.Fields{
		"source":    location,
		"documents": len(docs),
	}).Info("Loaded corpus")
	return docs, nil
}

// Stopwords loads the stopword set at location
func (l *Loader) Stopwords(ctx context.Context, location string) (map[string]struct{}, error) {
	rc, err := l.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	words, err := ReadStopwords(rc, location)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"source":    location,
		"stopwords": len(words),
	}).Info("Loaded stopwords")
	return words, nil
}

// ReadCorpus parses CSV rows of (title, description). Titles are trimmed and
// lowercased, descriptions lowercased. A repeated title keeps its first
// position and takes the later description; repeated ids are returned.
func ReadCorpus(r io.Reader, source string, opts CorpusOptions) ([]*search.Document, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var docs []*search.Document
	var duplicates []string
	byID := make(map[string]*search.Document)
	first := true

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, nil, apperrors.NewInvalidInputError(source, parseErr.Line, "malformed CSV", parseErr.Err)
			}
			return nil, nil, apperrors.NewInvalidInputError(source, 0, "failed to read corpus", err)
		}

		if first {
			first = false
			if opts.HasHeader {
				continue
			}
		}

		line, _ := reader.FieldPos(0)
		if len(row) < 2 {
			return nil, nil, apperrors.NewInvalidInputError(source, line,
				fmt.Sprintf("expected at least 2 fields, got %d", len(row)), nil)
		}

		description := row[1]
		if opts.StripMarkup {
			description, err = fetcher.ExtractText(strings.NewReader(description))
			if err != nil {
				return nil, nil, apperrors.NewInvalidInputError(source, line, "failed to strip markup", err)
			}
		}

		id := strings.TrimSpace(strings.ToLower(row[0]))
		content := strings.ToLower(description)

		if existing, ok := byID[id]; ok {
			existing.Content = content
			duplicates = append(duplicates, id)
			continue
		}
		doc := &search.Document{ID: id, Content: content}
		byID[id] = doc
		docs = append(docs, doc)
	}

	return docs, duplicates, nil
}

// ReadStopwords reads one word per line, trimmed and lowercased; blank
// lines are ignored.
func ReadStopwords(r io.Reader, source string) (map[string]struct{}, error) {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			words[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewInvalidInputError(source, 0, "failed to read stopwords", err)
	}
	return words, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
