package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/movierec/internal/config"
	apperrors "github.com/knowledge-engine/movierec/internal/errors"
	"github.com/knowledge-engine/movierec/internal/fetcher"
	"github.com/knowledge-engine/movierec/internal/loader"
	"github.com/knowledge-engine/movierec/internal/search"
)

func ids(docs []*search.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestReadCorpus(t *testing.T) {
	input := "Title,Description\n" +
		"  Alien ,A crew meets a CREATURE.\n" +
		"\"Heat\",\"A thief, a cop, a city\"\n"

	docs, dups, err := loader.ReadCorpus(strings.NewReader(input), "train.csv", loader.CorpusOptions{HasHeader: true})
	require.NoError(t, err)
	assert.Empty(t, dups)

	require.Len(t, docs, 2)
	assert.Equal(t, "alien", docs[0].ID)
	assert.Equal(t, "a crew meets a creature.", docs[0].Content)
	assert.Equal(t, "heat", docs[1].ID)
	assert.Equal(t, "a thief, a cop, a city", docs[1].Content)
}

func TestReadCorpus_NoHeader(t *testing.T) {
	docs, _, err := loader.ReadCorpus(strings.NewReader("alien,creature\n"), "train.csv", loader.CorpusOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alien"}, ids(docs))
}

func TestReadCorpus_Duplicates(t *testing.T) {
	input := "title,description\nalien,first\nheat,second\nALIEN,third\n"

	docs, dups, err := loader.ReadCorpus(strings.NewReader(input), "train.csv", loader.CorpusOptions{HasHeader: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"alien", "heat"}, ids(docs))
	assert.Equal(t, "third", docs[0].Content)
	assert.Equal(t, []string{"alien"}, dups)
}

func TestReadCorpus_ShortRow(t *testing.T) {
	input := "title,description\nalien,creature\nlonely\n"

	_, _, err := loader.ReadCorpus(strings.NewReader(input), "train.csv", loader.CorpusOptions{HasHeader: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	var invalid *apperrors.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 3, invalid.Line)
	assert.Equal(t, "train.csv", invalid.Source)
}

func TestReadCorpus_MalformedCSV(t *testing.T) {
	input := "title,description\nalien,a \"bare\" quote\n"

	_, _, err := loader.ReadCorpus(strings.NewReader(input), "train.csv", loader.CorpusOptions{HasHeader: true})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestReadCorpus_StripMarkup(t *testing.T) {
	input := "title,description\nalien,\"<p>A crew <b>meets</b> a creature</p>\"\n"

	docs, _, err := loader.ReadCorpus(strings.NewReader(input), "train.csv",
		loader.CorpusOptions{HasHeader: true, StripMarkup: true})
	require.NoError(t, err)
	assert.Equal(t, "a crew meets a creature", docs[0].Content)
}

func TestReadStopwords(t *testing.T) {
	words, err := loader.ReadStopwords(strings.NewReader("The\n  a \n\n\nOF\n"), "StopWords.txt")
	require.NoError(t, err)

	assert.Len(t, words, 3)
	assert.Contains(t, words, "the")
	assert.Contains(t, words, "a")
	assert.Contains(t, words, "of")
}

func TestLoader_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "train.csv")
	stopPath := filepath.Join(dir, "StopWords.txt")
	require.NoError(t, os.WriteFile(corpusPath, []byte("title,description\nalien,creature\n"), 0600))
	require.NoError(t, os.WriteFile(stopPath, []byte("the\n"), 0600))

	l := loader.New(nil, logrus.New().WithField("test", "loader"))

	docs, err := l.Corpus(context.Background(), corpusPath, loader.CorpusOptions{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"alien"}, ids(docs))

	words, err := l.Stopwords(context.Background(), stopPath)
	require.NoError(t, err)
	assert.Contains(t, words, "the")
}

func TestLoader_MissingFile(t *testing.T) {
	l := loader.New(nil, nil)

	_, err := l.Corpus(context.Background(), filepath.Join(t.TempDir(), "none.csv"), loader.CorpusOptions{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_RemoteDisabled(t *testing.T) {
	l := loader.New(nil, nil)

	_, err := l.Stopwords(context.Background(), "https://example.com/stop.txt")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestLoader_Remote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/train.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("title,description\nheat,a thief and a cop\n"))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	logger := logrus.New().WithField("test", "loader")
	f := fetcher.NewFetcher(config.FetchConfig{Timeout: 5 * time.Second, UserAgent: "test"}, logger)
	l := loader.New(f, logger)

	docs, err := l.Corpus(context.Background(), ts.URL+"/train.csv", loader.CorpusOptions{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"heat"}, ids(docs))

	_, err = l.Corpus(context.Background(), ts.URL+"/missing.csv", loader.CorpusOptions{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
