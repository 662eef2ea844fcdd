package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/movierec/internal/app"
	"github.com/knowledge-engine/movierec/internal/config"
	"github.com/knowledge-engine/movierec/internal/search"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Load()
	cfg.Corpus.Path = writeFile(t, dir, "train.csv",
		"title,description\nA,The space adventure story\nB,A romance drama story\nC,Space battle saga\n")
	cfg.Corpus.HasHeader = true
	cfg.Corpus.StopwordsPath = writeFile(t, dir, "StopWords.txt", "the\na\n")
	cfg.Preprocess.Stemmer = "suffix"
	cfg.Ranking.TopK = 3
	cfg.Ranking.QueryWeighting = config.WeightingTraining
	cfg.Storage.ResultsDir = ""
	return cfg
}

func TestBuild(t *testing.T) {
	cfg := testConfig(t)

	eng, ld, err := app.Build(context.Background(), cfg, logrus.New().WithField("test", "app"))
	require.NoError(t, err)
	assert.NotNil(t, ld)
	assert.Nil(t, eng.Storage)
	assert.Equal(t, 3, eng.Stats().Documents)

	results, err := eng.RecommendFor("c", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, search.IDs(results))
}

func TestBuild_WithResultsDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.ResultsDir = filepath.Join(t.TempDir(), "results")

	eng, _, err := app.Build(context.Background(), cfg, logrus.New().WithField("test", "app"))
	require.NoError(t, err)
	require.NotNil(t, eng.Storage)

	record, err := eng.Record("query", eng.Recommend("query", "space battle", 2))
	require.NoError(t, err)

	loaded, err := eng.GetRecord(record.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Matches, 2)
}

func TestBuild_MissingSources(t *testing.T) {
	cfg := testConfig(t)
	cfg.Corpus.StopwordsPath = filepath.Join(t.TempDir(), "missing.txt")

	_, _, err := app.Build(context.Background(), cfg, logrus.New().WithField("test", "app"))
	assert.ErrorContains(t, err, "failed to load stopwords")

	cfg = testConfig(t)
	cfg.Corpus.Path = filepath.Join(t.TempDir(), "missing.csv")

	_, _, err = app.Build(context.Background(), cfg, logrus.New().WithField("test", "app"))
	assert.ErrorContains(t, err, "failed to load corpus")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := app.LoadConfig("")
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	path := writeFile(t, t.TempDir(), "config.yaml", "ranking:\n  top_k: 5\n")
	cfg, err = app.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Ranking.TopK)
}

func TestNewLogger(t *testing.T) {
	cfg := config.Load()
	cfg.Server.LogLevel = "debug"
	entry := app.NewLogger(cfg, "movierec")
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
	assert.Equal(t, "movierec", entry.Data["service"])

	cfg.Server.LogLevel = "loud"
	entry = app.NewLogger(cfg, "movierec")
	assert.Equal(t, logrus.InfoLevel, entry.Logger.GetLevel())
}
