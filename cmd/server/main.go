package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/movierec/internal/api"
	"github.com/knowledge-engine/movierec/internal/app"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	// 1. Config
	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// 2. Logging
	entry := app.NewLogger(cfg, "movierec-api")
	entry.Info("Starting Movie Recommender API Service")

	// 3. Corpus, stopwords and engine
	eng, _, err := app.Build(context.Background(), cfg, entry)
	if err != nil {
		entry.Fatalf("Failed to initialize engine: %v", err)
	}
	if eng.Storage != nil {
		defer eng.Storage.Close()
	}

	// 4. API Server
	server := api.NewServer(eng, entry)

	entry.WithFields(logrus.Fields{
		"addr":      cfg.Server.Addr,
		"documents": eng.Stats().Documents,
	}).Info("Movie Recommender API ready")
	if err := server.Start(cfg.Server.Addr); err != nil {
		entry.Fatal(err)
	}
}
