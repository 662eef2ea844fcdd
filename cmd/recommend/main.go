package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/movierec/internal/app"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	batchPath := flag.String("batch", "", "CSV of (title, description) rows to recommend for")
	topK := flag.Int("k", 0, "number of recommendations (0 uses the configured default)")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	entry := app.NewLogger(cfg, "movierec-cli")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, ld, err := app.Build(ctx, cfg, entry)
	if err != nil {
		entry.Fatalf("Failed to initialize engine: %v", err)
	}
	if eng.Storage != nil {
		defer eng.Storage.Close()
	}

	printer := &app.Printer{Engine: eng, Out: os.Stdout, TopK: *topK}

	if *batchPath != "" {
		n, err := printer.RunBatch(ctx, ld, *batchPath, app.CorpusOptions(cfg))
		if err != nil {
			entry.Fatalf("Batch failed after %d movies: %v", n, err)
		}
		entry.WithField("movies", n).Info("Batch complete")
		return
	}

	if err := printer.RunInteractive(os.Stdin); err != nil {
		entry.Fatal(err)
	}
}
