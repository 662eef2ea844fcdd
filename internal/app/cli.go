package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/knowledge-engine/movierec/internal/engine"
	"github.com/knowledge-engine/movierec/internal/loader"
	"github.com/knowledge-engine/movierec/internal/search"
)

// Printer writes recommendation lines and saves result records
type Printer struct {
	Engine *engine.Engine
	Out    io.Writer
	TopK   int
}

// Print recommends for one movie, writes the result line and stores a
// record when storage is enabled.
func (p *Printer) Print(title, description string) error {
	results := p.Engine.Recommend(title, description, p.TopK)
	if _, err := fmt.Fprintf(p.Out, "Recommendations for %s: [%s]\n", title, formatIDs(results)); err != nil {
		return err
	}

	if _, err := p.Engine.Record(title, results); err != nil {
		p.Engine.Logger.WithError(err).WithField("query", title).Warn("Failed to store recommendation record")
	}
	return nil
}

// RunBatch prints recommendations for every row of the CSV at location
func (p *Printer) RunBatch(ctx context.Context, ld *loader.Loader, location string, opts loader.CorpusOptions) (int, error) {
	docs, err := ld.Corpus(ctx, location, opts)
	if err != nil {
		return 0, err
	}
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := p.Print(doc.ID, doc.Content); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}

// RunInteractive prompts for a title and a description until in is
// exhausted or an empty title is entered.
func (p *Printer) RunInteractive(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(p.Out, "Movie title: ")
		if !scanner.Scan() {
			break
		}
		title := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if title == "" {
			break
		}

		fmt.Fprint(p.Out, "Description: ")
		if !scanner.Scan() {
			break
		}
		description := strings.ToLower(scanner.Text())

		if err := p.Print(title, description); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func formatIDs(results []search.SearchResult) string {
	quoted := make([]string, len(results))
	for i, id := range search.IDs(results) {
		quoted[i] = fmt.Sprintf("'%s'", id)
	}
	return strings.Join(quoted, ", ")
}
