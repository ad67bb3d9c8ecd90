package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bdougie/pagecap/internal/config"
	"github.com/bdougie/pagecap/internal/embeddings"
	"github.com/bdougie/pagecap/internal/models"
	"github.com/bdougie/pagecap/internal/storage"
)

// indexBatch stays under the embedding service queue size
const indexBatch = 50

// indexPages stores the captured pages and their thumbnail vectors in the catalog
func (app *App) indexPages(ctx context.Context, dbURL, book string, pages []models.Page) error {
	store, err := openCatalog(ctx, dbURL, book)
	if err != nil {
		return err
	}
	defer store.Close()

	service := embeddings.NewService(config.DefaultWorkers)
	defer service.Close()

	for start := 0; start < len(pages); start += indexBatch {
		batch := pages[start:min(start+indexBatch, len(pages))]

		pending := make([]<-chan embeddings.Result, len(batch))
		for i, page := range batch {
			pending[i] = service.GetEmbedding(page.Path)
		}

		for i, page := range batch {
			res := <-pending[i]
			if res.Error != nil {
				app.Logger.Warn("thumbnail failed, page stored without vector", "page", page.Number, "error", res.Error)
			}
			if err := store.AddPage(ctx, page, res.Embedding); err != nil {
				return err
			}
		}
	}

	last := 0
	for _, page := range pages {
		last = max(last, page.Number)
	}
	pruned, err := store.PruneAfter(ctx, last)
	if err != nil {
		return err
	}
	if pruned > 0 {
		app.Logger.Info("stale pages removed from catalog", "book", book, "pages", pruned)
	}

	app.Logger.Info("pages cataloged", "book", book, "pages", len(pages))
	return nil
}

// bookName prefers the window title recorded in the session manifest
func bookName(dir string) string {
	if m, err := storage.ReadManifest(dir); err == nil && m.Window != "" {
		return m.Window
	}
	return filepath.Base(dir)
}

func openCatalog(ctx context.Context, dbURL, book string) (*storage.PostgresStorage, error) {
	if err := storage.InitSchema(ctx, dbURL); err != nil {
		return nil, err
	}
	store, err := storage.NewPostgresStorage(ctx, dbURL, book)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, nil
}
