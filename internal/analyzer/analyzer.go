package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bdougie/pagecap/internal/models"
	"github.com/bdougie/pagecap/internal/pageset"
	"github.com/bdougie/pagecap/internal/storage"
)

// ErrNoPages is returned when the input directory holds no page images
var ErrNoPages = errors.New("no page images to analyze")

type Processor struct {
	describer Describer
	storage   storage.Storage
	workers   int
	logger    *slog.Logger
}

func NewProcessor(describer Describer, store storage.Storage, workers int, logger *slog.Logger) *Processor {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		describer: describer,
		storage:   store,
		workers:   workers,
		logger:    logger,
	}
}

// ProcessPages describes every page image in dir and stores the results
func (p *Processor) ProcessPages(ctx context.Context, dir string) error {
	pages, err := pageset.List(dir)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w in '%s'", ErrNoPages, dir)
	}

	p.logger.Info("analyzing pages", "pages", len(pages), "dir", dir, "workers", p.workers)
	return p.processPages(ctx, pages)
}

func (p *Processor) processPages(ctx context.Context, pages []string) error {
	workChan := make(chan models.WorkItem, len(pages))
	resultsChan := make(chan models.AnalysisResult, len(pages))
	errorsChan := make(chan error, len(pages))

	var wg sync.WaitGroup

	remaining := atomic.Int64{}
	remaining.Store(int64(len(pages)))

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workChan {
				if ctx.Err() != nil {
					errorsChan <- fmt.Errorf("page %d/%d skipped: %w", work.PageNum, work.Total, ctx.Err())
					continue
				}
				content, err := p.describer.Describe(ctx, work.PagePath)
				if err != nil {
					errorsChan <- fmt.Errorf("page %d/%d failed: %w", work.PageNum, work.Total, err)
					continue
				}

				resultsChan <- models.AnalysisResult{
					Page:    filepath.Base(work.PagePath),
					Content: content,
					Path:    work.PagePath,
				}

				left := remaining.Add(-1)
				p.logger.Debug("page analyzed", "page", work.PageNum, "remaining", left)
			}
		}()
	}

	for i, page := range pages {
		workChan <- models.WorkItem{
			PagePath: page,
			PageNum:  i + 1,
			Total:    len(pages),
		}
	}
	close(workChan)

	// Collect results on a single goroutine so storage sees one writer
	var storeErrs []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range resultsChan {
			if err := p.storage.AddResult(ctx, result); err != nil {
				storeErrs = append(storeErrs, err.Error())
			}
		}
	}()

	wg.Wait()
	close(resultsChan)
	close(errorsChan)
	<-done

	if err := p.storage.Flush(); err != nil {
		return fmt.Errorf("failed to flush final results: %w", err)
	}

	var errorMessages []string
	for err := range errorsChan {
		errorMessages = append(errorMessages, err.Error())
	}
	errorMessages = append(errorMessages, storeErrs...)
	if len(errorMessages) > 0 {
		return fmt.Errorf("encountered errors during processing: %v", strings.Join(errorMessages, "; "))
	}

	return nil
}
