package pipeline

import (
	"context"
	"sync"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/logger"
)

// BatchResult accounts for one batch run. Failed documents carry their
// error; everything else annotated cleanly.
type BatchResult struct {
	Processed int
	Failed    map[string]error
}

// Batch runs a Runner over many documents with a bounded worker pool.
// Annotation failures are isolated per document; fatal errors (schema
// mismatch, invalid label sequences) stop the whole batch because every
// remaining document would fail the same way.
type Batch struct {
	Runner  *Runner
	Workers int
}

// Run processes docs concurrently and reports per-document outcomes.
func (b *Batch) Run(ctx context.Context, docs []*document.Document) (*BatchResult, error) {
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		fatal  error
		result = &BatchResult{Failed: map[string]error{}}
	)

	queue := make(chan *document.Document)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range queue {
				err := b.Runner.Run(ctx, doc)
				mu.Lock()
				switch {
				case err == nil:
					result.Processed++
				case errors.IsFatal(err):
					if fatal == nil {
						fatal = err
						cancel()
					}
				default:
					result.Failed[doc.ID] = err
					logger.Logger.Warnw("Skipping document",
						logger.FieldDocID, doc.ID,
						logger.FieldError, err)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, doc := range docs {
		select {
		case queue <- doc:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	if fatal != nil {
		return nil, fatal
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "batch interrupted")
	}

	logger.Logger.Infow("Batch complete",
		logger.FieldCount, result.Processed,
		"failed", len(result.Failed))
	return result, nil
}
