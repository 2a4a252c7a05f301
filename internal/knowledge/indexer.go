package knowledge

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/costaazul/concierge/internal/hotel"
	"github.com/costaazul/concierge/internal/log"
)

// indexConcurrency caps parallel embedding calls during reindexing.
const indexConcurrency = 4

// Indexer embeds the hotel fact document into the knowledge store.
// Section IDs are stable, so reindexing upserts in place.
type Indexer struct {
	store  *Store
	logger log.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(store *Store, logger log.Logger) *Indexer {
	return &Indexer{store: store, logger: logger}
}

// IndexFacts embeds and upserts every section of the fact document.
// Sections are processed concurrently; the first failure aborts the rest.
// Returns the number of sections indexed.
func (ix *Indexer) IndexFacts(ctx context.Context, facts *hotel.Facts) (int, error) {
	sections := facts.Sections()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(indexConcurrency)

	for _, section := range sections {
		g.Go(func() error {
			if err := ix.store.Add(gctx, section.ID, section.Text); err != nil {
				return fmt.Errorf("indexing section %q: %w", section.ID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	ix.logger.Info("hotel knowledge indexed", "sections", len(sections))
	return len(sections), nil
}
