package knowledge

import (
	"context"
	"strings"

	"github.com/costaazul/concierge/internal/log"
)

// Retriever fetches the knowledge block for a guest question.
//
// Retrieval is best-effort: any failure (store down, embedder down, nothing
// indexed) degrades to an empty string, which makes the answer pipeline rely
// on conversational context and its system-prompt guardrails alone.
type Retriever struct {
	store  *Store
	topK   int
	logger log.Logger
}

// NewRetriever creates a Retriever. topK values outside [1, len cap] fall
// back to the default of 4.
func NewRetriever(store *Store, topK int, logger log.Logger) *Retriever {
	if topK < 1 {
		topK = 4
	}
	return &Retriever{store: store, topK: topK, logger: logger}
}

// Retrieve returns the newline-joined contents of the chunks most similar to
// the query, or "" when retrieval is unavailable or returns nothing. It never
// returns an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) string {
	results, err := r.store.Search(ctx, query, WithTopK(r.topK))
	if err != nil {
		r.logger.Warn("knowledge retrieval degraded to empty", "error", err)
		return ""
	}

	contents := make([]string, 0, len(results))
	for _, res := range results {
		if res.Chunk.Content != "" {
			contents = append(contents, res.Chunk.Content)
		}
	}

	return strings.Join(contents, "\n")
}
