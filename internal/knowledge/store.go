// Package knowledge manages the hotel knowledge vector store: embedding
// snippets, similarity search, and the retrieval used by the answer pipeline.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"

	"github.com/costaazul/concierge/internal/log"
)

// ErrDimensionMismatch indicates the embedder produced a vector of a size the
// index cannot hold. This is a configuration problem (wrong embedder model),
// not a transient failure.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// searchTimeout bounds a single vector search so a stuck query cannot stall
// the request forever.
const searchTimeout = 10 * time.Second

// Querier defines the database operations the store needs. Defined by the
// consumer so tests can substitute a mock; *Queries implements it over pgx.
type Querier interface {
	UpsertChunk(ctx context.Context, arg UpsertChunkParams) error
	SearchChunks(ctx context.Context, arg SearchChunksParams) ([]Result, error)
}

// Store manages knowledge chunks with vector search. Safe for concurrent use.
type Store struct {
	q        Querier
	embedder ai.Embedder
	logger   log.Logger
}

// NewStore creates a knowledge store.
func NewStore(q Querier, embedder ai.Embedder, logger log.Logger) *Store {
	return &Store{q: q, embedder: embedder, logger: logger}
}

// Add embeds and upserts one chunk.
func (s *Store) Add(ctx context.Context, id, content string) error {
	vec, err := s.embed(ctx, content)
	if err != nil {
		return err
	}

	if err := s.q.UpsertChunk(ctx, UpsertChunkParams{
		ID:        id,
		Content:   content,
		Embedding: vec,
	}); err != nil {
		return err
	}

	s.logger.Debug("indexed knowledge chunk", "id", id, "content_length", len(content))
	return nil
}

// Search returns the chunks most similar to the query, best first.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	cfg := buildSearchConfig(opts)

	queryCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	vec, err := s.embed(queryCtx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.q.SearchChunks(queryCtx, SearchChunksParams{
		QueryEmbedding: vec,
		ResultLimit:    cfg.topK,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return results, nil
}

// embed runs the embedding provider and enforces the index dimension.
func (s *Store) embed(ctx context.Context, text string) (*pgvector.Vector, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(text, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("generating embedding: %w", err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, errors.New("embedder returned no embedding")
	}

	embedding := resp.Embeddings[0].Embedding
	if len(embedding) != VectorDimension {
		return nil, fmt.Errorf("%w: got %d, index holds %d",
			ErrDimensionMismatch, len(embedding), VectorDimension)
	}

	vec := pgvector.NewVector(embedding)
	return &vec, nil
}
