package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// DBTX is the subset of pgx operations the queries need.
// Both *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Queries implements Querier against PostgreSQL with pgvector.
type Queries struct {
	db DBTX
}

// NewQueries creates a Queries instance over the given connection.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const upsertChunk = `
INSERT INTO hotel_knowledge (id, content, embedding)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET content = EXCLUDED.content,
    embedding = EXCLUDED.embedding,
    created_at = now()
`

// UpsertChunkParams holds the arguments for UpsertChunk.
type UpsertChunkParams struct {
	ID        string
	Content   string
	Embedding *pgvector.Vector
}

// UpsertChunk inserts or replaces a knowledge chunk by ID.
func (q *Queries) UpsertChunk(ctx context.Context, arg UpsertChunkParams) error {
	_, err := q.db.Exec(ctx, upsertChunk, arg.ID, arg.Content, arg.Embedding)
	if err != nil {
		return fmt.Errorf("upserting chunk %q: %w", arg.ID, err)
	}
	return nil
}

const searchChunks = `
SELECT id, content, created_at, 1 - (embedding <=> $1) AS similarity
FROM hotel_knowledge
ORDER BY embedding <=> $1
LIMIT $2
`

// SearchChunksParams holds the arguments for SearchChunks.
type SearchChunksParams struct {
	QueryEmbedding *pgvector.Vector
	ResultLimit    int32
}

// SearchChunks returns the nearest chunks by cosine distance, best first.
func (q *Queries) SearchChunks(ctx context.Context, arg SearchChunksParams) ([]Result, error) {
	rows, err := q.db.Query(ctx, searchChunks, arg.QueryEmbedding, arg.ResultLimit)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var similarity float64
		if err := rows.Scan(&r.Chunk.ID, &r.Chunk.Content, &r.Chunk.CreatedAt, &similarity); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		r.Similarity = float32(similarity)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}

	return results, nil
}
