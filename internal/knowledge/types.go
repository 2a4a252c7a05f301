package knowledge

import "time"

// VectorDimension is the embedding size of the hotel_knowledge vector column.
// text-embedding-004 outputs 768 dimensions. Embeddings of any other size are
// rejected before reaching the store, because similarity against a mismatched
// index is meaningless.
const VectorDimension = 768

// Chunk is one stored knowledge snippet, the unit of retrieval.
type Chunk struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// Result is a single search hit with its similarity score.
type Result struct {
	Chunk      Chunk
	Similarity float32 // cosine similarity, 1 = identical direction
}

// SearchOption configures search behavior using functional options.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK int32
}

// WithTopK sets the maximum number of results to return. Default is 4.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		if k > 0 {
			c.topK = int32(k) // #nosec G115 -- positive and bounded by caller config
		}
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{topK: 4}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
