package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costaazul/concierge/internal/history"
	"github.com/costaazul/concierge/internal/knowledge"
	"github.com/costaazul/concierge/internal/log"
	"github.com/costaazul/concierge/internal/testutil"
)

// stubQuerier serves fixed search results to the knowledge store.
type stubQuerier struct {
	results   []knowledge.Result
	searchErr error
}

func (s *stubQuerier) UpsertChunk(context.Context, knowledge.UpsertChunkParams) error {
	return nil
}

func (s *stubQuerier) SearchChunks(context.Context, knowledge.SearchChunksParams) ([]knowledge.Result, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func newTestRetriever(t *testing.T, g *genkit.Genkit, q knowledge.Querier) *knowledge.Retriever {
	t.Helper()

	embedder := testutil.NewMockEmbedder(knowledge.VectorDimension).RegisterEmbedder(g)
	store := knowledge.NewStore(q, embedder, log.NewNop())
	return knowledge.NewRetriever(store, 4, log.NewNop())
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	g := genkit.Init(context.Background())
	retriever := newTestRetriever(t, g, &stubQuerier{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing genkit", Config{Retriever: retriever, Logger: log.NewNop(), ModelName: "m"}},
		{"missing retriever", Config{Genkit: g, Logger: log.NewNop(), ModelName: "m"}},
		{"missing logger", Config{Genkit: g, Retriever: retriever, ModelName: "m"}},
		{"missing model name", Config{Genkit: g, Retriever: retriever, Logger: log.NewNop()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
		})
	}
}

func TestAnswer(t *testing.T) {
	t.Parallel()

	g := genkit.Init(context.Background())
	mock := testutil.NewMockLLM("respuesta por defecto")
	mock.AddResponse("lluvia", "Puedes visitar el spa o el museo marítimo.")
	mock.RegisterModel(g)

	q := &stubQuerier{results: []knowledge.Result{
		{Chunk: knowledge.Chunk{ID: "hotel:actividades", Content: "En días de lluvia: spa y museo"}, Similarity: 0.9},
	}}

	gen, err := New(Config{
		Genkit:    g,
		Retriever: newTestRetriever(t, g, q),
		Logger:    log.NewNop(),
		ModelName: testutil.ModelName,
	})
	require.NoError(t, err)

	reply, err := gen.Answer(context.Background(), "¿Qué puedo hacer si llueve?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Puedes visitar el spa o el museo marítimo.", reply)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "¿Qué puedo hacer si llueve?", calls[0].UserMessage)
	assert.Contains(t, calls[0].SystemPrompt, "En días de lluvia: spa y museo")
}

func TestAnswerPromptContents(t *testing.T) {
	t.Parallel()

	g := genkit.Init(context.Background())
	testutil.RegisterEchoModel(g)

	q := &stubQuerier{results: []knowledge.Result{
		{Chunk: knowledge.Chunk{ID: "hotel:identidad", Content: "Check-in: desde las 14:00"}, Similarity: 0.9},
	}}

	gen, err := New(Config{
		Genkit:    g,
		Retriever: newTestRetriever(t, g, q),
		Logger:    log.NewNop(),
		ModelName: testutil.EchoModelName,
		Style:     StyleWarm,
	})
	require.NoError(t, err)

	msgs := []history.Message{
		{Sender: history.SenderUser, Content: "Hola"},
		{Sender: history.SenderBot, Content: "Hola 👋"},
	}

	// The echo model returns exactly what the provider received, so the reply
	// exposes the assembled prompt.
	reply, err := gen.Answer(context.Background(), "¿A qué hora puedo entrar?", msgs)
	require.NoError(t, err)

	assert.Contains(t, reply, "REGLAS IMPORTANTES:")
	assert.Contains(t, reply, "Check-in: desde las 14:00")
	assert.Contains(t, reply, "Usuario: Hola")
	assert.Contains(t, reply, "Asistente: Hola 👋")
	assert.Contains(t, reply, "¿A qué hora puedo entrar?")
}

func TestAnswerRetrievalFailureDegrades(t *testing.T) {
	t.Parallel()

	g := genkit.Init(context.Background())
	mock := testutil.NewMockLLM("Te recomiendo consultar en recepción.")
	mock.RegisterModel(g)

	q := &stubQuerier{searchErr: errors.New("connection refused")}

	gen, err := New(Config{
		Genkit:    g,
		Retriever: newTestRetriever(t, g, q),
		Logger:    log.NewNop(),
		ModelName: testutil.ModelName,
	})
	require.NoError(t, err)

	// A broken knowledge store must not break answering.
	reply, err := gen.Answer(context.Background(), "¿Hay toallas en la piscina?", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestAnswerProviderFailure(t *testing.T) {
	t.Parallel()

	g := genkit.Init(context.Background())
	mock := testutil.NewMockLLM("")
	mock.FailWith(errors.New("quota exceeded"))
	mock.RegisterModel(g)

	gen, err := New(Config{
		Genkit:    g,
		Retriever: newTestRetriever(t, g, &stubQuerier{}),
		Logger:    log.NewNop(),
		ModelName: testutil.ModelName,
	})
	require.NoError(t, err)

	_, err = gen.Answer(context.Background(), "pregunta", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestAnswerHistoryWindow(t *testing.T) {
	t.Parallel()

	g := genkit.Init(context.Background())
	testutil.RegisterEchoModel(g)

	gen, err := New(Config{
		Genkit:        g,
		Retriever:     newTestRetriever(t, g, &stubQuerier{}),
		Logger:        log.NewNop(),
		ModelName:     testutil.EchoModelName,
		HistoryWindow: 2,
	})
	require.NoError(t, err)

	msgs := []history.Message{
		{Sender: history.SenderUser, Content: "viejo-1"},
		{Sender: history.SenderBot, Content: "viejo-2"},
		{Sender: history.SenderUser, Content: "reciente-1"},
		{Sender: history.SenderBot, Content: "reciente-2"},
	}

	reply, err := gen.Answer(context.Background(), "pregunta", msgs)
	require.NoError(t, err)

	assert.Contains(t, reply, "reciente-1")
	assert.Contains(t, reply, "reciente-2")
	assert.NotContains(t, reply, "viejo-1")
}
