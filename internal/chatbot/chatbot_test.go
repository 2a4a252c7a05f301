package chatbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costaazul/concierge/internal/answer"
	"github.com/costaazul/concierge/internal/history"
	"github.com/costaazul/concierge/internal/hotel"
	"github.com/costaazul/concierge/internal/intent"
	"github.com/costaazul/concierge/internal/knowledge"
	"github.com/costaazul/concierge/internal/log"
	"github.com/costaazul/concierge/internal/respond"
	"github.com/costaazul/concierge/internal/testutil"
)

// memQuerier is an in-memory history querier.
type memQuerier struct {
	messages  []history.Message
	insertErr error
	listErr   error
}

func (m *memQuerier) InsertMessage(_ context.Context, arg history.InsertMessageParams) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.messages = append(m.messages, history.Message{
		SessionID: arg.SessionID,
		Sender:    arg.Sender,
		Content:   arg.Content,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *memQuerier) ListMessages(_ context.Context, sessionID string) ([]history.Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []history.Message
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// stubKnowledge serves fixed retrieval results.
type stubKnowledge struct {
	results []knowledge.Result
}

func (s *stubKnowledge) UpsertChunk(context.Context, knowledge.UpsertChunkParams) error {
	return nil
}

func (s *stubKnowledge) SearchChunks(context.Context, knowledge.SearchChunksParams) ([]knowledge.Result, error) {
	return s.results, nil
}

func newTestBot(t *testing.T, q history.Querier, gen *answer.Generator) (*Bot, *hotel.Facts) {
	t.Helper()

	facts, err := hotel.Load("")
	require.NoError(t, err)

	bot, err := New(Config{
		History:   history.New(q, log.NewNop()),
		Responder: respond.New(facts),
		Logger:    log.NewNop(),
		Generator: gen,
	})
	require.NoError(t, err)
	return bot, facts
}

func newTestGenerator(t *testing.T, mock *testutil.MockLLM, kq knowledge.Querier) *answer.Generator {
	t.Helper()

	g := genkit.Init(context.Background())
	mock.RegisterModel(g)
	embedder := testutil.NewMockEmbedder(knowledge.VectorDimension).RegisterEmbedder(g)
	store := knowledge.NewStore(kq, embedder, log.NewNop())

	gen, err := answer.New(answer.Config{
		Genkit:    g,
		Retriever: knowledge.NewRetriever(store, 4, log.NewNop()),
		Logger:    log.NewNop(),
		ModelName: testutil.ModelName,
	})
	require.NoError(t, err)
	return gen
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	facts, err := hotel.Load("")
	require.NoError(t, err)
	store := history.New(&memQuerier{}, log.NewNop())
	responder := respond.New(facts)

	_, err = New(Config{Responder: responder, Logger: log.NewNop()})
	require.Error(t, err)

	_, err = New(Config{History: store, Logger: log.NewNop()})
	require.Error(t, err)

	_, err = New(Config{History: store, Responder: responder})
	require.Error(t, err)
}

func TestProcessGreeting(t *testing.T) {
	t.Parallel()

	bot, facts := newTestBot(t, &memQuerier{}, nil)

	result, err := bot.Process(context.Background(), "Hola!", "s1")
	require.NoError(t, err)

	assert.Equal(t, intent.Greeting, result.Intent)
	assert.Contains(t, result.Reply, facts.Hotel.Name)

	// Both turns of the exchange are in the returned transcript.
	require.Len(t, result.History, 2)
	assert.Equal(t, history.SenderUser, result.History[0].Sender)
	assert.Equal(t, "Hola!", result.History[0].Content)
	assert.Equal(t, history.SenderBot, result.History[1].Sender)
	assert.Equal(t, result.Reply, result.History[1].Content)
}

func TestProcessHorarios(t *testing.T) {
	t.Parallel()

	bot, facts := newTestBot(t, &memQuerier{}, nil)

	result, err := bot.Process(context.Background(), "¿A qué hora es el check-in?", "s1")
	require.NoError(t, err)

	assert.Equal(t, intent.Horarios, result.Intent)
	// The canned answer must carry the configured time verbatim.
	assert.Contains(t, result.Reply, facts.Hotel.Checkin)
}

func TestProcessCannedIntents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    intent.Intent
	}{
		{"¿Tenéis piscina?", intent.Servicios},
		{"¿Qué habitaciones hay?", intent.Habitaciones},
		{"recomiéndame un restaurante", intent.Recomendaciones},
		{"quiero hablar con una persona", intent.Humano},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			t.Parallel()

			bot, _ := newTestBot(t, &memQuerier{}, nil)
			result, err := bot.Process(context.Background(), tt.message, "s1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Intent)
			assert.NotEmpty(t, result.Reply)
		})
	}
}

func TestProcessFallbackWithGenerator(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLLM("respuesta por defecto")
	mock.AddResponse("llueve", "Puedes disfrutar del spa con tarifa especial 💆")
	kq := &stubKnowledge{results: []knowledge.Result{
		{Chunk: knowledge.Chunk{ID: "hotel:actividades", Content: "En días de lluvia: spa"}, Similarity: 0.9},
	}}

	bot, _ := newTestBot(t, &memQuerier{}, newTestGenerator(t, mock, kq))

	result, err := bot.Process(context.Background(), "¿Qué puedo hacer si llueve?", "s1")
	require.NoError(t, err)

	assert.Equal(t, intent.Fallback, result.Intent)
	assert.Equal(t, "Puedes disfrutar del spa con tarifa especial 💆", result.Reply)

	// The generator saw the retrieved knowledge.
	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].SystemPrompt, "En días de lluvia: spa")
}

func TestProcessFallbackWithoutGenerator(t *testing.T) {
	t.Parallel()

	bot, _ := newTestBot(t, &memQuerier{}, nil)

	result, err := bot.Process(context.Background(), "algo sin sentido", "s1")
	require.NoError(t, err)

	assert.Equal(t, intent.Fallback, result.Intent)
	assert.Contains(t, result.Reply, "no he entendido")
}

func TestProcessGeneratorFailure(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLLM("")
	mock.FailWith(errors.New("quota exceeded"))
	bot, _ := newTestBot(t, &memQuerier{}, newTestGenerator(t, mock, &stubKnowledge{}))

	result, err := bot.Process(context.Background(), "algo sin sentido", "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, answer.ErrGenerationFailed)
	assert.Equal(t, intent.Fallback, result.Intent)
	assert.Empty(t, result.Reply)
}

func TestProcessHistoryStoreDown(t *testing.T) {
	t.Parallel()

	q := &memQuerier{
		insertErr: errors.New("connection refused"),
		listErr:   errors.New("connection refused"),
	}
	bot, _ := newTestBot(t, q, nil)

	// A storage outage must never break the conversation: the guest still
	// gets an answer, only the transcript is lost.
	result, err := bot.Process(context.Background(), "Hola!", "s1")
	require.NoError(t, err)

	assert.Equal(t, intent.Greeting, result.Intent)
	assert.NotEmpty(t, result.Reply)
	assert.NotNil(t, result.History)
	assert.Empty(t, result.History)
}

func TestProcessMultiTurnSession(t *testing.T) {
	t.Parallel()

	bot, _ := newTestBot(t, &memQuerier{}, nil)
	ctx := context.Background()

	_, err := bot.Process(ctx, "Hola!", "s1")
	require.NoError(t, err)

	result, err := bot.Process(ctx, "¿Qué habitaciones tenéis?", "s1")
	require.NoError(t, err)

	// 2 turns per exchange, 2 exchanges.
	require.Len(t, result.History, 4)
	assert.Equal(t, "Hola!", result.History[0].Content)
	assert.Equal(t, "¿Qué habitaciones tenéis?", result.History[2].Content)
}

func TestProcessSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	bot, _ := newTestBot(t, &memQuerier{}, nil)
	ctx := context.Background()

	_, err := bot.Process(ctx, "Hola!", "a")
	require.NoError(t, err)

	result, err := bot.Process(ctx, "Hola!", "b")
	require.NoError(t, err)
	assert.Len(t, result.History, 2)
}
