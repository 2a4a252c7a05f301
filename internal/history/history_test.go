package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costaazul/concierge/internal/log"
)

// memQuerier is an in-memory Querier for tests.
type memQuerier struct {
	messages  []Message
	insertErr error
	listErr   error
}

func (m *memQuerier) InsertMessage(_ context.Context, arg InsertMessageParams) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.messages = append(m.messages, Message{
		SessionID: arg.SessionID,
		Sender:    arg.Sender,
		Content:   arg.Content,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *memQuerier) ListMessages(_ context.Context, sessionID string) ([]Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Message
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func TestAppendAndMessages(t *testing.T) {
	t.Parallel()

	q := &memQuerier{}
	store := New(q, log.NewNop())
	ctx := context.Background()

	store.Append(ctx, "s1", SenderUser, "Hola")
	store.Append(ctx, "s1", SenderBot, "Hola 👋")
	store.Append(ctx, "s2", SenderUser, "otra sesión")

	got := store.Messages(ctx, "s1")
	require.Len(t, got, 2)
	assert.Equal(t, SenderUser, got[0].Sender)
	assert.Equal(t, "Hola", got[0].Content)
	assert.Equal(t, SenderBot, got[1].Sender)
	assert.Equal(t, "Hola 👋", got[1].Content)

	assert.Len(t, store.Messages(ctx, "s2"), 1)
}

func TestAppendFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	q := &memQuerier{insertErr: errors.New("connection refused")}
	store := New(q, log.NewNop())

	// Must not panic and must not surface the error to the caller.
	store.Append(context.Background(), "s1", SenderUser, "Hola")
	assert.Empty(t, store.Messages(context.Background(), "s1"))
}

func TestMessagesFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	q := &memQuerier{listErr: errors.New("connection refused")}
	store := New(q, log.NewNop())

	got := store.Messages(context.Background(), "s1")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMessagesUnknownSessionIsEmptyNotNil(t *testing.T) {
	t.Parallel()

	store := New(&memQuerier{}, log.NewNop())

	got := store.Messages(context.Background(), "missing")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
