// Package history persists the per-session conversation transcript.
//
// The store is deliberately best-effort: a storage outage must never break a
// conversation. Append failures are logged and swallowed; query failures
// degrade to an empty transcript. The pipeline keeps answering, at the cost
// of losing the persisted transcript for that turn. Do not tighten this into
// hard failures.
package history

import (
	"context"
	"time"

	"github.com/costaazul/concierge/internal/log"
)

// Sender identifies who produced a message.
type Sender string

// Valid senders.
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one turn of a session transcript. CreatedAt is assigned by the
// store; messages of a session are totally ordered by it.
type Message struct {
	SessionID string    `json:"-"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Querier defines the database operations the store needs. Defined by the
// consumer so tests can substitute a mock; *Queries implements it over pgx.
type Querier interface {
	InsertMessage(ctx context.Context, arg InsertMessageParams) error
	ListMessages(ctx context.Context, sessionID string) ([]Message, error)
}

// Store is the history store adapter. Safe for concurrent use as long as the
// underlying Querier is (pgxpool is).
type Store struct {
	q      Querier
	logger log.Logger
}

// New creates a history store over the given querier.
func New(q Querier, logger log.Logger) *Store {
	return &Store{q: q, logger: logger}
}

// Append records one message, best-effort. A storage failure is reported via
// the log only; the caller continues regardless.
func (s *Store) Append(ctx context.Context, sessionID string, sender Sender, content string) {
	err := s.q.InsertMessage(ctx, InsertMessageParams{
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
	})
	if err != nil {
		s.logger.Error("failed to append message", "session_id", sessionID, "sender", sender, "error", err)
	}
}

// Messages returns the session transcript ordered oldest first. A storage
// failure degrades to an empty transcript.
func (s *Store) Messages(ctx context.Context, sessionID string) []Message {
	messages, err := s.q.ListMessages(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to load history", "session_id", sessionID, "error", err)
		return []Message{}
	}
	if messages == nil {
		return []Message{}
	}
	return messages
}
