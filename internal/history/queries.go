package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx operations the queries need.
// Both *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Queries implements Querier against PostgreSQL.
type Queries struct {
	db DBTX
}

// NewQueries creates a Queries instance over the given connection.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const insertMessage = `
INSERT INTO chat_messages (session_id, sender, message)
VALUES ($1, $2, $3)
`

// InsertMessageParams holds the arguments for InsertMessage.
// created_at is assigned by the database (now()) so ordering within a session
// follows the store's clock, not the caller's.
type InsertMessageParams struct {
	SessionID string
	Sender    Sender
	Content   string
}

// InsertMessage appends one message to a session transcript.
func (q *Queries) InsertMessage(ctx context.Context, arg InsertMessageParams) error {
	_, err := q.db.Exec(ctx, insertMessage, arg.SessionID, string(arg.Sender), arg.Content)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

const listMessages = `
SELECT session_id, sender, message, created_at
FROM chat_messages
WHERE session_id = $1
ORDER BY created_at, id
`

// ListMessages returns all messages of a session, oldest first. The id
// tiebreak keeps ordering stable when two turns share a timestamp.
func (q *Queries) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := q.db.Query(ctx, listMessages, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var sender string
		if err := rows.Scan(&m.SessionID, &sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Sender = Sender(sender)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading messages: %w", err)
	}

	return messages, nil
}
