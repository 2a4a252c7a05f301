// Package chatbot orchestrates one guest message end to end: log the inbound
// turn, classify intent, dispatch to a canned template or the generative
// pipeline, log the outbound turn, and return the updated transcript.
package chatbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/costaazul/concierge/internal/answer"
	"github.com/costaazul/concierge/internal/history"
	"github.com/costaazul/concierge/internal/intent"
	"github.com/costaazul/concierge/internal/log"
	"github.com/costaazul/concierge/internal/respond"
)

// Result is the outcome of processing one guest message. History is the full
// transcript re-fetched after logging the bot turn, so it reflects eventual
// persistence (or its absence when the history store is degraded).
type Result struct {
	Reply   string
	Intent  intent.Intent
	History []history.Message
}

// Config contains the required parameters for the Bot.
type Config struct {
	History   *history.Store
	Responder *respond.Responder
	Logger    log.Logger

	// Generator answers fallback-intent messages. Nil disables generation;
	// fallback then degrades to the canned fallback template (useful for
	// tests and for running without provider credentials).
	Generator *answer.Generator
}

// Bot is the dialogue orchestrator. Stateless per request and safe for
// concurrent use; all cross-request state lives in the external stores.
type Bot struct {
	history   *history.Store
	responder *respond.Responder
	generator *answer.Generator
	logger    log.Logger
}

// New creates a Bot.
func New(cfg Config) (*Bot, error) {
	if cfg.History == nil {
		return nil, errors.New("history store is required")
	}
	if cfg.Responder == nil {
		return nil, errors.New("responder is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	return &Bot{
		history:   cfg.History,
		responder: cfg.Responder,
		generator: cfg.Generator,
		logger:    cfg.Logger,
	}, nil
}

// Process handles one inbound guest message for a session.
//
// Every intent except a generation-provider outage yields a reply; storage
// outages are absorbed by the history store's best-effort policy and surface
// only as a shorter (possibly empty) transcript.
func (b *Bot) Process(ctx context.Context, message, sessionID string) (Result, error) {
	b.history.Append(ctx, sessionID, history.SenderUser, message)

	transcript := b.history.Messages(ctx, sessionID)

	detected := intent.Detect(message)
	b.logger.Debug("classified message", "session_id", sessionID, "intent", detected.String())

	reply, err := b.reply(ctx, detected, message, transcript)
	if err != nil {
		return Result{Intent: detected}, fmt.Errorf("answering session %s: %w", sessionID, err)
	}

	b.history.Append(ctx, sessionID, history.SenderBot, reply)

	return Result{
		Reply:   reply,
		Intent:  detected,
		History: b.history.Messages(ctx, sessionID),
	}, nil
}

// reply dispatches on intent. Only Fallback invokes the generator; every
// other intent is answered from the canned templates.
func (b *Bot) reply(ctx context.Context, detected intent.Intent, message string, transcript []history.Message) (string, error) {
	switch detected {
	case intent.Greeting:
		return b.responder.Greeting(), nil
	case intent.Horarios:
		return b.responder.Horarios(), nil
	case intent.Servicios:
		return b.responder.Servicios(), nil
	case intent.Habitaciones:
		return b.responder.Habitaciones(), nil
	case intent.Recomendaciones:
		return b.responder.Recomendaciones(), nil
	case intent.Humano:
		return b.responder.Humano(), nil
	case intent.Fallback:
		if b.generator == nil {
			return b.responder.Fallback(), nil
		}
		return b.generator.Answer(ctx, message, transcript)
	default:
		return b.responder.Fallback(), nil
	}
}
