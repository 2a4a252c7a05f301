package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/costaazul/concierge/internal/answer"
	"github.com/costaazul/concierge/internal/chatbot"
	"github.com/costaazul/concierge/internal/history"
	"github.com/costaazul/concierge/internal/log"
)

// maxChatBodyBytes limits chat request bodies.
const maxChatBodyBytes = 64 * 1024

// defaultSessionID is used when the caller supplies no session.
const defaultSessionID = "default"

// chatRequest is the inbound payload of POST /api/v1/chat.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// chatResponse is the outbound payload: the reply, the classified intent, and
// the updated transcript.
type chatResponse struct {
	Reply   string            `json:"reply"`
	Intent  string            `json:"intent"`
	History []history.Message `json:"history"`
}

// chatHandler serves the guest chat endpoint.
type chatHandler struct {
	bot    *chatbot.Bot
	logger log.Logger
}

// send handles POST /api/v1/chat.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "missing_message", "message is required", h.logger)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	result, err := h.bot.Process(r.Context(), req.Message, sessionID)
	if err != nil {
		// A provider outage must be a visible failure, not a wrong answer.
		if errors.Is(err, answer.ErrGenerationFailed) {
			h.logger.Error("generation provider failure",
				"request_id", requestIDFromContext(r.Context()),
				"session_id", sessionID,
				"error", err,
			)
			writeError(w, http.StatusBadGateway, "generation_failed", "the assistant is temporarily unavailable", h.logger)
			return
		}

		h.logger.Error("chat processing failed",
			"request_id", requestIDFromContext(r.Context()),
			"session_id", sessionID,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:   result.Reply,
		Intent:  result.Intent.String(),
		History: result.History,
	}, h.logger)
}
