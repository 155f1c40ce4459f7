package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fyreone/fyreone/internal/assistant"
	"github.com/fyreone/fyreone/internal/groq"
	"github.com/fyreone/fyreone/internal/log"
)

// maxBodySize limits request bodies on JSON endpoints.
const maxBodySize = 1 << 20 // 1MB

// Asker runs the question-answering pipeline. Implemented by
// assistant.Assistant.
type Asker interface {
	Ask(ctx context.Context, question, sessionID, ip string) (*assistant.Answer, error)
}

// askHandler serves POST /ask.
type askHandler struct {
	assistant  Asker
	trustProxy bool
	logger     log.Logger
}

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

func (h *askHandler) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	client := extractClientInfo(r, h.trustProxy)
	h.logger.Debug("question received",
		"session_id", req.SessionID,
		"ip", client.IP,
		"referer", client.Referer,
	)

	answer, err := h.assistant.Ask(r.Context(), req.Question, req.SessionID, client.IP)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrEmptyQuestion):
			writeError(w, http.StatusBadRequest, "question_required", "Question required", h.logger)
		case errors.Is(err, groq.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, "service_unavailable", "AI service not configured", h.logger)
		default:
			h.logger.Error("answering question failed", "error", err)
			writeError(w, http.StatusInternalServerError, "service_unavailable", "AI service unavailable", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusOK, answer)
}
