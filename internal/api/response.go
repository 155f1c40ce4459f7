package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fyreone/fyreone/internal/log"
)

// Error is the body of every error response, wrapped in an "error"
// envelope: {"error": {"code": "...", "message": "..."}}.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error *Error `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
// Uses buffer-first strategy to ensure headers are only sent after successful encoding.
// This allows returning a proper 500 error if JSON encoding fails.
func writeJSON(w http.ResponseWriter, status int, data any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Content-Type-Options", "nosniff") // Prevent MIME type sniffing attacks
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError writes a structured error response. The message is safe for
// end users; anything internal belongs in the log, not the body.
func writeError(w http.ResponseWriter, status int, code, message string, logger log.Logger) {
	if logger != nil {
		logger.Debug("request rejected", "status", status, "code", code)
	}
	writeJSON(w, status, errorEnvelope{Error: &Error{Code: code, Message: message}})
}
