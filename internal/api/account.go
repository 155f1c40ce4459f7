package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fyreone/fyreone/internal/account"
	"github.com/fyreone/fyreone/internal/log"
)

// accountHandler serves POST /signup and POST /login.
type accountHandler struct {
	accounts   *account.Service
	trustProxy bool
	logger     log.Logger
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the success body for both signup and login.
type authResponse struct {
	Success bool          `json:"success"`
	User    *account.User `json:"user"`
}

func (h *accountHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	client := extractClientInfo(r, h.trustProxy)
	user, err := h.accounts.Signup(account.SignupParams{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		IP:        client.IP,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "missing_fields", "All fields required", h.logger)
		case errors.Is(err, account.ErrShortPassword):
			writeError(w, http.StatusBadRequest, "short_password", "Password must be at least 6 characters", h.logger)
		case errors.Is(err, account.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "email_taken", "Email already registered. Please log in.", h.logger)
		default:
			h.logger.Error("signup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Success: true, User: user})
}

func (h *accountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	client := extractClientInfo(r, h.trustProxy)
	user, err := h.accounts.Login(account.LoginParams{
		Email:     req.Email,
		Password:  req.Password,
		IP:        client.IP,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "missing_fields", "Email and password required", h.logger)
		case errors.Is(err, account.ErrUnknownEmail):
			writeError(w, http.StatusUnauthorized, "unknown_email", "No account found. Please sign up first.", h.logger)
		case errors.Is(err, account.ErrWrongPassword):
			writeError(w, http.StatusUnauthorized, "wrong_password", "Incorrect password", h.logger)
		default:
			h.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Success: true, User: user})
}
