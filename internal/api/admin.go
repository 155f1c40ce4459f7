package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/fyreone/fyreone/internal/log"
	"github.com/fyreone/fyreone/internal/store"
)

// maxQueriesReturned caps the query log page served to the dashboard.
const maxQueriesReturned = 500

// adminHandler serves the dashboard endpoints. Auth is a shared admin
// password: POST /admin/auth takes it in the body, the GET endpoints as
// a query parameter.
type adminHandler struct {
	store    *store.Store
	password string
	logger   log.Logger
}

// authorized compares the presented password against the configured one
// in constant time.
func (h *adminHandler) authorized(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(h.password)) == 1
}

type adminAuthRequest struct {
	Password string `json:"password"`
}

func (h *adminHandler) auth(w http.ResponseWriter, r *http.Request) {
	var req adminAuthRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	if !h.authorized(req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_password", "Invalid password", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// leadView is an account as shown on the dashboard: everything except
// the password hash.
type leadView struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	RegisteredAt    time.Time `json:"registered_at"`
	SignupIP        string    `json:"signup_ip"`
	SignupUserAgent string    `json:"signup_user_agent"`
	LastLogin       time.Time `json:"last_login"`
	LastLoginIP     string    `json:"last_login_ip"`
	LoginCount      int       `json:"login_count"`
}

type leadsResponse struct {
	Total int        `json:"total"`
	Users []leadView `json:"users"`
}

func (h *adminHandler) leads(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r.URL.Query().Get("password")) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", h.logger)
		return
	}

	doc := h.store.Load()

	users := make([]leadView, 0, len(doc.Accounts))
	for _, a := range doc.Accounts {
		users = append(users, leadView{
			Name:            a.Name,
			Email:           a.Email,
			Phone:           a.Phone,
			RegisteredAt:    a.RegisteredAt,
			SignupIP:        a.SignupIP,
			SignupUserAgent: a.SignupUserAgent,
			LastLogin:       a.LastLogin,
			LastLoginIP:     a.LastLoginIP,
			LoginCount:      a.LoginCount,
		})
	}
	slices.SortStableFunc(users, func(a, b leadView) int {
		return b.RegisteredAt.Compare(a.RegisteredAt)
	})

	writeJSON(w, http.StatusOK, leadsResponse{Total: len(users), Users: users})
}

type statsResponse struct {
	TotalUsers   int `json:"total_users"`
	TotalQueries int `json:"total_queries"`
	TotalLogins  int `json:"total_logins"`
	UsersToday   int `json:"users_today"`
	QueriesToday int `json:"queries_today"`
	LoginsToday  int `json:"logins_today"`
}

func (h *adminHandler) stats(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r.URL.Query().Get("password")) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", h.logger)
		return
	}

	doc := h.store.Load()
	now := time.Now()

	resp := statsResponse{
		TotalUsers:   len(doc.Accounts),
		TotalQueries: len(doc.Queries),
		TotalLogins:  len(doc.Logins),
	}
	for _, a := range doc.Accounts {
		if sameDay(a.RegisteredAt, now) {
			resp.UsersToday++
		}
	}
	for _, q := range doc.Queries {
		if sameDay(q.Timestamp, now) {
			resp.QueriesToday++
		}
	}
	for _, l := range doc.Logins {
		if sameDay(l.Timestamp, now) {
			resp.LoginsToday++
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type queriesResponse struct {
	Total   int                `json:"total"`
	Queries []store.QueryEvent `json:"queries"`
}

func (h *adminHandler) queries(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r.URL.Query().Get("password")) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", h.logger)
		return
	}

	doc := h.store.Load()

	queries := make([]store.QueryEvent, 0, len(doc.Queries))
	queries = append(queries, doc.Queries...)
	slices.SortStableFunc(queries, func(a, b store.QueryEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	total := len(queries)
	if len(queries) > maxQueriesReturned {
		queries = queries[:maxQueriesReturned]
	}

	writeJSON(w, http.StatusOK, queriesResponse{Total: total, Queries: queries})
}

// sameDay reports whether two instants fall on the same local calendar
// day.
func sameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
