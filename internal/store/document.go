package store

import (
	"strings"
	"time"
)

// Document is the aggregate root holding all persisted application state.
// It is serialized as one indented JSON file and rewritten wholesale on
// every mutation; the four collections are always present after Load.
type Document struct {
	// Sessions maps a caller-chosen session ID to its usage counter.
	// The JSON key is "users" for compatibility with existing data files.
	Sessions map[string]*Session `json:"users"`

	// Accounts holds registered user accounts in signup order.
	Accounts []*Account `json:"registered_users"`

	// Queries is the append-only log of answered questions.
	Queries []QueryEvent `json:"queries"`

	// Logins is the append-only log of successful logins.
	Logins []LoginEvent `json:"login_logs"`
}

// Session tracks per-session question usage. Count is monotonically
// non-decreasing; the IP is the one seen when the session was first created.
type Session struct {
	Count int    `json:"count"`
	IP    string `json:"ip"`
}

// Account is a registered user. Accounts are created on signup, mutated on
// every login, and never deleted.
type Account struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	PasswordHash    string    `json:"password_hash"`
	RegisteredAt    time.Time `json:"registered_at"`
	SignupIP        string    `json:"signup_ip"`
	SignupUserAgent string    `json:"signup_user_agent"`
	LastLogin       time.Time `json:"last_login"`
	LastLoginIP     string    `json:"last_login_ip"`
	LoginCount      int       `json:"login_count"`
}

// LoginEvent records one successful login. Immutable once written.
type LoginEvent struct {
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
}

// QueryEvent records one counted question. Immutable once written.
type QueryEvent struct {
	SessionID string    `json:"session_id"`
	Question  string    `json:"question"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDocument returns the canonical empty Document with all four
// collections present and empty.
func NewDocument() *Document {
	return &Document{
		Sessions: make(map[string]*Session),
		Accounts: []*Account{},
		Queries:  []QueryEvent{},
		Logins:   []LoginEvent{},
	}
}

// normalize ensures all collections are non-nil after decoding, so a data
// file written by an older version (or by hand) never produces nil maps.
func (d *Document) normalize() {
	if d.Sessions == nil {
		d.Sessions = make(map[string]*Session)
	}
	if d.Accounts == nil {
		d.Accounts = []*Account{}
	}
	if d.Queries == nil {
		d.Queries = []QueryEvent{}
	}
	if d.Logins == nil {
		d.Logins = []LoginEvent{}
	}
}

// EnsureSession returns the session for id, creating it with the given
// first-seen IP if it does not exist yet.
func (d *Document) EnsureSession(id, ip string) *Session {
	sess, ok := d.Sessions[id]
	if !ok {
		sess = &Session{Count: 0, IP: ip}
		d.Sessions[id] = sess
	}
	return sess
}

// FindAccount looks up an account by email, case-insensitively.
// Returns nil if no account matches. Lookup is a linear scan over the
// small account list.
func (d *Document) FindAccount(email string) *Account {
	want := strings.ToLower(strings.TrimSpace(email))
	for _, a := range d.Accounts {
		if strings.ToLower(a.Email) == want {
			return a
		}
	}
	return nil
}
