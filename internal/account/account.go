// Package account handles signup and login against the document store.
package account

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fyreone/fyreone/internal/log"
	"github.com/fyreone/fyreone/internal/store"
)

// Sentinel errors. Check with errors.Is(). The API layer maps these to
// status codes and user-facing messages.
var (
	ErrMissingFields = errors.New("required fields missing")
	ErrShortPassword = errors.New("password too short")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUnknownEmail  = errors.New("no account for email")
	ErrWrongPassword = errors.New("wrong password")
)

// minPasswordLength is the minimum password length in characters.
const minPasswordLength = 6

// User is the safe view of an account returned to clients. It never
// carries the password hash.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Verified bool   `json:"verified"`
}

// SignupParams carries a signup request plus the client info recorded
// with the new account.
type SignupParams struct {
	Name      string
	Email     string
	Phone     string
	Password  string
	IP        string
	UserAgent string
}

// LoginParams carries a login request plus the client info recorded in
// the login log.
type LoginParams struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// Service implements account operations over the document store.
type Service struct {
	store  *store.Store
	logger log.Logger
}

// NewService creates an account service.
func NewService(st *store.Store, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{
		store:  st,
		logger: logger.With("component", "account"),
	}
}

// HashPassword returns the SHA-256 hex digest of password. Deterministic
// so stored hashes can be compared directly.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// passwordMatches compares a stored hash against a candidate password in
// constant time.
func passwordMatches(hash, password string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(HashPassword(password))) == 1
}

// Signup registers a new account. Name, email and password are required;
// the password must be at least six characters; the email must not
// belong to an existing account (case-insensitive).
func (s *Service) Signup(params SignupParams) (*User, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)
	phone := strings.TrimSpace(params.Phone)

	if name == "" || email == "" || params.Password == "" {
		return nil, ErrMissingFields
	}
	if utf8.RuneCountInString(params.Password) < minPasswordLength {
		return nil, ErrShortPassword
	}

	var user *User
	err := s.store.Update(func(doc *store.Document) error {
		if doc.FindAccount(email) != nil {
			return ErrEmailTaken
		}

		now := time.Now()
		acct := &store.Account{
			Name:            name,
			Email:           email,
			Phone:           phone,
			PasswordHash:    HashPassword(params.Password),
			RegisteredAt:    now,
			SignupIP:        params.IP,
			SignupUserAgent: params.UserAgent,
			LastLogin:       now,
			LastLoginIP:     params.IP,
			LoginCount:      1,
		}
		doc.Accounts = append(doc.Accounts, acct)

		user = &User{Name: acct.Name, Email: acct.Email, Phone: acct.Phone, Verified: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("new signup", "email", email, "ip", params.IP)
	return user, nil
}

// Login authenticates an existing account, refreshes its last-login
// fields and appends a login event. Unknown email and wrong password are
// distinguishable errors; the API layer decides how much to reveal.
func (s *Service) Login(params LoginParams) (*User, error) {
	email := strings.TrimSpace(params.Email)

	if email == "" || params.Password == "" {
		return nil, ErrMissingFields
	}

	var user *User
	err := s.store.Update(func(doc *store.Document) error {
		acct := doc.FindAccount(email)
		if acct == nil {
			return ErrUnknownEmail
		}
		if !passwordMatches(acct.PasswordHash, params.Password) {
			return ErrWrongPassword
		}

		now := time.Now()
		acct.LastLogin = now
		acct.LastLoginIP = params.IP
		acct.LoginCount++
		doc.Logins = append(doc.Logins, store.LoginEvent{
			Email:     params.Email,
			Timestamp: now,
			IP:        params.IP,
			UserAgent: params.UserAgent,
		})

		user = &User{Name: acct.Name, Email: acct.Email, Phone: acct.Phone, Verified: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("login", "email", email, "ip", params.IP)
	return user, nil
}
