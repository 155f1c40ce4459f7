// Package assistant orchestrates the question-answering pipeline:
// retrieve knowledge, compose the prompt, generate the answer, record
// the query.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyreone/fyreone/internal/knowledge"
	"github.com/fyreone/fyreone/internal/log"
	"github.com/fyreone/fyreone/internal/store"
)

// ErrEmptyQuestion indicates a blank or whitespace-only question.
var ErrEmptyQuestion = errors.New("question required")

// sessionQuota is the advisory per-session question allowance. The
// remaining count is reported to the client but never enforced; it may
// go negative.
const sessionQuota = 100

// maxSources caps the source filenames returned per answer.
const maxSources = 5

// Retriever finds knowledge snippets for a question. Implemented by
// knowledge.Retriever.
type Retriever interface {
	Search(ctx context.Context, query string) []knowledge.Match
}

// Generator produces an answer from a prompt. Implemented by
// groq.Client.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Answer is the result of one pipeline run.
type Answer struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	Remaining int      `json:"remaining"`
}

// Assistant runs the question-answering pipeline.
type Assistant struct {
	retriever Retriever
	generator Generator
	store     *store.Store
	logger    log.Logger
	tracer    trace.Tracer
}

// New creates an assistant.
func New(retriever Retriever, generator Generator, st *store.Store, logger log.Logger) *Assistant {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Assistant{
		retriever: retriever,
		generator: generator,
		store:     st,
		logger:    logger.With("component", "assistant"),
		tracer:    otel.Tracer("github.com/fyreone/fyreone/internal/assistant"),
	}
}

// Ask answers a question for a session. The session is created on first
// use, recording the caller's IP; each answered question (including the
// fallback) decrements the advisory quota by one.
//
// Retrieval failures degrade to the fallback answer. Generation failures
// propagate before anything is persisted, so the session counter is not
// charged for an answer the caller never got.
func (a *Assistant) Ask(ctx context.Context, question, sessionID, ip string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	ctx, retrieveSpan := a.tracer.Start(ctx, "assistant.retrieve")
	matches := a.retriever.Search(ctx, question)
	retrieveSpan.End()

	if len(matches) == 0 {
		remaining := a.recordAsked(ctx, sessionID, ip, "")
		a.logger.Debug("no knowledge found, using fallback",
			"session_id", sessionID,
			"remaining", remaining,
		)
		return &Answer{
			Answer:    fallbackAnswer,
			Sources:   []string{},
			Remaining: remaining,
		}, nil
	}

	prompt := buildPrompt(question, matches)

	ctx, generateSpan := a.tracer.Start(ctx, "assistant.generate")
	text, err := a.generator.Complete(ctx, prompt)
	generateSpan.End()
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	remaining := a.recordAsked(ctx, sessionID, ip, question)

	sources := sourceList(matches)
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}

	a.logger.Debug("question answered",
		"session_id", sessionID,
		"matches", len(matches),
		"sources", len(sources),
		"remaining", remaining,
	)
	return &Answer{
		Answer:    text,
		Sources:   sources,
		Remaining: remaining,
	}, nil
}

// recordAsked charges one question to the session and, when the question
// produced a real answer, appends it to the query log. Returns the
// remaining advisory quota. Storage failures are absorbed by the store.
func (a *Assistant) recordAsked(ctx context.Context, sessionID, ip, loggedQuestion string) int {
	_, span := a.tracer.Start(ctx, "assistant.persist")
	defer span.End()

	remaining := sessionQuota
	_ = a.store.Update(func(doc *store.Document) error {
		sess := doc.EnsureSession(sessionID, ip)
		sess.Count++
		remaining = sessionQuota - sess.Count

		if loggedQuestion != "" {
			doc.Queries = append(doc.Queries, store.QueryEvent{
				SessionID: sessionID,
				Question:  loggedQuestion,
				IP:        ip,
				Timestamp: time.Now(),
			})
		}
		return nil
	})
	return remaining
}
