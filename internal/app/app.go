// Package app provides application initialization and dependency wiring.
//
// App is the container that holds the document store, the provider
// clients, and the question pipeline. cmd/serve builds one App per
// process; tests build them against a temp directory with no API keys.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fyreone/fyreone/internal/account"
	"github.com/fyreone/fyreone/internal/assistant"
	"github.com/fyreone/fyreone/internal/config"
	"github.com/fyreone/fyreone/internal/embedding"
	"github.com/fyreone/fyreone/internal/groq"
	"github.com/fyreone/fyreone/internal/knowledge"
	"github.com/fyreone/fyreone/internal/log"
	"github.com/fyreone/fyreone/internal/pinecone"
	"github.com/fyreone/fyreone/internal/store"
)

// closeTimeout bounds the trace flush during shutdown.
const closeTimeout = 5 * time.Second

// App is the core application container.
type App struct {
	Config *config.Config

	// Core services
	Store     *store.Store
	Embedder  *embedding.Client
	Index     *pinecone.Client
	Generator *groq.Client
	Retriever *knowledge.Retriever
	Assistant *assistant.Assistant
	Accounts  *account.Service

	logger          log.Logger
	tracingShutdown func(context.Context) error
}

// Close gracefully shuts down all resources. The document store needs
// no teardown: every operation opens and closes the data file itself.
func (a *App) Close() error {
	if a.logger != nil {
		a.logger.Info("shutting down application")
	}

	if a.tracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := a.tracingShutdown(ctx); err != nil {
			return fmt.Errorf("flushing traces: %w", err)
		}
	}

	return nil
}
