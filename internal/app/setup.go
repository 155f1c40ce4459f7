package app

import (
	"context"
	"fmt"

	"github.com/fyreone/fyreone/internal/account"
	"github.com/fyreone/fyreone/internal/assistant"
	"github.com/fyreone/fyreone/internal/config"
	"github.com/fyreone/fyreone/internal/embedding"
	"github.com/fyreone/fyreone/internal/groq"
	"github.com/fyreone/fyreone/internal/knowledge"
	"github.com/fyreone/fyreone/internal/log"
	"github.com/fyreone/fyreone/internal/observability"
	"github.com/fyreone/fyreone/internal/pinecone"
	"github.com/fyreone/fyreone/internal/store"
)

// ServiceName identifies this service in the tracing backend.
const ServiceName = "fyreone"

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
//
// Missing provider API keys are not errors: the affected clients report
// Configured() == false, /health surfaces the gaps, and a warning is
// logged for the operator.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, logger: logger}

	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		Environment: cfg.Environment,
		ServiceName: ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	a.tracingShutdown = shutdown

	st, err := store.New(cfg.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	a.Store = st

	a.Embedder = provideEmbedder(cfg, logger)
	a.Index = provideIndex(cfg, logger)
	a.Generator = provideGenerator(cfg, logger)
	warnUnconfigured(a, logger)

	a.Retriever = knowledge.NewRetriever(a.Embedder, a.Index, cfg.TopK, logger)
	a.Assistant = assistant.New(a.Retriever, a.Generator, a.Store, logger)
	a.Accounts = account.NewService(a.Store, logger)

	return a, nil
}

// provideEmbedder creates the HuggingFace embedding client.
func provideEmbedder(cfg *config.Config, logger log.Logger) *embedding.Client {
	return embedding.NewClient(embedding.Config{
		APIKey: cfg.HFAPIKey,
		Model:  cfg.EmbedModel,
	}, logger)
}

// provideIndex creates the Pinecone client. When PINECONE_HOST is set
// the control-plane host lookup is skipped.
func provideIndex(cfg *config.Config, logger log.Logger) *pinecone.Client {
	return pinecone.NewClient(pinecone.Config{
		APIKey: cfg.PineconeAPIKey,
		Index:  cfg.PineconeIndex,
		Host:   cfg.PineconeHost,
	}, logger)
}

// provideGenerator creates the Groq completion client.
func provideGenerator(cfg *config.Config, logger log.Logger) *groq.Client {
	return groq.NewClient(groq.Config{
		APIKey:      cfg.GroqAPIKey,
		Model:       cfg.GroqModel,
		Temperature: float64(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
	}, logger)
}

// warnUnconfigured logs a startup warning for every provider missing
// its API key.
func warnUnconfigured(a *App, logger log.Logger) {
	if !a.Index.Configured() {
		logger.Warn("PINECONE_API_KEY not set, knowledge retrieval disabled")
	}
	if !a.Embedder.Configured() {
		logger.Warn("HF_API_KEY not set, knowledge retrieval disabled")
	}
	if !a.Generator.Configured() {
		logger.Warn("GROQ_API_KEY not set, every question gets the fallback answer")
	}
}
