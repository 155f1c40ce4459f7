package app

import (
	"context"
	"errors"
	"testing"

	"github.com/fyreone/fyreone/internal/config"
	"github.com/fyreone/fyreone/internal/log"
)

// testConfig returns a valid configuration backed by a temp directory,
// with no provider keys set.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:          8001,
		CORSOrigins:   []string{"*"},
		PineconeIndex: config.DefaultPineconeIndex,
		GroqModel:     config.DefaultGroqModel,
		EmbedModel:    config.DefaultEmbedModel,
		Temperature:   0.3,
		MaxTokens:     1024,
		TopK:          5,
		DataDir:       t.TempDir(),
		AdminPassword: "test-password",
		Environment:   "dev",
	}
}

func TestSetup(t *testing.T) {
	cfg := testConfig(t)

	a, err := Setup(context.Background(), cfg, log.NewNop())
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			t.Errorf("Close() error: %v", closeErr)
		}
	}()

	if a.Store == nil {
		t.Error("Setup() left Store nil")
	}
	if a.Retriever == nil {
		t.Error("Setup() left Retriever nil")
	}
	if a.Assistant == nil {
		t.Error("Setup() left Assistant nil")
	}
	if a.Accounts == nil {
		t.Error("Setup() left Accounts nil")
	}

	// No API keys in testConfig: every provider reports unconfigured.
	if a.Embedder.Configured() {
		t.Error("Embedder.Configured() = true without HF_API_KEY")
	}
	if a.Index.Configured() {
		t.Error("Index.Configured() = true without PINECONE_API_KEY")
	}
	if a.Generator.Configured() {
		t.Error("Generator.Configured() = true without GROQ_API_KEY")
	}
}

func TestSetup_ConfiguredProviders(t *testing.T) {
	cfg := testConfig(t)
	cfg.HFAPIKey = "hf-test"
	cfg.PineconeAPIKey = "pc-test"
	cfg.GroqAPIKey = "gsk-test"

	a, err := Setup(context.Background(), cfg, log.NewNop())
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	defer a.Close()

	if !a.Embedder.Configured() {
		t.Error("Embedder.Configured() = false with HF_API_KEY set")
	}
	if !a.Index.Configured() {
		t.Error("Index.Configured() = false with PINECONE_API_KEY set")
	}
	if !a.Generator.Configured() {
		t.Error("Generator.Configured() = false with GROQ_API_KEY set")
	}
}

func TestApp_Close(t *testing.T) {
	tests := []struct {
		name     string
		setupApp func() *App
		wantErr  bool
	}{
		{
			name:     "zero app",
			setupApp: func() *App { return &App{} },
			wantErr:  false,
		},
		{
			name: "noop tracing shutdown",
			setupApp: func() *App {
				return &App{
					logger:          log.NewNop(),
					tracingShutdown: func(context.Context) error { return nil },
				}
			},
			wantErr: false,
		},
		{
			name: "failing tracing shutdown",
			setupApp: func() *App {
				return &App{
					logger:          log.NewNop(),
					tracingShutdown: func(context.Context) error { return errors.New("flush failed") },
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setupApp().Close()
			if tt.wantErr && err == nil {
				t.Error("Close() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Close() error: %v", err)
			}
		})
	}
}
