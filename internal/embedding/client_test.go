package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fyreone/fyreone/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	}, log.NewNop())
}

func TestEmbed_FlatVector(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.Path, "/pipeline/feature-extraction/test-model"; got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
		if got, want := r.Header.Get("Authorization"), "Bearer test-key"; got != want {
			t.Errorf("Authorization = %q, want %q", got, want)
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Inputs != "fire doors" {
			t.Errorf("inputs = %q, want %q", req.Inputs, "fire doors")
		}
		if !req.Options.WaitForModel {
			t.Error("wait_for_model not set")
		}

		json.NewEncoder(w).Encode([]float32{0.1, 0.2, 0.3})
	})

	vec, err := client.Embed(context.Background(), "fire doors")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("len(vec) = %d, want 3", len(vec))
	}
	if vec[0] != 0.1 || vec[2] != 0.3 {
		t.Errorf("vec = %v", vec)
	}
}

func TestEmbed_BatchOfOne(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]float32{{0.5, 0.6}})
	})

	vec, err := client.Embed(context.Background(), "sprinklers")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 {
		t.Errorf("vec = %v, want [0.5 0.6]", vec)
	}
}

func TestEmbed_TruncatesLongInput(t *testing.T) {
	var gotLen int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		gotLen = len([]rune(req.Inputs))
		json.NewEncoder(w).Encode([]float32{1})
	})

	long := strings.Repeat("x", 4000)
	if _, err := client.Embed(context.Background(), long); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if gotLen != maxInputRunes {
		t.Errorf("sent %d runes, want %d", gotLen, maxInputRunes)
	}
}

func TestEmbed_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.Embed(context.Background(), "ewis")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Embed() error = %v, want ErrUnavailable", err)
	}
}

func TestEmbed_InvalidShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"error":"nope"}`},
		{"string", `"not a vector"`},
		{"empty flat", `[]`},
		{"empty batch", `[[]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Embed(context.Background(), "question")
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("Embed() error = %v, want ErrInvalidResponse", err)
			}
		})
	}
}

func TestEmbed_NotConfigured(t *testing.T) {
	client := NewClient(Config{Model: "test-model"}, log.NewNop())

	if client.Configured() {
		t.Error("Configured() = true without API key")
	}
	_, err := client.Embed(context.Background(), "question")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Embed() error = %v, want ErrNotConfigured", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"toolong", 4, "tool"},
		{"héllo wörld", 7, "héllo w"},
		{"", 5, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
