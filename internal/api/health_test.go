package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth_AllConfigured(t *testing.T) {
	h := &healthHandler{providers: ProviderStatus{Pinecone: true, Groq: true, Embeddings: true}}

	w := httptest.NewRecorder()
	h.health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	want := healthResponse{
		Status:     "ok",
		Service:    "FyreOne AI",
		Pinecone:   "connected",
		Groq:       "connected",
		Embeddings: "configured",
	}
	if resp != want {
		t.Errorf("health = %+v, want %+v", resp, want)
	}
}

func TestHealth_NothingConfigured(t *testing.T) {
	h := &healthHandler{}

	w := httptest.NewRecorder()
	h.health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("status = %q, degraded deploys still report ok", resp.Status)
	}
	if resp.Pinecone != "not configured" || resp.Groq != "not configured" || resp.Embeddings != "not configured" {
		t.Errorf("providers = %+v, want all not configured", resp)
	}
}
