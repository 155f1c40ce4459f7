package api

import "net/http"

// ProviderStatus reports which external dependencies are configured,
// surfaced by the health endpoint so a deploy without keys is visible
// at a glance.
type ProviderStatus struct {
	Pinecone   bool
	Groq       bool
	Embeddings bool
}

type healthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Pinecone   string `json:"pinecone"`
	Groq       string `json:"groq"`
	Embeddings string `json:"embeddings"`
}

// healthHandler serves GET /health for platform probes and smoke checks.
type healthHandler struct {
	providers ProviderStatus
}

func (h *healthHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Service:    "FyreOne AI",
		Pinecone:   connectionStatus(h.providers.Pinecone),
		Groq:       connectionStatus(h.providers.Groq),
		Embeddings: configuredStatus(h.providers.Embeddings),
	})
}

func connectionStatus(ok bool) string {
	if ok {
		return "connected"
	}
	return "not configured"
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
