// Package knowledge retrieves fire-safety document snippets relevant to
// a question, by embedding the question and querying the vector index.
//
// Retrieval is best-effort: every failure inside Search is logged and
// absorbed, so the assistant can always fall back to a canned answer
// instead of surfacing provider errors to the caller.
package knowledge

import (
	"context"

	"github.com/fyreone/fyreone/internal/log"
	"github.com/fyreone/fyreone/internal/pinecone"
)

// Embedder converts text to a vector. Implemented by embedding.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index finds nearest neighbours for a vector. Implemented by
// pinecone.Client.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int) ([]pinecone.Match, error)
}

// Match is one retrieved snippet with its source document.
type Match struct {
	Text     string
	Filename string
	Score    float64
}

// Retriever embeds questions and queries the index.
type Retriever struct {
	embedder Embedder
	index    Index
	topK     int
	logger   log.Logger
}

// NewRetriever creates a retriever returning at most topK matches per
// search.
func NewRetriever(embedder Embedder, index Index, topK int, logger log.Logger) *Retriever {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   logger.With("component", "knowledge"),
	}
}

// Search returns snippets relevant to query, best first. Never returns
// an error: embedding or index failures yield an empty result.
func (r *Retriever) Search(ctx context.Context, query string) []Match {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Warn("embedding failed", "error", err)
		return nil
	}

	found, err := r.index.Query(ctx, vector, r.topK)
	if err != nil {
		r.logger.Warn("index query failed", "error", err)
		return nil
	}

	matches := make([]Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, Match{
			Text:     m.Metadata.Text,
			Filename: m.Metadata.Filename,
			Score:    m.Score,
		})
	}

	r.logger.Debug("knowledge search complete", "matches", len(matches))
	return matches
}
