package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"semdex/internal/embedder"
	"semdex/internal/store"
)

// Result is one ranked chunk.
type Result struct {
	FilePath   string
	Content    string
	Score      float64
	ModifiedAt time.Time
}

// Searcher ranks stored chunks against a query by cosine similarity.
//
// Every query is a full scan over all stored chunks — O(N·D) for N chunks
// of dimension D. That is deliberate: the corpus is a single developer's
// codebase, and the exact top-K guarantee of a brute-force scan is worth
// more here than the speed of an approximate index.
type Searcher struct {
	store    store.Store
	embedder embedder.Embedder
}

// New creates a Searcher over the given store and embedder.
func New(st store.Store, emb embedder.Embedder) *Searcher {
	return &Searcher{store: st, embedder: emb}
}

// Search embeds the query once and returns the limit most similar chunks,
// sorted by descending score with ties kept in retrieval order. A limit of
// zero returns an empty result without touching the embedder or the store.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if limit < 0 {
		return nil, fmt.Errorf("limit must be >= 0, got %d", limit)
	}
	if limit == 0 {
		return []Result{}, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(vectors))
	}
	queryVec := vectors[0]

	chunks, err := s.store.AllChunks()
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	results := make([]Result, 0, len(chunks))
	for _, c := range chunks {
		score, err := cosineSimilarity(queryVec, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %d of %s: %w", c.ChunkIndex, c.FilePath, err)
		}
		results = append(results, Result{
			FilePath:   c.FilePath,
			Content:    c.Content,
			Score:      score,
			ModifiedAt: c.ModifiedAt,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

// cosineSimilarity is the dot product divided by the product of the two
// vectors' magnitudes. Mismatched dimensionality is an error, never a
// silent zero. A zero vector scores zero against everything.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
