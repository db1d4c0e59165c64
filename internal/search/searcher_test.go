package search

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"semdex/internal/index"
	"semdex/internal/store"
	"semdex/internal/walker"
)

// fakeStore implements store.Store in memory and records calls.
type fakeStore struct {
	chunks     []store.StoredChunk
	files      []store.FileRecord
	allCalls   int
	lastCutoff time.Time
}

func (f *fakeStore) ReplaceFile(store.FileRecord, []store.ChunkRecord) error { return nil }

func (f *fakeStore) AllChunks() ([]store.StoredChunk, error) {
	f.allCalls++
	return f.chunks, nil
}

func (f *fakeStore) FilesModifiedAfter(cutoff time.Time) ([]store.FileRecord, error) {
	f.lastCutoff = cutoff
	return f.files, nil
}

func (f *fakeStore) Close() error { return nil }

// stubEmbedder returns the same fixed vector for every text.
type stubEmbedder struct {
	vec   []float32
	calls int
	err   error
}

func (e *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = e.vec
	}
	return out, nil
}

func chunkWith(path, content string, vec []float32) store.StoredChunk {
	return store.StoredChunk{
		FilePath:   path,
		Content:    content,
		Embedding:  vec,
		ModifiedAt: time.Now(),
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0.3, -0.7, 2.1},
		{5},
		{-1, -2, -3, -4},
	}
	for _, v := range vectors {
		got, err := cosineSimilarity(v, v)
		if err != nil {
			t.Fatalf("cosine(%v, %v): %v", v, v, err)
		}
		if math.Abs(got-1.0) > 1e-6 {
			t.Fatalf("cosine(v, v) = %v, want 1.0", got)
		}
	}
}

func TestCosineSimilarity_OppositeIsMinusOne(t *testing.T) {
	v := []float32{0.5, -1.25, 3}
	neg := make([]float32, len(v))
	for i := range v {
		neg[i] = -v[i]
	}
	got, err := cosineSimilarity(v, neg)
	if err != nil {
		t.Fatalf("cosine: %v", err)
	}
	if math.Abs(got+1.0) > 1e-6 {
		t.Fatalf("cosine(v, -v) = %v, want -1.0", got)
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	if _, err := cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
}

func TestSearch_InputErrors(t *testing.T) {
	st := &fakeStore{}
	emb := &stubEmbedder{vec: []float32{1}}
	s := New(st, emb)

	if _, err := s.Search(context.Background(), "", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
	if _, err := s.Search(context.Background(), "q", -1); err == nil {
		t.Fatal("expected error for negative limit")
	}
	if st.allCalls != 0 || emb.calls != 0 {
		t.Fatal("input errors must be surfaced before touching collaborators")
	}
}

func TestSearch_LimitZeroIsEmpty(t *testing.T) {
	st := &fakeStore{chunks: []store.StoredChunk{chunkWith("a.go", "x", []float32{1})}}
	emb := &stubEmbedder{vec: []float32{1}}
	s := New(st, emb)

	results, err := s.Search(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result for limit 0, got %d", len(results))
	}
	if st.allCalls != 0 || emb.calls != 0 {
		t.Fatal("limit 0 should not touch the embedder or the store")
	}
}

func TestSearch_SortedDescendingStableTies(t *testing.T) {
	// Query vector (1, 0): scores are the cosine against it.
	st := &fakeStore{chunks: []store.StoredChunk{
		chunkWith("low.go", "low", []float32{0, 1}),       // 0.0
		chunkWith("tie1.go", "tie1", []float32{1, 1}),     // ~0.707
		chunkWith("high.go", "high", []float32{1, 0}),     // 1.0
		chunkWith("tie2.go", "tie2", []float32{2, 2}),     // ~0.707, ties with tie1
		chunkWith("mid.go", "mid", []float32{0.5, -0.25}), // ~0.894
	}}
	s := New(st, &stubEmbedder{vec: []float32{1, 0}})

	results, err := s.Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// Limit above the chunk count returns everything.
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i := 0; i+1 < len(results); i++ {
		if results[i].Score < results[i+1].Score {
			t.Fatalf("results not sorted descending at %d: %v < %v", i, results[i].Score, results[i+1].Score)
		}
	}
	want := []string{"high.go", "mid.go", "tie1.go", "tie2.go", "low.go"}
	for i, w := range want {
		if results[i].FilePath != w {
			t.Fatalf("result %d = %s, want %s (ties must keep retrieval order)", i, results[i].FilePath, w)
		}
	}

	top, err := s.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(top) != 2 || top[0].FilePath != "high.go" || top[1].FilePath != "mid.go" {
		t.Fatalf("unexpected top-2: %+v", top)
	}
}

func TestSearch_MismatchedChunkDimensionFails(t *testing.T) {
	st := &fakeStore{chunks: []store.StoredChunk{
		chunkWith("a.go", "x", []float32{1, 2, 3}),
	}}
	s := New(st, &stubEmbedder{vec: []float32{1, 2}})

	if _, err := s.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error for mismatched chunk dimensionality")
	}
}

// countlessEmbedder violates the one-vector-per-text contract.
type countlessEmbedder struct{}

func (countlessEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}

func TestSearch_WrongEmbeddingCountFails(t *testing.T) {
	st := &fakeStore{}
	s := New(st, countlessEmbedder{})

	if _, err := s.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error when the embedder returns the wrong vector count")
	}
	if st.allCalls != 0 {
		t.Fatal("store must not be scanned when the query embedding is missing")
	}
}

func TestSearch_EmbedderFailurePropagates(t *testing.T) {
	st := &fakeStore{}
	s := New(st, &stubEmbedder{err: errors.New("rate limited")})

	if _, err := s.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected embedder failure to fail the search")
	}
	if st.allCalls != 0 {
		t.Fatal("store must not be scanned when the query embed fails")
	}
}

func TestRecentFiles_CutoffComputation(t *testing.T) {
	st := &fakeStore{}

	if _, err := RecentFiles(st, -1); err == nil {
		t.Fatal("expected error for negative days")
	}

	before := time.Now().Add(-7 * 24 * time.Hour)
	if _, err := RecentFiles(st, 7); err != nil {
		t.Fatalf("recent files: %v", err)
	}
	after := time.Now().Add(-7 * 24 * time.Hour)
	if st.lastCutoff.Before(before) || st.lastCutoff.After(after) {
		t.Fatalf("cutoff %v outside [%v, %v]", st.lastCutoff, before, after)
	}

	// days = 0 means "after now": the cutoff is the call time itself.
	now := time.Now()
	if _, err := RecentFiles(st, 0); err != nil {
		t.Fatalf("recent files: %v", err)
	}
	if st.lastCutoff.Before(now) {
		t.Fatalf("cutoff %v is before call time %v", st.lastCutoff, now)
	}
}

func TestSearch_EndToEnd(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	emb := &stubEmbedder{vec: []float32{0.6, 0.8}}
	ix := index.New(st, emb, index.Config{ChunkSize: 500})

	n, err := ix.IndexFiles(context.Background(), []walker.File{{
		Path:      "/src/a.txt",
		RelPath:   "a.txt",
		Content:   "line1\nline2\n",
		ModTime:   time.Now(),
		Size:      12,
		Extension: "txt",
	}})
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 file indexed, got %d", n)
	}

	results, err := New(st, emb).Search(context.Background(), "what are the lines", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(results))
	}
	r := results[0]
	if r.FilePath != "a.txt" {
		t.Fatalf("unexpected result path: %q", r.FilePath)
	}
	if r.Content != "line1\nline2" {
		t.Fatalf("unexpected result content: %q", r.Content)
	}
	if math.Abs(r.Score-1.0) > 1e-6 {
		t.Fatalf("expected score 1.0 for identical vectors, got %v", r.Score)
	}

	recent, err := RecentFiles(st, 7)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Path != "a.txt" {
		t.Fatalf("unexpected recent files: %+v", recent)
	}
	none, err := RecentFiles(st, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("recent(0) should be empty, got %d", len(none))
	}
}
