package index

import (
	"context"
	"fmt"

	"semdex/internal/chunker"
	"semdex/internal/embedder"
	"semdex/internal/store"
	"semdex/internal/walker"
)

// Default sizing for chunking and embedding batches.
const (
	DefaultChunkSize = 1000
	DefaultBatchSize = 20
)

// Config holds the indexer configuration.
type Config struct {
	ChunkSize int // max characters per chunk
	BatchSize int // texts per embedding request
}

// Indexer turns enumerated files into stored chunk embeddings.
type Indexer struct {
	store     store.Store
	embedder  embedder.Embedder
	chunkSize int
	batchSize int
}

// New creates an Indexer over the given store and embedder. Zero config
// values fall back to the defaults.
func New(st store.Store, emb embedder.Embedder, cfg Config) *Indexer {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Indexer{
		store:     st,
		embedder:  emb,
		chunkSize: cfg.ChunkSize,
		batchSize: cfg.BatchSize,
	}
}

// IndexFiles indexes the files in list order and returns how many were
// committed. Each file is chunked, embedded batch by batch, and then
// replaced in the store in a single transaction, so a failure partway
// through leaves every earlier file committed and the failing file
// untouched. There is no cross-file transaction.
func (ix *Indexer) IndexFiles(ctx context.Context, files []walker.File) (int, error) {
	indexed := 0
	for _, f := range files {
		texts := chunker.Split(f.Content, ix.chunkSize)

		records := make([]store.ChunkRecord, 0, len(texts))
		for start := 0; start < len(texts); start += ix.batchSize {
			end := min(start+ix.batchSize, len(texts))
			vectors, err := ix.embedder.Embed(ctx, texts[start:end])
			if err != nil {
				return indexed, fmt.Errorf("embed %s: %w", f.RelPath, err)
			}
			for i, v := range vectors {
				records = append(records, store.ChunkRecord{
					Index:     start + i,
					Content:   texts[start+i],
					Embedding: v,
				})
			}
		}

		rec := store.FileRecord{
			Path:       f.RelPath,
			Content:    f.Content,
			ModifiedAt: f.ModTime,
			SizeBytes:  f.Size,
			Extension:  f.Extension,
		}
		if err := ix.store.ReplaceFile(rec, records); err != nil {
			return indexed, fmt.Errorf("store %s: %w", f.RelPath, err)
		}
		indexed++
	}
	return indexed, nil
}
