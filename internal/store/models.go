package store

import "time"

// FileRecord represents an indexed file. modified_at is stored as unix
// nanoseconds so recency comparisons are exact and timezone-free.
type FileRecord struct {
	ID         int64
	Path       string
	Content    string
	ModifiedAt time.Time
	SizeBytes  int64
	Extension  string
}

// ChunkRecord is one chunk of a file with its embedding, identified by
// its position in the file's chunk sequence.
type ChunkRecord struct {
	Index     int
	Content   string
	Embedding []float32
}

// StoredChunk is a chunk read back from the store, paired with its
// owning file's path and modification time.
type StoredChunk struct {
	FilePath   string
	ChunkIndex int
	Content    string
	Embedding  []float32
	ModifiedAt time.Time
}
