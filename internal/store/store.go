package store

import (
	"database/sql"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

// Store provides persistence for indexed files and their chunk embeddings.
type Store interface {
	// ReplaceFile atomically replaces the record for f.Path and all of its
	// chunks. A reader never observes a half-replaced chunk set.
	ReplaceFile(f FileRecord, chunks []ChunkRecord) error
	// AllChunks returns every stored chunk across all files in a stable
	// order (file insertion order, then chunk index).
	AllChunks() ([]StoredChunk, error)
	// FilesModifiedAfter returns files modified strictly after cutoff,
	// newest first.
	FilesModifiedAfter(cutoff time.Time) ([]FileRecord, error)
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and initializes
// the schema. The handle is meant to be opened once at startup and closed
// at shutdown.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ReplaceFile(f FileRecord, chunks []ChunkRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Cascade removes any chunks belonging to the old record.
	if _, err := tx.Exec("DELETE FROM files WHERE path = ?", f.Path); err != nil {
		return fmt.Errorf("delete existing file %s: %w", f.Path, err)
	}

	res, err := tx.Exec(
		"INSERT INTO files (path, content, modified_at, size_bytes, extension) VALUES (?, ?, ?, ?, ?)",
		f.Path, f.Content, f.ModifiedAt.UnixNano(), f.SizeBytes, f.Extension,
	)
	if err != nil {
		return fmt.Errorf("insert file %s: %w", f.Path, err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO chunks (file_id, chunk_index, content, embedding) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chunks {
		blob, err := sqlite_vec.SerializeFloat32(c.Embedding)
		if err != nil {
			return fmt.Errorf("serialize embedding for chunk %d: %w", c.Index, err)
		}
		if _, err := stmt.Exec(fileID, c.Index, c.Content, blob); err != nil {
			return fmt.Errorf("insert chunk %d of %s: %w", c.Index, f.Path, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AllChunks() ([]StoredChunk, error) {
	rows, err := s.db.Query(`
		SELECT f.path, c.chunk_index, c.content, c.embedding, f.modified_at
		FROM chunks c
		JOIN files f ON f.id = c.file_id
		ORDER BY c.file_id, c.chunk_index
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []StoredChunk
	for rows.Next() {
		var (
			c    StoredChunk
			blob []byte
			mod  int64
		)
		if err := rows.Scan(&c.FilePath, &c.ChunkIndex, &c.Content, &blob, &mod); err != nil {
			return nil, err
		}
		c.Embedding, err = decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %d of %s: %w", c.ChunkIndex, c.FilePath, err)
		}
		c.ModifiedAt = time.Unix(0, mod)
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) FilesModifiedAfter(cutoff time.Time) ([]FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, path, content, modified_at, size_bytes, extension
		FROM files
		WHERE modified_at > ?
		ORDER BY modified_at DESC
	`, cutoff.UnixNano())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var (
			f   FileRecord
			mod int64
		)
		if err := rows.Scan(&f.ID, &f.Path, &f.Content, &mod, &f.SizeBytes, &f.Extension); err != nil {
			return nil, err
		}
		f.ModifiedAt = time.Unix(0, mod)
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
