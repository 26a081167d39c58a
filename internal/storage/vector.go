package storage

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// VectorStore is the dense vector store of spec §6, backed by sqlite-vec's
// vec0 virtual table, one file per spec §5 ("vectors/<model>.db").
type VectorStore struct {
	db        *sql.DB
	dimension int
}

// VectorMatch is one nearest-neighbor result (spec §4.7).
type VectorMatch struct {
	ChunkID  int64
	Distance float64
}

// OpenVectorStore opens (creating if necessary) the vector store at path
// with a vec0 table sized for dimension, per spec §6.
func OpenVectorStore(path string, dimension int) (*VectorStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	db.SetMaxOpenConns(1)

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name='vec_chunks'").Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to probe vector schema: %w", err)
	}
	if count == 0 {
		ddl := fmt.Sprintf(`
			CREATE VIRTUAL TABLE vec_chunks USING vec0(
				chunk_id INTEGER PRIMARY KEY,
				embedding FLOAT[%d],
				language TEXT PARTITION KEY
			)
		`, dimension)
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create vec_chunks table: %w", err)
		}
	}

	return &VectorStore{db: db, dimension: dimension}, nil
}

// Close closes the underlying database connection.
func (v *VectorStore) Close() error {
	return v.db.Close()
}

// Reset drops and recreates vec_chunks, used by `--full` re-indexing (spec
// §4.8 step 7: "create/replace the vector table").
func (v *VectorStore) Reset() error {
	if _, err := v.db.Exec("DROP TABLE IF EXISTS vec_chunks"); err != nil {
		return fmt.Errorf("failed to drop vec_chunks: %w", err)
	}
	ddl := fmt.Sprintf(`
		CREATE VIRTUAL TABLE vec_chunks USING vec0(
			chunk_id INTEGER PRIMARY KEY,
			embedding FLOAT[%d],
			language TEXT PARTITION KEY
		)
	`, v.dimension)
	if _, err := v.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to recreate vec_chunks: %w", err)
	}
	return nil
}

// Dimension returns the configured embedding dimension.
func (v *VectorStore) Dimension() int {
	return v.dimension
}

// Upsert replaces the embedding for chunkID (delete-then-insert, as vec0
// tables do not support ON CONFLICT, spec §4.8 step 6).
func (v *VectorStore) Upsert(chunkID int64, embedding []float32, language string) error {
	if len(embedding) != v.dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(embedding), v.dimension)
	}
	raw, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return fmt.Errorf("failed to serialize embedding for chunk %d: %w", chunkID, err)
	}

	tx, err := v.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM vec_chunks WHERE chunk_id = ?", chunkID); err != nil {
		return fmt.Errorf("failed to clear existing embedding for chunk %d: %w", chunkID, err)
	}
	if _, err := tx.Exec("INSERT INTO vec_chunks (chunk_id, embedding, language) VALUES (?, ?, ?)", chunkID, raw, language); err != nil {
		return fmt.Errorf("failed to insert embedding for chunk %d: %w", chunkID, err)
	}
	return tx.Commit()
}

// UpsertBatch upserts many embeddings in one transaction.
func (v *VectorStore) UpsertBatch(chunkIDs []int64, embeddings [][]float32, languages []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	tx, err := v.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	del, err := tx.Prepare("DELETE FROM vec_chunks WHERE chunk_id = ?")
	if err != nil {
		return err
	}
	defer del.Close()
	ins, err := tx.Prepare("INSERT INTO vec_chunks (chunk_id, embedding, language) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer ins.Close()

	for i, id := range chunkIDs {
		if len(embeddings[i]) != v.dimension {
			return fmt.Errorf("%w: chunk %d got %d, want %d", ErrDimensionMismatch, id, len(embeddings[i]), v.dimension)
		}
		raw, err := sqlite_vec.SerializeFloat32(embeddings[i])
		if err != nil {
			return fmt.Errorf("failed to serialize embedding for chunk %d: %w", id, err)
		}
		if _, err := del.Exec(id); err != nil {
			return err
		}
		if _, err := ins.Exec(id, raw, languages[i]); err != nil {
			return fmt.Errorf("failed to insert embedding for chunk %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// DeleteByChunkIDs removes embeddings for the given chunk ids (spec §4.8
// step 2, invalidating a modified file's old chunks).
func (v *VectorStore) DeleteByChunkIDs(chunkIDs []int64) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	tx, err := v.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("DELETE FROM vec_chunks WHERE chunk_id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, id := range chunkIDs {
		if _, err := stmt.Exec(id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Query returns the k nearest chunks to query by the vec0 table's default
// (L2) distance, optionally
// restricted to language (spec §4.7). An empty language searches all.
func (v *VectorStore) Query(query []float32, k int, language string) ([]VectorMatch, error) {
	if len(query) != v.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), v.dimension)
	}
	raw, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize query embedding: %w", err)
	}

	var rows *sql.Rows
	if language != "" {
		rows, err = v.db.Query(`
			SELECT chunk_id, distance FROM vec_chunks
			WHERE embedding MATCH ? AND language = ? AND k = ?
			ORDER BY distance
		`, raw, language, k)
	} else {
		rows, err = v.db.Query(`
			SELECT chunk_id, distance FROM vec_chunks
			WHERE embedding MATCH ? AND k = ?
			ORDER BY distance
		`, raw, k)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}
	defer rows.Close()

	var out []VectorMatch
	for rows.Next() {
		var m VectorMatch
		if err := rows.Scan(&m.ChunkID, &m.Distance); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ErrDimensionMismatch is returned when an embedding's length does not match
// the vector store's configured dimension (spec §7).
var ErrDimensionMismatch = fmt.Errorf("embedding dimension mismatch")
