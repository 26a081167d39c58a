package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MetadataStore is the structured metadata store of spec §6: files, symbols,
// chunks, graph edges, file dependencies, summaries, and state, plus two
// full-text indexes kept in sync with their base tables.
//
// A single *sql.DB is held open for the process lifetime (spec §5): the
// metadata store is accessed by exactly one process and serialized at the
// store interface.
type MetadataStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the metadata store at path, with WAL
// mode and foreign keys enabled per spec §6.
func Open(path string) (*MetadataStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	db.SetMaxOpenConns(1)

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to probe schema: %w", err)
	}
	if count == 0 {
		if err := CreateSchema(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &MetadataStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *MetadataStore) Close() error {
	return s.db.Close()
}

// ClearAll truncates every table except schema_version, used by `--full`
// re-indexing (spec §4.8 step 2).
func (s *MetadataStore) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tables := []string{"graph_edges", "file_dependencies", "summaries", "chunks", "symbols", "files", "chunks_fts", "symbols_fts", "index_state"}
	for _, t := range tables {
		if _, err := tx.Exec("DELETE FROM " + t); err != nil {
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}
	return tx.Commit()
}

// ExistingFileHashes returns path -> content_hash for every persisted file.
func (s *MetadataStore) ExistingFileHashes() (map[string]string, error) {
	rows, err := s.db.Query("SELECT path, content_hash FROM files")
	if err != nil {
		return nil, fmt.Errorf("failed to query file hashes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, err
		}
		out[path] = hash
	}
	return out, rows.Err()
}

// ExistingFileSizes returns path -> size_bytes for every persisted file.
func (s *MetadataStore) ExistingFileSizes() (map[string]int64, error) {
	rows, err := s.db.Query("SELECT path, size_bytes FROM files")
	if err != nil {
		return nil, fmt.Errorf("failed to query file sizes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var path string
		var size int64
		if err := rows.Scan(&path, &size); err != nil {
			return nil, err
		}
		out[path] = size
	}
	return out, rows.Err()
}

// GetFileIDByPath returns the file_id for path, if present.
func (s *MetadataStore) GetFileIDByPath(path string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow("SELECT file_id FROM files WHERE path = ?", path).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up file %s: %w", path, err)
	}
	return id, true, nil
}

// UpsertFile inserts or updates a file record by path, returning its id.
func (s *MetadataStore) UpsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO files (path, language, module_path, size_bytes, content_hash, last_indexed, line_count, purpose)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			language = excluded.language,
			module_path = excluded.module_path,
			size_bytes = excluded.size_bytes,
			content_hash = excluded.content_hash,
			last_indexed = excluded.last_indexed,
			line_count = excluded.line_count,
			purpose = excluded.purpose
	`, f.Path, f.Language, f.ModulePath, f.SizeBytes, f.ContentHash, f.LastIndexed, f.LineCount, f.Purpose)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert file %s: %w", f.Path, err)
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		// ON CONFLICT UPDATE does not report LastInsertId on some drivers; look it up.
		fid, ok, lerr := s.GetFileIDByPath(f.Path)
		if lerr != nil {
			return 0, lerr
		}
		if !ok {
			return 0, fmt.Errorf("file %s not found after upsert", f.Path)
		}
		return fid, nil
	}
	return id, nil
}

// DeleteFile removes a file and cascades to its symbols, chunks, edges, and
// dependencies (spec §3: "destroyed on file removal").
func (s *MetadataStore) DeleteFile(path string) error {
	id, ok, err := s.GetFileIDByPath(path)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, err := s.db.Exec("DELETE FROM chunks_fts WHERE chunk_id IN (SELECT chunk_id FROM chunks WHERE file_id = ?)", id); err != nil {
		return fmt.Errorf("failed to clear chunks_fts for file %s: %w", path, err)
	}
	if _, err := s.db.Exec("DELETE FROM symbols_fts WHERE symbol_id IN (SELECT symbol_id FROM symbols WHERE file_id = ?)", id); err != nil {
		return fmt.Errorf("failed to clear symbols_fts for file %s: %w", path, err)
	}
	if _, err := s.db.Exec("DELETE FROM files WHERE file_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// ClearFileContents deletes a file's symbols and chunks (and, via cascade,
// any graph edges referencing those symbols) without deleting the file row
// itself, used when re-indexing a modified file (spec §4.8 step 2). Full-text
// index rows are deferred to RebuildFullText, called once per batch.
func (s *MetadataStore) ClearFileContents(fileID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM symbols WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("failed to clear symbols for file %d: %w", fileID, err)
	}
	if _, err := tx.Exec("DELETE FROM chunks WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("failed to clear chunks for file %d: %w", fileID, err)
	}
	if _, err := tx.Exec("DELETE FROM file_dependencies WHERE source_file_id = ?", fileID); err != nil {
		return fmt.Errorf("failed to clear dependencies for file %d: %w", fileID, err)
	}
	return tx.Commit()
}

// InsertSymbols inserts syms for fileID in a single transaction, returning
// the assigned ids in the same order (spec §5: "symbol insert batch").
// Symbols are inserted without a parent; parent links are set afterwards by
// ResolveParents.
func (s *MetadataStore) InsertSymbols(fileID int64, syms []Symbol) ([]int64, error) {
	if len(syms) == 0 {
		return nil, nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO symbols (file_id, name, kind, signature, start_line, start_col, end_line, end_col, docstring, exported, importance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]int64, len(syms))
	for i, sym := range syms {
		res, err := stmt.Exec(fileID, sym.Name, sym.Kind, sym.Signature, sym.StartLine, sym.StartCol, sym.EndLine, sym.EndCol, sym.Docstring, sym.Exported)
		if err != nil {
			return nil, fmt.Errorf("failed to insert symbol %s: %w", sym.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, tx.Commit()
}

// ResolveParents sets parent_id for every symbol of fileID whose parentName
// (by array index matching syms/ids passed to InsertSymbols) matches a
// top-level symbol's name in the same file. Nested-sibling collisions are
// never used as parents (spec §3, §4.8 step 5, §9).
func (s *MetadataStore) ResolveParents(fileID int64, ids []int64, parentNames []string) error {
	if len(ids) == 0 {
		return nil
	}
	// Freshly inserted symbols all have a NULL parent_id, so symbols that
	// carry a parent name are excluded from the candidates explicitly.
	nested := make(map[int64]bool)
	for i, parentName := range parentNames {
		if parentName != "" {
			nested[ids[i]] = true
		}
	}
	rows, err := s.db.Query("SELECT symbol_id, name FROM symbols WHERE file_id = ? AND parent_id IS NULL", fileID)
	if err != nil {
		return fmt.Errorf("failed to query top-level symbols for file %d: %w", fileID, err)
	}
	topLevelByName := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return err
		}
		if nested[id] {
			continue
		}
		if _, exists := topLevelByName[name]; !exists {
			topLevelByName[name] = id
		}
	}
	rows.Close()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE symbols SET parent_id = ? WHERE symbol_id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, parentName := range parentNames {
		if parentName == "" {
			continue
		}
		parentID, ok := topLevelByName[parentName]
		if !ok || parentID == ids[i] {
			continue
		}
		if _, err := stmt.Exec(parentID, ids[i]); err != nil {
			return fmt.Errorf("failed to resolve parent for symbol %d: %w", ids[i], err)
		}
	}
	return tx.Commit()
}

// InsertChunks inserts chunks for fileID in a per-file transaction (spec §5).
func (s *MetadataStore) InsertChunks(fileID int64, chunks []Chunk) ([]int64, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (file_id, chunk_index, content, content_hash, start_line, end_line, symbol_names, token_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]int64, len(chunks))
	for i, c := range chunks {
		res, err := stmt.Exec(fileID, c.ChunkIndex, c.Content, c.ContentHash, c.StartLine, c.EndLine, c.SymbolNames, c.TokenCount)
		if err != nil {
			return nil, fmt.Errorf("failed to insert chunk %d for file %d: %w", c.ChunkIndex, fileID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, tx.Commit()
}

// RebuildFullText repopulates chunks_fts and symbols_fts from their base
// tables (spec §3: "after any mutation batch they reflect exactly the rows
// present"). Called once per indexing batch, deferred from per-file deletes.
func (s *MetadataStore) RebuildFullText() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chunks_fts"); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO chunks_fts (chunk_id, content, file_path, symbol_names)
		SELECT c.chunk_id, c.content, f.path, c.symbol_names
		FROM chunks c JOIN files f ON f.file_id = c.file_id
	`); err != nil {
		return fmt.Errorf("failed to rebuild chunks_fts: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM symbols_fts"); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO symbols_fts (symbol_id, name, signature, docstring)
		SELECT symbol_id, name, COALESCE(signature, ''), COALESCE(docstring, '')
		FROM symbols
	`); err != nil {
		return fmt.Errorf("failed to rebuild symbols_fts: %w", err)
	}

	return tx.Commit()
}

// InsertGraphEdges inserts edges in a single batched transaction; duplicates
// on (source, target, type) are ignored (spec §4.5).
func (s *MetadataStore) InsertGraphEdges(edges []GraphEdge) error {
	if len(edges) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO graph_edges (source_symbol_id, target_symbol_id, edge_type, weight, source_file_id, target_file_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.Exec(e.SourceSymbolID, e.TargetSymbolID, e.EdgeType, e.Weight, e.SourceFileID, e.TargetFileID); err != nil {
			return fmt.Errorf("failed to insert edge %d->%d: %w", e.SourceSymbolID, e.TargetSymbolID, err)
		}
	}
	return tx.Commit()
}

// InsertFileDependencies inserts deps, ignoring duplicates on (source,
// target, type) (spec §4.5).
func (s *MetadataStore) InsertFileDependencies(deps []FileDependency) error {
	if len(deps) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO file_dependencies (source_file_id, target_file_id, dependency_type)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range deps {
		if _, err := stmt.Exec(d.SourceFileID, d.TargetFileID, d.DependencyType); err != nil {
			return fmt.Errorf("failed to insert file dependency %d->%d: %w", d.SourceFileID, d.TargetFileID, err)
		}
	}
	return tx.Commit()
}

// AllSymbols returns every persisted symbol across all files, used by the
// graph builder to build its name-resolution map (spec §4.5).
func (s *MetadataStore) AllSymbols() ([]Symbol, error) {
	rows, err := s.db.Query(`
		SELECT symbol_id, file_id, name, kind, signature, start_line, start_col, end_line, end_col, parent_id, docstring, exported, importance
		FROM symbols
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var out []Symbol
	for rows.Next() {
		var sym Symbol
		if err := rows.Scan(&sym.ID, &sym.FileID, &sym.Name, &sym.Kind, &sym.Signature, &sym.StartLine, &sym.StartCol, &sym.EndLine, &sym.EndCol, &sym.ParentID, &sym.Docstring, &sym.Exported, &sym.Importance); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// SymbolsByFile returns every symbol belonging to fileID.
func (s *MetadataStore) SymbolsByFile(fileID int64) ([]Symbol, error) {
	rows, err := s.db.Query(`
		SELECT symbol_id, file_id, name, kind, signature, start_line, start_col, end_line, end_col, parent_id, docstring, exported, importance
		FROM symbols WHERE file_id = ?
	`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Symbol
	for rows.Next() {
		var sym Symbol
		if err := rows.Scan(&sym.ID, &sym.FileID, &sym.Name, &sym.Kind, &sym.Signature, &sym.StartLine, &sym.StartCol, &sym.EndLine, &sym.EndCol, &sym.ParentID, &sym.Docstring, &sym.Exported, &sym.Importance); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// ChunksByFile returns every chunk belonging to fileID.
func (s *MetadataStore) ChunksByFile(fileID int64) ([]Chunk, error) {
	rows, err := s.db.Query(`
		SELECT chunk_id, file_id, chunk_index, content, content_hash, start_line, end_line, symbol_names, token_count
		FROM chunks WHERE file_id = ? ORDER BY chunk_index
	`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.ID, &c.FileID, &c.ChunkIndex, &c.Content, &c.ContentHash, &c.StartLine, &c.EndLine, &c.SymbolNames, &c.TokenCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllFiles returns every persisted file.
func (s *MetadataStore) AllFiles() ([]File, error) {
	rows, err := s.db.Query(`SELECT file_id, path, language, module_path, size_bytes, content_hash, last_indexed, line_count, purpose FROM files`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Path, &f.Language, &f.ModulePath, &f.SizeBytes, &f.ContentHash, &f.LastIndexed, &f.LineCount, &f.Purpose); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ChunkByID returns a single chunk by id, for mapping vector/FTS matches
// back to their content (spec §4.7).
func (s *MetadataStore) ChunkByID(id int64) (*Chunk, error) {
	var c Chunk
	err := s.db.QueryRow(`
		SELECT chunk_id, file_id, chunk_index, content, content_hash, start_line, end_line, symbol_names, token_count
		FROM chunks WHERE chunk_id = ?
	`, id).Scan(&c.ID, &c.FileID, &c.ChunkIndex, &c.Content, &c.ContentHash, &c.StartLine, &c.EndLine, &c.SymbolNames, &c.TokenCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up chunk %d: %w", id, err)
	}
	return &c, nil
}

// SymbolByID returns a single symbol by id.
func (s *MetadataStore) SymbolByID(id int64) (*Symbol, error) {
	var sym Symbol
	err := s.db.QueryRow(`
		SELECT symbol_id, file_id, name, kind, signature, start_line, start_col, end_line, end_col, parent_id, docstring, exported, importance
		FROM symbols WHERE symbol_id = ?
	`, id).Scan(&sym.ID, &sym.FileID, &sym.Name, &sym.Kind, &sym.Signature, &sym.StartLine, &sym.StartCol, &sym.EndLine, &sym.EndCol, &sym.ParentID, &sym.Docstring, &sym.Exported, &sym.Importance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up symbol %d: %w", id, err)
	}
	return &sym, nil
}

// FileByID returns a single file record by id.
func (s *MetadataStore) FileByID(id int64) (*File, error) {
	var f File
	err := s.db.QueryRow(`
		SELECT file_id, path, language, module_path, size_bytes, content_hash, last_indexed, line_count, purpose
		FROM files WHERE file_id = ?
	`, id).Scan(&f.ID, &f.Path, &f.Language, &f.ModulePath, &f.SizeBytes, &f.ContentHash, &f.LastIndexed, &f.LineCount, &f.Purpose)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up file %d: %w", id, err)
	}
	return &f, nil
}

// FilesByIDs batch-loads files by id, avoiding the N+1 query pattern the
// keyword retriever must avoid (spec §4.7).
func (s *MetadataStore) FilesByIDs(ids []int64) (map[int64]File, error) {
	out := make(map[int64]File, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	seen := make(map[int64]bool, len(ids))
	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := fmt.Sprintf(`
		SELECT file_id, path, language, module_path, size_bytes, content_hash, last_indexed, line_count, purpose
		FROM files WHERE file_id IN (%s)
	`, strings.Join(placeholders, ","))
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Path, &f.Language, &f.ModulePath, &f.SizeBytes, &f.ContentHash, &f.LastIndexed, &f.LineCount, &f.Purpose); err != nil {
			return nil, err
		}
		out[f.ID] = f
	}
	return out, rows.Err()
}

// ChunkFTSMatch is one row returned by SearchChunksFTS, ordered by rank.
type ChunkFTSMatch struct {
	ChunkID int64
	Rank    float64
}

// SearchChunksFTS runs matchExpr against chunks_fts, returning up to limit
// matches ordered by bm25 rank (spec §4.7 keyword search). Full-text syntax
// errors are returned to the caller, who is responsible for swallowing them
// per spec §7 FullTextSyntaxError.
func (s *MetadataStore) SearchChunksFTS(matchExpr string, limit int) ([]ChunkFTSMatch, error) {
	rows, err := s.db.Query(`
		SELECT chunk_id, rank FROM chunks_fts WHERE chunks_fts MATCH ? ORDER BY rank LIMIT ?
	`, matchExpr, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChunkFTSMatch
	for rows.Next() {
		var m ChunkFTSMatch
		if err := rows.Scan(&m.ChunkID, &m.Rank); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SymbolFTSMatch is one row returned by SearchSymbolsFTS, ordered by rank.
type SymbolFTSMatch struct {
	SymbolID int64
	Rank     float64
}

// SearchSymbolsFTS runs matchExpr against symbols_fts, returning up to limit
// matches ordered by bm25 rank (spec §4.7 symbol search).
func (s *MetadataStore) SearchSymbolsFTS(matchExpr string, limit int) ([]SymbolFTSMatch, error) {
	rows, err := s.db.Query(`
		SELECT symbol_id, rank FROM symbols_fts WHERE symbols_fts MATCH ? ORDER BY rank LIMIT ?
	`, matchExpr, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SymbolFTSMatch
	for rows.Next() {
		var m SymbolFTSMatch
		if err := rows.Scan(&m.SymbolID, &m.Rank); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AllGraphEdges returns every persisted graph edge, used by the ranker to
// build its adjacency structure (spec §4.6).
func (s *MetadataStore) AllGraphEdges() ([]GraphEdge, error) {
	rows, err := s.db.Query(`
		SELECT edge_id, source_symbol_id, target_symbol_id, edge_type, weight, source_file_id, target_file_id
		FROM graph_edges
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query graph edges: %w", err)
	}
	defer rows.Close()

	var out []GraphEdge
	for rows.Next() {
		var e GraphEdge
		if err := rows.Scan(&e.ID, &e.SourceSymbolID, &e.TargetSymbolID, &e.EdgeType, &e.Weight, &e.SourceFileID, &e.TargetFileID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateImportance batch-updates symbol importance scores (spec §4.6).
func (s *MetadataStore) UpdateImportance(scores map[int64]float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE symbols SET importance = ? WHERE symbol_id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, score := range scores {
		if _, err := stmt.Exec(score, id); err != nil {
			return fmt.Errorf("failed to update importance for symbol %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// UpsertSummary upserts a summary by (scope_type, scope_id) (spec §3).
func (s *MetadataStore) UpsertSummary(sum *Summary) error {
	_, err := s.db.Exec(`
		INSERT INTO summaries (scope_type, scope_id, content, token_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope_type, scope_id) DO UPDATE SET
			content = excluded.content,
			token_count = excluded.token_count
	`, sum.ScopeType, sum.ScopeID, sum.Content, sum.TokenCount)
	if err != nil {
		return fmt.Errorf("failed to upsert %s summary %s: %w", sum.ScopeType, sum.ScopeID, err)
	}
	return nil
}

// SetState sets a key/value pair in index_state (spec §3, §4.8 step 11).
func (s *MetadataStore) SetState(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO index_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set state %s: %w", key, err)
	}
	return nil
}

// GetState returns the value for key, if present.
func (s *MetadataStore) GetState(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM index_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get state %s: %w", key, err)
	}
	return value, true, nil
}

// DB exposes the underlying connection for packages (full-text search,
// vector store bootstrap) that need direct SQL access per spec §6.
func (s *MetadataStore) DB() *sql.DB {
	return s.db
}
