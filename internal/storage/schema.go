// Package storage implements the MetadataStore and VectorStore contracts of
// spec §6, grounded on the teacher's internal/storage package: SQLite with
// mattn/go-sqlite3 for structured data and two FTS5 virtual tables, plus
// sqlite-vec for the dense vector store.
package storage

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates every table, index, and FTS5 virtual table the
// MetadataStore needs (spec §6). Must be called with PRAGMA foreign_keys=ON
// and WAL mode already set on the connection.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []struct {
		name string
		ddl  string
	}{
		{"schema_version", createSchemaVersionTable},
		{"files", createFilesTable},
		{"symbols", createSymbolsTable},
		{"chunks", createChunksTable},
		{"graph_edges", createGraphEdgesTable},
		{"file_dependencies", createFileDependenciesTable},
		{"summaries", createSummariesTable},
		{"index_state", createIndexStateTable},
	}
	for _, t := range tables {
		if _, err := tx.Exec(t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}

	for i, idx := range getAllIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (1)`); err != nil {
		return fmt.Errorf("failed to bootstrap schema_version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	// FTS5 virtual tables must be created outside the transaction, as in the
	// teacher's CreateSchema.
	if _, err := db.Exec(createChunksFTSTable); err != nil {
		return fmt.Errorf("failed to create chunks_fts: %w", err)
	}
	if _, err := db.Exec(createSymbolsFTSTable); err != nil {
		return fmt.Errorf("failed to create symbols_fts: %w", err)
	}

	return nil
}

const createSchemaVersionTable = `
CREATE TABLE schema_version (
    version INTEGER NOT NULL
)
`

const createFilesTable = `
CREATE TABLE files (
    file_id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    language TEXT NOT NULL DEFAULT '',
    module_path TEXT NOT NULL DEFAULT '',
    size_bytes INTEGER NOT NULL DEFAULT 0,
    content_hash TEXT NOT NULL,
    last_indexed TEXT NOT NULL,
    line_count INTEGER NOT NULL DEFAULT 0,
    purpose TEXT
)
`

const createSymbolsTable = `
CREATE TABLE symbols (
    symbol_id INTEGER PRIMARY KEY AUTOINCREMENT,
    file_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    signature TEXT,
    start_line INTEGER NOT NULL,
    start_col INTEGER NOT NULL DEFAULT 0,
    end_line INTEGER NOT NULL,
    end_col INTEGER NOT NULL DEFAULT 0,
    parent_id INTEGER,
    docstring TEXT,
    exported INTEGER NOT NULL DEFAULT 0,
    importance REAL NOT NULL DEFAULT 0,
    FOREIGN KEY (file_id) REFERENCES files(file_id) ON DELETE CASCADE,
    FOREIGN KEY (parent_id) REFERENCES symbols(symbol_id) ON DELETE SET NULL
)
`

const createChunksTable = `
CREATE TABLE chunks (
    chunk_id INTEGER PRIMARY KEY AUTOINCREMENT,
    file_id INTEGER NOT NULL,
    chunk_index INTEGER NOT NULL,
    content TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    symbol_names TEXT NOT NULL DEFAULT '',
    token_count INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (file_id) REFERENCES files(file_id) ON DELETE CASCADE
)
`

const createGraphEdgesTable = `
CREATE TABLE graph_edges (
    edge_id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_symbol_id INTEGER NOT NULL,
    target_symbol_id INTEGER NOT NULL,
    edge_type TEXT NOT NULL,
    weight REAL NOT NULL DEFAULT 1.0,
    source_file_id INTEGER NOT NULL,
    target_file_id INTEGER NOT NULL,
    FOREIGN KEY (source_symbol_id) REFERENCES symbols(symbol_id) ON DELETE CASCADE,
    FOREIGN KEY (target_symbol_id) REFERENCES symbols(symbol_id) ON DELETE CASCADE,
    UNIQUE(source_symbol_id, target_symbol_id, edge_type)
)
`

const createFileDependenciesTable = `
CREATE TABLE file_dependencies (
    dependency_id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_file_id INTEGER NOT NULL,
    target_file_id INTEGER NOT NULL,
    dependency_type TEXT NOT NULL DEFAULT 'imports',
    FOREIGN KEY (source_file_id) REFERENCES files(file_id) ON DELETE CASCADE,
    FOREIGN KEY (target_file_id) REFERENCES files(file_id) ON DELETE CASCADE,
    UNIQUE(source_file_id, target_file_id, dependency_type)
)
`

const createSummariesTable = `
CREATE TABLE summaries (
    summary_id INTEGER PRIMARY KEY AUTOINCREMENT,
    scope_type TEXT NOT NULL,
    scope_id TEXT NOT NULL,
    content TEXT NOT NULL,
    token_count INTEGER NOT NULL DEFAULT 0,
    UNIQUE(scope_type, scope_id)
)
`

const createIndexStateTable = `
CREATE TABLE index_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
)
`

const createChunksFTSTable = `
CREATE VIRTUAL TABLE chunks_fts USING fts5(
    chunk_id UNINDEXED,
    content,
    file_path,
    symbol_names,
    tokenize = "porter unicode61"
)
`

const createSymbolsFTSTable = `
CREATE VIRTUAL TABLE symbols_fts USING fts5(
    symbol_id UNINDEXED,
    name,
    signature,
    docstring,
    tokenize = "unicode61"
)
`

func getAllIndexes() []string {
	return []string{
		"CREATE INDEX idx_files_path ON files(path)",
		"CREATE INDEX idx_files_language ON files(language)",
		"CREATE INDEX idx_files_content_hash ON files(content_hash)",
		"CREATE INDEX idx_symbols_file_id ON symbols(file_id)",
		"CREATE INDEX idx_symbols_name ON symbols(name)",
		"CREATE INDEX idx_symbols_kind ON symbols(kind)",
		"CREATE INDEX idx_chunks_file_id ON chunks(file_id)",
		"CREATE INDEX idx_chunks_content_hash ON chunks(content_hash)",
		"CREATE INDEX idx_graph_edges_source ON graph_edges(source_symbol_id)",
		"CREATE INDEX idx_graph_edges_target ON graph_edges(target_symbol_id)",
		"CREATE INDEX idx_graph_edges_type ON graph_edges(edge_type)",
		"CREATE INDEX idx_file_deps_source ON file_dependencies(source_file_id)",
		"CREATE INDEX idx_file_deps_target ON file_dependencies(target_file_id)",
	}
}
