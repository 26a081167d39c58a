package storage

// File is the persisted record for one source file (spec §3).
type File struct {
	ID          int64
	Path        string
	Language    string
	ModulePath  string
	SizeBytes   int64
	ContentHash string
	LastIndexed string
	LineCount   int
	Purpose     *string
}

// Symbol is the persisted record for one extracted code entity (spec §3).
type Symbol struct {
	ID         int64
	FileID     int64
	Name       string
	Kind       string
	Signature  *string
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
	ParentID   *int64
	Docstring  *string
	Exported   bool
	Importance float64
}

// Chunk is the persisted record for one chunk of a file (spec §3).
type Chunk struct {
	ID          int64
	FileID      int64
	ChunkIndex  int
	Content     string
	ContentHash string
	StartLine   int
	EndLine     int
	SymbolNames string
	TokenCount  int
}

// GraphEdge is the persisted record for one symbol-to-symbol edge (spec §3).
type GraphEdge struct {
	ID             int64
	SourceSymbolID int64
	TargetSymbolID int64
	EdgeType       string
	Weight         float64
	SourceFileID   int64
	TargetFileID   int64
}

// FileDependency is the persisted record for one file-to-file import edge
// (spec §3).
type FileDependency struct {
	ID             int64
	SourceFileID   int64
	TargetFileID   int64
	DependencyType string
}

// Summary is the persisted record for one heuristic summary (spec §3).
type Summary struct {
	ID         int64
	ScopeType  string
	ScopeID    string
	Content    string
	TokenCount int
}

// Edge types (spec §3).
const (
	EdgeCalls      = "calls"
	EdgeImports    = "imports"
	EdgeExtends    = "extends"
	EdgeImplements = "implements"
	EdgeReferences = "references"
)

// Summary scopes (spec §3).
const (
	ScopeFile      = "file"
	ScopeDirectory = "directory"
	ScopeProject   = "project"
)

// State keys (spec §4.8 step 11).
const (
	StateLastFullIndex  = "last_full_index"
	StateLastIndexed    = "last_indexed"
	StateEmbeddingModel = "embedding_model"
	StateTotalFiles     = "total_files"
	StateTotalChunks    = "total_chunks"
)
