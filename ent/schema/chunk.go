package schema

// Chunk documents the Chunk entity.
// Implemented by pkg/store.Store (ReplaceChunks, ListChunks,
// UpdateChunkEmbedding, EmbeddingStats and the FindSimilar* /
// FindRelevantChunksForRun search methods).
//
// Fields:
//
//	id              string  unique, immutable
//	run_id          string
//	index           int     0-based, dense per run
//	step_name       string
//	content         text
//	start_line      int
//	end_line        int
//	token_estimate  int
//	has_errors      bool    default false
//	error_count     int     default 0
//	embedding       vector(768)  optional, nillable — native pgvector column,
//	                             queried with the <=> cosine operator
//
// Edges:
//
//	run  ← Run, required, unique, cascade delete
//
// Indexes:
//
//	(run_id, index) unique
//	(has_errors)
//	embedding: ivfflat (embedding vector_cosine_ops) WITH (lists = 100)
type Chunk struct {
	ID            string
	RunID         string
	Index         int
	StepName      string
	Content       string
	StartLine     int
	EndLine       int
	TokenEstimate int
	HasErrors     bool
	ErrorCount    int
	Embedding     []float32
}
