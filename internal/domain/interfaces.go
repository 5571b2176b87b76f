package domain

// SearchResult is a retrieved chunk with its squared L2 distance to the query.
type SearchResult struct {
	Chunk    string
	Distance float64
}

// Answer bundles a generated answer with the contexts it was grounded on.
// Contexts and Distances are order-aligned, nearest first.
type Answer struct {
	Answer    string
	Contexts  []string
	Distances []float64
}

// Chunker splits raw document text into bounded-size chunks.
type Chunker interface {
	Chunk(text string) []string
}

// Embedder converts free text into a fixed-dimension numeric vector.
type Embedder interface {
	Name() string
	Dimension() int
	Encode(text string) ([]float64, error)
	EncodeBatch(texts []string) ([][]float64, error)
}

// Generator produces an answer from a fully assembled prompt.
type Generator interface {
	Generate(prompt string, maxTokens int, temperature float32) (string, error)
}

// Extractor pulls plain text out of a document file.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// VectorIndex stores vectors and their source chunks in lock-step and
// answers exact nearest-neighbor queries. Position i in the vector store
// corresponds to position i in the chunk store at all times.
type VectorIndex interface {
	Add(vectors [][]float64, chunks []string) error
	Search(query []float64, k int) ([]SearchResult, error)
	Save(indexPath, chunksPath string) error
	Load(indexPath, chunksPath string) error
	Clear()
	Len() int
	Dimension() int
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
