package index

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"docqa/internal/domain"
)

var (
	// ErrShapeMismatch reports a vector/chunk count or dimension mismatch.
	ErrShapeMismatch = errors.New("index: shape mismatch")
	// ErrNotFound reports a missing persisted index location.
	ErrNotFound = errors.New("index: persisted index not found")
	// ErrCorruptIndex reports persisted state whose vectors and chunks disagree.
	ErrCorruptIndex = errors.New("index: corrupt persisted index")
)

// FlatIndex is a brute-force squared-L2 nearest-neighbor index. Vectors and
// their source chunks are parallel slices appended in lock-step; a chunk is
// identified by its position. Only Clear shrinks the index.
type FlatIndex struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float64
	chunks  []string
}

// blob is the gob-encoded on-disk form of the vector store.
type blob struct {
	Dimension int
	Vectors   [][]float64
}

func NewFlatIndex(dimension int) *FlatIndex {
	return &FlatIndex{dim: dimension}
}

// Dimension returns the fixed vector dimension of the index.
func (x *FlatIndex) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dim
}

// Len returns the number of stored (vector, chunk) pairs.
func (x *FlatIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Add appends vectors and chunks to the end of their parallel slices.
// Nothing is appended when the shapes disagree.
func (x *FlatIndex) Add(vectors [][]float64, chunks []string) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors for %d chunks", ErrShapeMismatch, len(vectors), len(chunks))
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, v := range vectors {
		if len(v) != x.dim {
			return fmt.Errorf("%w: vector dimension %d, index dimension %d", ErrShapeMismatch, len(v), x.dim)
		}
	}
	x.vectors = append(x.vectors, vectors...)
	x.chunks = append(x.chunks, chunks...)
	return nil
}

// Search returns the k stored chunks nearest to query by squared L2
// distance, ascending, ties broken by insertion order. An empty index or
// k <= 0 yields an empty result.
func (x *FlatIndex) Search(query []float64, k int) ([]domain.SearchResult, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d", ErrShapeMismatch, len(query), x.dim)
	}
	if k <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}
	dists := make([]float64, len(x.vectors))
	for i, v := range x.vectors {
		var d float64
		for j := range v {
			diff := v[j] - query[j]
			d += diff * diff
		}
		dists[i] = d
	}
	order := make([]int, len(dists))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return dists[order[i]] < dists[order[j]] })
	if k > len(order) {
		k = len(order)
	}
	results := make([]domain.SearchResult, k)
	for i := 0; i < k; i++ {
		j := order[i]
		results[i] = domain.SearchResult{Chunk: x.chunks[j], Distance: dists[j]}
	}
	return results, nil
}

// Save serializes the vector store to indexPath (gob) and the chunk list to
// chunksPath (JSON), fully overwriting prior content. Each file is written
// to a temporary sibling and renamed into place, so a successful Save leaves
// both files readable and mutually consistent.
func (x *FlatIndex) Save(indexPath, chunksPath string) error {
	x.mu.RLock()
	b := blob{Dimension: x.dim, Vectors: x.vectors}
	chunks := x.chunks
	x.mu.RUnlock()

	if err := writeVectors(indexPath, b); err != nil {
		return err
	}
	return writeChunks(chunksPath, chunks)
}

// Load replaces the in-memory state with the contents of the two locations.
// The in-memory index is untouched unless both files decode consistently.
func (x *FlatIndex) Load(indexPath, chunksPath string) error {
	f, err := os.Open(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, indexPath)
		}
		return err
	}
	defer f.Close()
	var b blob
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return fmt.Errorf("%w: decoding vectors: %v", ErrCorruptIndex, err)
	}

	data, err := os.ReadFile(chunksPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, chunksPath)
		}
		return err
	}
	var chunks []string
	if err := json.Unmarshal(data, &chunks); err != nil {
		return fmt.Errorf("%w: decoding chunks: %v", ErrCorruptIndex, err)
	}

	if len(b.Vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors, %d chunks", ErrCorruptIndex, len(b.Vectors), len(chunks))
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if b.Dimension > 0 {
		x.dim = b.Dimension
	}
	x.vectors = b.Vectors
	x.chunks = chunks
	return nil
}

// Clear resets to an empty index. Persisted storage is untouched; deleting
// it is the orchestrator's responsibility.
func (x *FlatIndex) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectors = nil
	x.chunks = nil
}

func writeVectors(path string, b blob) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func writeChunks(path string, chunks []string) error {
	if chunks == nil {
		chunks = []string{}
	}
	data, err := json.Marshal(chunks)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
