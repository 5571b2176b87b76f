package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_ShapeMismatch(t *testing.T) {
	x := NewFlatIndex(2)

	err := x.Add([][]float64{{1, 0}}, []string{"a", "b"})
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Zero(t, x.Len())

	err = x.Add([][]float64{{1, 0, 0}}, []string{"a"})
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Zero(t, x.Len())
}

func TestSearch_OrdersByAscendingDistance(t *testing.T) {
	x := NewFlatIndex(2)
	require.NoError(t, x.Add([][]float64{{0, 0}, {3, 4}, {1, 0}}, []string{"origin", "far", "near"}))

	res, err := x.Search([]float64{0, 0}, 3)

	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "origin", res[0].Chunk)
	assert.Equal(t, "near", res[1].Chunk)
	assert.Equal(t, "far", res[2].Chunk)
	assert.Equal(t, 0.0, res[0].Distance)
	assert.Equal(t, 1.0, res[1].Distance)
	assert.Equal(t, 25.0, res[2].Distance)
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	x := NewFlatIndex(2)
	require.NoError(t, x.Add([][]float64{{1, 0}, {0, 1}, {1, 0}}, []string{"first", "second", "third"}))

	res, err := x.Search([]float64{0, 0}, 3)

	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "first", res[0].Chunk)
	assert.Equal(t, "second", res[1].Chunk)
	assert.Equal(t, "third", res[2].Chunk)
}

func TestSearch_KBounds(t *testing.T) {
	x := NewFlatIndex(2)
	require.NoError(t, x.Add([][]float64{{1, 0}, {0, 1}}, []string{"a", "b"}))

	res, err := x.Search([]float64{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = x.Search([]float64{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearch_EmptyIndex(t *testing.T) {
	x := NewFlatIndex(2)

	res, err := x.Search([]float64{0, 0}, 5)

	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	x := NewFlatIndex(2)

	_, err := x.Search([]float64{1}, 3)

	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	vectorsPath := filepath.Join(dir, "vectors.gob")
	chunksPath := filepath.Join(dir, "chunks.json")

	x := NewFlatIndex(3)
	require.NoError(t, x.Add([][]float64{{0.1, 0.2, 0.3}, {1, 2, 3}}, []string{"alpha", "beta"}))
	require.NoError(t, x.Save(vectorsPath, chunksPath))

	y := NewFlatIndex(3)
	require.NoError(t, y.Load(vectorsPath, chunksPath))
	assert.Equal(t, 2, y.Len())
	assert.Equal(t, 3, y.Dimension())

	res, err := y.Search([]float64{1, 2, 3}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "beta", res[0].Chunk)
	assert.Equal(t, 0.0, res[0].Distance)
	assert.Equal(t, "alpha", res[1].Chunk)
}

func TestSave_OverwritesWholesale(t *testing.T) {
	dir := t.TempDir()
	vectorsPath := filepath.Join(dir, "vectors.gob")
	chunksPath := filepath.Join(dir, "chunks.json")

	x := NewFlatIndex(1)
	require.NoError(t, x.Add([][]float64{{1}, {2}}, []string{"a", "b"}))
	require.NoError(t, x.Save(vectorsPath, chunksPath))

	x.Clear()
	require.NoError(t, x.Add([][]float64{{9}}, []string{"z"}))
	require.NoError(t, x.Save(vectorsPath, chunksPath))

	y := NewFlatIndex(1)
	require.NoError(t, y.Load(vectorsPath, chunksPath))
	assert.Equal(t, 1, y.Len())

	res, err := y.Search([]float64{9}, 1)
	require.NoError(t, err)
	assert.Equal(t, "z", res[0].Chunk)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	vectorsPath := filepath.Join(dir, "vectors.gob")
	chunksPath := filepath.Join(dir, "chunks.json")

	err := NewFlatIndex(2).Load(vectorsPath, chunksPath)
	require.ErrorIs(t, err, ErrNotFound)

	x := NewFlatIndex(2)
	require.NoError(t, x.Add([][]float64{{1, 0}}, []string{"a"}))
	require.NoError(t, x.Save(vectorsPath, chunksPath))
	require.NoError(t, os.Remove(chunksPath))

	err = NewFlatIndex(2).Load(vectorsPath, chunksPath)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_MismatchedCountsIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	vectorsPath := filepath.Join(dir, "vectors.gob")
	chunksPath := filepath.Join(dir, "chunks.json")

	x := NewFlatIndex(2)
	require.NoError(t, x.Add([][]float64{{1, 0}, {0, 1}}, []string{"a", "b"}))
	require.NoError(t, x.Save(vectorsPath, chunksPath))

	data, err := json.Marshal([]string{"only one"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(chunksPath, data, 0o644))

	y := NewFlatIndex(2)
	err = y.Load(vectorsPath, chunksPath)
	require.ErrorIs(t, err, ErrCorruptIndex)
	assert.Zero(t, y.Len())
}

func TestClear_EmptiesMemoryButNotDisk(t *testing.T) {
	dir := t.TempDir()
	vectorsPath := filepath.Join(dir, "vectors.gob")
	chunksPath := filepath.Join(dir, "chunks.json")

	x := NewFlatIndex(1)
	require.NoError(t, x.Add([][]float64{{1}}, []string{"a"}))
	require.NoError(t, x.Save(vectorsPath, chunksPath))

	x.Clear()

	assert.Zero(t, x.Len())
	res, err := x.Search([]float64{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)

	// persisted state stays; the chunks file is a plain ordered string list
	data, err := os.ReadFile(chunksPath)
	require.NoError(t, err)
	var chunks []string
	require.NoError(t, json.Unmarshal(data, &chunks))
	assert.Equal(t, []string{"a"}, chunks)
	_, err = os.Stat(vectorsPath)
	assert.NoError(t, err)
}
