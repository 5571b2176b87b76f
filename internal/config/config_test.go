package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "hash", cfg.Embedder.Type)
	assert.Equal(t, 384, cfg.Embedder.Dimension)
	assert.Equal(t, "openai", cfg.Generator.Type)
	assert.Equal(t, 300, cfg.Generator.MaxTokens)
	assert.InDelta(t, 0.7, float64(cfg.Generator.Temperature), 1e-6)
	assert.Equal(t, 512, cfg.Chunker.MaxChunkChars)
	assert.Equal(t, 100, cfg.Chunker.WordsPerChunk)
	assert.Equal(t, "data", cfg.Index.DataDir)
	assert.Equal(t, 3, cfg.Query.TopK)
}

func TestLoad_PartialFileGetsDefaultsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
embedder:
  type: openai
  openai:
    model: text-embedding-3-large
chunker:
  words_per_chunk: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 30, cfg.Embedder.OpenAI.TimeoutSecs)
	assert.Equal(t, 50, cfg.Chunker.WordsPerChunk)
	assert.Equal(t, 512, cfg.Chunker.MaxChunkChars)
	assert.Equal(t, "openai", cfg.Generator.Type)
}

func TestIndexConfig_Paths(t *testing.T) {
	c := IndexConfig{DataDir: "state"}

	assert.Equal(t, filepath.Join("state", "vectors.gob"), c.VectorsPath())
	assert.Equal(t, filepath.Join("state", "chunks.json"), c.ChunksPath())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Query.TopK = 7
	cfg.Index.DataDir = "elsewhere"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Query.TopK)
	assert.Equal(t, "elsewhere", loaded.Index.DataDir)
}
