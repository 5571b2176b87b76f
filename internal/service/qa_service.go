package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/index"
)

// Config holds the orchestrator's persistence locations and fixed
// generation/retrieval parameters.
type Config struct {
	IndexPath           string
	ChunksPath          string
	MaxTokens           int
	Temperature         float32
	TopK                int
	SummaryMaxSentences int
}

// Service coordinates chunking, embedding, indexing, persistence and answer
// generation. It owns the two persisted-state locations and assumes callers
// serialize ingestion and query calls against each other.
type Service struct {
	chunker    domain.Chunker
	embedder   domain.Embedder
	generator  domain.Generator
	extractor  domain.Extractor
	summarizer domain.Summarizer
	index      domain.VectorIndex
	cfg        Config
}

func New(chunker domain.Chunker, embedder domain.Embedder, generator domain.Generator, extractor domain.Extractor, summarizer domain.Summarizer, idx domain.VectorIndex, cfg Config) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.SummaryMaxSentences <= 0 {
		cfg.SummaryMaxSentences = 5
	}
	return &Service{
		chunker:    chunker,
		embedder:   embedder,
		generator:  generator,
		extractor:  extractor,
		summarizer: summarizer,
		index:      idx,
		cfg:        cfg,
	}
}

// Initialize rehydrates the index from the persisted-state locations when
// both exist; otherwise the service starts with the empty index it was given.
func (s *Service) Initialize() error {
	err := s.index.Load(s.cfg.IndexPath, s.cfg.ChunksPath)
	if errors.Is(err, index.ErrNotFound) {
		return nil
	}
	return err
}

// IndexText chunks raw text, embeds every chunk in one batch call, appends
// the result to the index and persists the whole index. Returns the number
// of chunks added; text that chunks to nothing yields 0 without touching
// the embedder.
func (s *Service) IndexText(text string) (int, error) {
	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return 0, nil
	}
	vectors, err := s.embedder.EncodeBatch(chunks)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if err := s.index.Add(vectors, chunks); err != nil {
		return 0, err
	}
	if err := s.index.Save(s.cfg.IndexPath, s.cfg.ChunksPath); err != nil {
		return 0, fmt.Errorf("persist index: %w", err)
	}
	return len(chunks), nil
}

// IngestFile extracts text from path and indexes it. PDFs go through the
// extractor; anything else is read as plain text. Returns the chunk count
// and a short summary of the ingested document.
func (s *Service) IngestFile(path string) (int, string, error) {
	var text string
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		t, err := s.extractor.ExtractText(path)
		if err != nil {
			return 0, "", fmt.Errorf("extract %s: %w", path, err)
		}
		text = t
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, "", err
		}
		text = string(data)
	}
	n, err := s.IndexText(text)
	if err != nil {
		return 0, "", err
	}
	summary, err := s.summarizer.Summarize(text, s.cfg.SummaryMaxSentences)
	if err != nil {
		return n, "", err
	}
	return n, summary, nil
}

// IngestPDF stages the payload to a temporary file for the extractor and
// removes it on every exit path.
func (s *Service) IngestPDF(r io.Reader) (int, string, error) {
	tmp, err := os.CreateTemp("", "docqa-*.pdf")
	if err != nil {
		return 0, "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return 0, "", err
	}
	if err := tmp.Close(); err != nil {
		return 0, "", err
	}
	return s.IngestFile(tmp.Name())
}

// Query embeds the question, retrieves the topK nearest chunks and asks the
// generator for an answer grounded on them. An empty index is not an error:
// the prompt simply carries no context.
func (s *Service) Query(question string, topK int) (domain.Answer, error) {
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	vec, err := s.embedder.Encode(question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed question: %w", err)
	}
	results, err := s.index.Search(vec, topK)
	if err != nil {
		return domain.Answer{}, err
	}
	contexts := make([]string, len(results))
	distances := make([]float64, len(results))
	for i, r := range results {
		contexts[i] = r.Chunk
		distances[i] = r.Distance
	}
	answer, err := s.generator.Generate(buildPrompt(contexts, question), s.cfg.MaxTokens, s.cfg.Temperature)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}
	return domain.Answer{
		Answer:    strings.TrimSpace(answer),
		Contexts:  contexts,
		Distances: distances,
	}, nil
}

// ClearIndex replaces the in-memory index with an empty one and deletes both
// persisted-state locations. Absent files are not an error.
func (s *Service) ClearIndex() error {
	s.index.Clear()
	for _, p := range []string{s.cfg.IndexPath, s.cfg.ChunksPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func buildPrompt(contexts []string, question string) string {
	var b strings.Builder
	b.WriteString("Based on the following contexts, answer the question.\n\nContexts:\n")
	b.WriteString(strings.Join(contexts, " "))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
