package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding/hash"
	openaiembed "docqa/internal/embedding/openai"
	"docqa/internal/extract"
	openaigen "docqa/internal/generation/openai"
	"docqa/internal/index"
	"docqa/internal/service"
	"docqa/internal/summarizer"
	"docqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "hash", "":
		emb = hash.NewEmbedder(cfg.Embedder.Dimension)
	case "openai":
		oc := cfg.Embedder.OpenAI
		if oc == nil {
			oc = &config.OpenAIConfig{}
		}
		client, err := openaiembed.NewClient(openaiembed.Config{
			BaseURL:   oc.BaseURL,
			APIKeyEnv: oc.APIKeyEnv,
			Model:     oc.Model,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var gen domain.Generator
	switch cfg.Generator.Type {
	case "openai", "":
		oc := cfg.Generator.OpenAI
		if oc == nil {
			oc = &config.OpenAIConfig{}
		}
		client, err := openaigen.NewClient(openaigen.Config{
			BaseURL:   oc.BaseURL,
			APIKeyEnv: oc.APIKeyEnv,
			Model:     oc.Model,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai generator init failed: %v", err)
		}
		gen = client
	default:
		log.Fatalf("unknown generator: %s", cfg.Generator.Type)
	}

	ch := chunker.NewParagraphChunker(cfg.Chunker.MaxChunkChars, cfg.Chunker.WordsPerChunk)
	idx := index.NewFlatIndex(emb.Dimension())
	sum := summarizer.NewFrequencySummarizer()

	if err := os.MkdirAll(cfg.Index.DataDir, 0o755); err != nil {
		log.Fatalf("failed to create data dir: %v", err)
	}

	svc := service.New(ch, emb, gen, extract.NewPDFExtractor(), sum, idx, service.Config{
		IndexPath:           cfg.Index.VectorsPath(),
		ChunksPath:          cfg.Index.ChunksPath(),
		MaxTokens:           cfg.Generator.MaxTokens,
		Temperature:         cfg.Generator.Temperature,
		TopK:                cfg.Query.TopK,
		SummaryMaxSentences: cfg.Summary.MaxSentences,
	})
	if err := svc.Initialize(); err != nil {
		log.Fatalf("failed to load persisted index: %v", err)
	}

	summary := fmt.Sprintf("Index holds %d chunks.", idx.Len())
	total := 0
	for _, path := range inputs {
		n, docSummary, err := svc.IngestFile(path)
		if err != nil {
			log.Fatalf("ingest %s failed: %v", path, err)
		}
		total += n
		if docSummary != "" {
			summary = docSummary
		}
	}
	if len(inputs) > 0 {
		summary = fmt.Sprintf("Indexed %d chunks from %d file(s). %s", total, len(inputs), summary)
	}

	m := tui.New(svc, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
