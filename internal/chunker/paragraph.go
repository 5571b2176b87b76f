package chunker

import "strings"

// ParagraphChunker splits text into paragraphs on blank-line boundaries and
// regroups oversized paragraphs into fixed-size word groups.
type ParagraphChunker struct {
	maxChars      int
	wordsPerGroup int
}

func NewParagraphChunker(maxChars, wordsPerGroup int) *ParagraphChunker {
	if maxChars <= 0 {
		maxChars = 512
	}
	if wordsPerGroup <= 0 {
		wordsPerGroup = 100
	}
	return &ParagraphChunker{maxChars: maxChars, wordsPerGroup: wordsPerGroup}
}

// Chunk returns the chunks of text in input order. Paragraphs that are empty
// after trimming are dropped; paragraphs longer than maxChars are re-split
// into groups of wordsPerGroup words joined by single spaces.
func (c *ParagraphChunker) Chunk(text string) []string {
	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= c.maxChars {
			chunks = append(chunks, para)
			continue
		}
		words := strings.Fields(para)
		for i := 0; i < len(words); i += c.wordsPerGroup {
			end := i + c.wordsPerGroup
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, strings.Join(words[i:end], " "))
		}
	}
	return chunks
}
