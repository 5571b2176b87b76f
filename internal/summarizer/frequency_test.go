package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_LimitsSentenceCount(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Go compiles fast. Go deploys as one binary. Compilers are interesting. The weather is nice. Go has goroutines."

	out, err := s.Summarize(text, 2)

	require.NoError(t, err)
	assert.NotEmpty(t, out)
	sentences := strings.Count(out, ".")
	assert.LessOrEqual(t, sentences, 2)
}

func TestSummarize_PreservesDocumentOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Alpha ships logs. Beta ships logs. Gamma ships logs."

	out, err := s.Summarize(text, 3)

	require.NoError(t, err)
	alpha := strings.Index(out, "Alpha")
	gamma := strings.Index(out, "Gamma")
	require.GreaterOrEqual(t, alpha, 0)
	require.GreaterOrEqual(t, gamma, 0)
	assert.Less(t, alpha, gamma)
}

func TestSummarize_TextWithoutSentencesPassesThrough(t *testing.T) {
	s := NewFrequencySummarizer()

	out, err := s.Summarize("  just a fragment with no terminal punctuation  ", 3)

	require.NoError(t, err)
	assert.Equal(t, "just a fragment with no terminal punctuation", out)
}
