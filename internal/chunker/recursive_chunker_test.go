package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortTextYieldsSingleChunk(t *testing.T) {
	c := NewRecursiveChunker(4000, 600)
	chunks, err := c.Chunk("hello world")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, "Chunk 1", chunks[0].Section)
}

func TestChunkEmptyTextYieldsNothing(t *testing.T) {
	c := NewRecursiveChunker(4000, 600)
	chunks, err := c.Chunk("   \n\n  ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkIsDeterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300) +
		"\n\nA second paragraph follows.\nWith a line break inside it.\n\n" +
		strings.Repeat("More filler text without much structure ", 200)
	c := NewRecursiveChunker(500, 80)

	first, err := c.Chunk(text)
	require.NoError(t, err)
	second, err := c.Chunk(text)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestChunkSizeInvariant(t *testing.T) {
	text := strings.Repeat("Sentences of varying length appear here. Short one. A somewhat longer sentence with more words in it. ", 100)
	c := NewRecursiveChunker(300, 50)
	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(ch.Text), 300)
	}
}

func TestChunkPositionsAreStrictlyIncreasing(t *testing.T) {
	text := strings.Repeat("word ", 500)
	c := NewRecursiveChunker(200, 40)
	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Position)
	}
}

func TestChunkAdjacentChunksShareBoundaryText(t *testing.T) {
	text := strings.Repeat("alpha bravo charlie delta echo foxtrot ", 100)
	c := NewRecursiveChunker(250, 60)
	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, sharedBoundary(chunks[i-1].Text, chunks[i].Text), 0,
			"chunks %d and %d share no boundary text", i-1, i)
	}
}

func TestChunkPrefersParagraphBoundaries(t *testing.T) {
	para1 := "First paragraph with about forty chars."
	para2 := "Second paragraph, also around forty."
	c := NewRecursiveChunker(50, 10)
	chunks, err := c.Chunk(para1 + "\n\n" + para2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, para1, chunks[0].Text)
	assert.Equal(t, para2, chunks[1].Text)
}

func TestChunkFallsBackToSentenceBoundaries(t *testing.T) {
	text := "One short sentence here. Another short sentence here. A third short sentence here."
	c := NewRecursiveChunker(60, 0)
	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(ch.Text), 60)
		// No chunk should start mid-word.
		assert.False(t, strings.HasPrefix(ch.Text, " "))
	}
}

func TestChunkTenThousandCharScenario(t *testing.T) {
	text := strings.Repeat("a", 10000)
	c := NewRecursiveChunker(4000, 600)
	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Position)
		assert.LessOrEqual(t, utf8.RuneCountInString(ch.Text), 4000)
	}
	assert.GreaterOrEqual(t, sharedBoundary(chunks[0].Text, chunks[1].Text), 600)
	assert.GreaterOrEqual(t, sharedBoundary(chunks[1].Text, chunks[2].Text), 600)
}

// sharedBoundary returns the length of the longest suffix of a that is a
// prefix of b.
func sharedBoundary(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for ; n > 0; n-- {
		if strings.HasSuffix(a, b[:n]) {
			return n
		}
	}
	return 0
}
