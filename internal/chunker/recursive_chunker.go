package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ragpartner/internal/domain"
)

// Boundary preference, highest first. The empty separator is the raw-rune
// fallback and must stay last.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveChunker splits text into overlapping chunks of at most maxChars
// runes, preferring paragraph, line, sentence and word boundaries in that
// order before cutting mid-word.
type RecursiveChunker struct {
	maxChars     int
	overlapChars int
}

func NewRecursiveChunker(maxChars, overlapChars int) *RecursiveChunker {
	if maxChars <= 0 {
		maxChars = 4000
	}
	if overlapChars < 0 || overlapChars >= maxChars {
		overlapChars = maxChars / 8
	}
	return &RecursiveChunker{maxChars: maxChars, overlapChars: overlapChars}
}

// Chunk produces the ordered chunk sequence for a document body. Positions
// are 0-based in emission order; identical input yields identical output.
func (c *RecursiveChunker) Chunk(text string) ([]domain.Chunk, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	var chunks []domain.Chunk
	for i, piece := range c.splitText(trimmed, separators) {
		chunks = append(chunks, domain.Chunk{
			Text:     piece,
			Section:  fmt.Sprintf("Chunk %d", i+1),
			Position: i,
		})
	}
	return chunks, nil
}

// splitText picks the highest-priority separator present in text, splits on
// it, recurses into oversized pieces with the lower-priority separators, and
// merges the rest into size-bounded overlapping windows.
func (c *RecursiveChunker) splitText(text string, seps []string) []string {
	sep := seps[len(seps)-1]
	var rest []string
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	splits := splitKeep(text, sep)
	var final []string
	var mergeable []string
	for _, piece := range splits {
		if utf8.RuneCountInString(piece) <= c.maxChars {
			mergeable = append(mergeable, piece)
			continue
		}
		if len(mergeable) > 0 {
			final = append(final, c.mergeSplits(mergeable)...)
			mergeable = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, c.splitText(piece, rest)...)
		}
	}
	if len(mergeable) > 0 {
		final = append(final, c.mergeSplits(mergeable)...)
	}
	return final
}

// mergeSplits packs separator-terminated pieces into chunks of at most
// maxChars runes. After a chunk is emitted, trailing pieces totalling at most
// overlapChars are carried into the next window.
func (c *RecursiveChunker) mergeSplits(splits []string) []string {
	var chunks []string
	var window []string
	total := 0

	emit := func() {
		joined := strings.TrimSpace(strings.Join(window, ""))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, piece := range splits {
		n := utf8.RuneCountInString(piece)
		if total+n > c.maxChars && len(window) > 0 {
			emit()
			for total > c.overlapChars || (total > 0 && total+n > c.maxChars) {
				total -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += n
	}
	if len(window) > 0 {
		emit()
	}
	return chunks
}

// splitKeep splits on sep, keeping the separator attached to the piece it
// terminates so re-joining reproduces the original text. An empty sep splits
// into individual runes.
func splitKeep(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			p += sep
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
