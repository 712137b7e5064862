package engine

import (
	"strings"
	"unicode/utf8"
)

// chunkSeparators are tried in order when looking for a natural split
// point inside a window: paragraph break, line break, sentence end, word.
var chunkSeparators = []string{"\n\n", "\n", ". ", " "}

// SplitText splits text into overlapping windows of at most size bytes.
// Every window after the first starts overlap bytes before the end of
// the previous one (nudged back to the nearest rune start), so
// consecutive chunks share an overlap-sized boundary and their union
// reconstructs the input. Window ends prefer a
// natural boundary (paragraph, line, sentence, word) in the tail of the
// window; a hard cut is used only when none exists there. Deterministic
// for identical input.
//
// Text shorter than size yields exactly one chunk; empty text yields none.
func SplitText(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			return chunks
		}
		cut := boundaryCut(text, start, end, overlap)
		chunks = append(chunks, text[start:cut])
		next := cut - overlap
		// Keep chunk starts rune-aligned; the overlap grows by a byte
		// or two when the boundary lands inside a multi-byte character.
		for next > start+1 && !utf8.RuneStart(text[next]) {
			next--
		}
		start = next
	}
}

// boundaryCut picks the split point for the window text[start:end].
// Only cuts in the final eighth of the window are considered, so the
// next window (which starts overlap bytes earlier) always advances.
func boundaryCut(text string, start, end, overlap int) int {
	window := text[start:end]
	min := len(window) - len(window)/8
	if min <= overlap {
		min = overlap + 1
	}
	for _, sep := range chunkSeparators {
		if i := strings.LastIndex(window, sep); i >= min {
			return start + i + len(sep)
		}
	}
	// Hard cut: back up to a rune start so multi-byte characters survive.
	for end > start+overlap+1 && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}
