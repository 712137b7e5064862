package engine

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitTextEmpty(t *testing.T) {
	if got := SplitText("", 1000, 200); got != nil {
		t.Errorf("SplitText(\"\") = %v, want nil", got)
	}
}

func TestSplitTextShort(t *testing.T) {
	text := "a short transcript that fits in one window"
	got := SplitText(text, 1000, 200)
	if len(got) != 1 || got[0] != text {
		t.Errorf("SplitText(short) = %v, want the input as a single chunk", got)
	}
}

// buildTranscript produces a realistic caption-style text of roughly n bytes.
func buildTranscript(n int) string {
	var sb strings.Builder
	sentences := []string{
		"welcome back to the channel everyone.",
		"today we are going to talk about how large language models work.",
		"the first thing to understand is the idea of a token.",
		"a token is just a small piece of text the model operates on.",
		"now let's look at embeddings and why they matter for retrieval.",
	}
	for i := 0; sb.Len() < n; i++ {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(sentences[i%len(sentences)])
	}
	return sb.String()
}

func TestSplitTextWindowSize(t *testing.T) {
	text := buildTranscript(5000)
	chunks := SplitText(text, 1000, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 1000 {
			t.Errorf("chunk %d is %d bytes, want <= 1000", i, len(c))
		}
		if len(c) == 0 {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitTextExactOverlap(t *testing.T) {
	const overlap = 200
	text := buildTranscript(5000)
	chunks := SplitText(text, 1000, overlap)
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		tail := prev[len(prev)-overlap:]
		head := cur[:overlap]
		if tail != head {
			t.Fatalf("chunks %d/%d do not share a %d-byte boundary:\n tail %q\n head %q",
				i-1, i, overlap, tail, head)
		}
	}
}

func TestSplitTextReconstruction(t *testing.T) {
	const overlap = 200
	text := buildTranscript(7500)
	chunks := SplitText(text, 1000, overlap)

	var sb strings.Builder
	sb.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		sb.WriteString(c[overlap:])
	}
	if sb.String() != text {
		t.Error("concatenating chunks minus overlaps does not reconstruct the input")
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := buildTranscript(4000)
	a := SplitText(text, 1000, 200)
	b := SplitText(text, 1000, 200)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitTextNoSeparators(t *testing.T) {
	// No separators at all forces hard cuts; chunks must still be
	// substrings of the input and cover it end to end.
	text := strings.Repeat("x", 3210)
	chunks := SplitText(text, 1000, 200)
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !strings.Contains(text, c) {
			t.Fatalf("chunk %d is not a substring of the input", i)
		}
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("final chunk does not end where the input ends")
	}
}

func TestSplitTextValidUTF8(t *testing.T) {
	// Multi-byte text with no separators forces hard cuts; every chunk
	// must still start and end on rune boundaries.
	text := strings.Repeat("日本語のテキストです", 60)
	chunks := SplitText(text, 1000, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
		if !strings.Contains(text, c) {
			t.Errorf("chunk %d is not a substring of the input", i)
		}
	}
}

func TestSplitTextBadParams(t *testing.T) {
	text := buildTranscript(3000)
	// Degenerate size and overlap fall back to defaults instead of looping.
	chunks := SplitText(text, 0, -5)
	if len(chunks) == 0 {
		t.Fatal("expected chunks with default params")
	}
	chunks = SplitText(text, 100, 100)
	if len(chunks) == 0 {
		t.Fatal("expected chunks when overlap >= size")
	}
}
