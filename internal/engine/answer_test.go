package engine

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("chunk one\n\nchunk two", "what is this about?")

	if !strings.HasPrefix(got, "You are a helpful assistant.") {
		t.Error("prompt does not start with the assistant instruction")
	}
	if !strings.Contains(got, `If the context is insufficient, say "I don't know."`) {
		t.Error("prompt is missing the refusal instruction")
	}
	if !strings.Contains(got, "chunk one\n\nchunk two") {
		t.Error("prompt is missing the context")
	}
	if !strings.HasSuffix(got, "Question: what is this about?") {
		t.Errorf("prompt does not end with the question, got tail %q", got[len(got)-40:])
	}
	if strings.Index(got, "chunk one") > strings.Index(got, "Question:") {
		t.Error("context must come before the question")
	}
}

func TestBuildPromptEmptyContext(t *testing.T) {
	got := BuildPrompt("", "anything?")
	if !strings.Contains(got, "Question: anything?") {
		t.Error("prompt lost the question when context is empty")
	}
}
