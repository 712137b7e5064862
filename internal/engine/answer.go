package engine

import (
	"context"
	"fmt"
)

// answerPrompt grounds the model in the retrieved transcript context.
// The refusal is instruction-enforced only; nothing checks that the
// model actually refrained from inventing an answer.
// Args: context, question.
const answerPrompt = `You are a helpful assistant.
Answer ONLY using the context from the video transcript.
If the context is insufficient, say "I don't know."

%s
Question: %s`

// BuildPrompt renders the grounded answer prompt. An empty context is
// rendered as-is; the instructions already cover that case.
func BuildPrompt(contextText, question string) string {
	return fmt.Sprintf(answerPrompt, contextText, question)
}

// Answer sends the rendered prompt to the generative model and returns
// its text response verbatim. One synchronous call, no streaming, no
// fallback model.
func Answer(ctx context.Context, contextText, question string) (string, error) {
	IncrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, "", BuildPrompt(contextText, question))
	if err != nil {
		IncrLLMErrors()
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return resp, nil
}
