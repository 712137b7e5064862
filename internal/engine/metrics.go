package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	AskRequests       atomic.Int64
	TranscriptFetches atomic.Int64
	TranscriptErrors  atomic.Int64
	EmbedCalls        atomic.Int64
	EmbedErrors       atomic.Int64
	LLMCalls          atomic.Int64
	LLMErrors         atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"ask_requests":       metrics.AskRequests.Load(),
		"transcript_fetches": metrics.TranscriptFetches.Load(),
		"transcript_errors":  metrics.TranscriptErrors.Load(),
		"embed_calls":        metrics.EmbedCalls.Load(),
		"embed_errors":       metrics.EmbedErrors.Load(),
		"llm_calls":          metrics.LLMCalls.Load(),
		"llm_errors":         metrics.LLMErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"ask_requests",
		"transcript_fetches", "transcript_errors",
		"embed_calls", "embed_errors",
		"llm_calls", "llm_errors",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func IncrAskRequests() { metrics.AskRequests.Add(1) }

// Incrementors for the sources sub-package.
func IncrTranscriptFetches() { metrics.TranscriptFetches.Add(1) }
func IncrTranscriptErrors()  { metrics.TranscriptErrors.Add(1) }

func IncrEmbedCalls()  { metrics.EmbedCalls.Add(1) }
func IncrEmbedErrors() { metrics.EmbedErrors.Add(1) }
func IncrLLMCalls()    { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()   { metrics.LLMErrors.Add(1) }
