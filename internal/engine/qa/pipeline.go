// Package qa runs the full question answering pipeline over a single
// video transcript: fetch, chunk, embed, retrieve, answer.
package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
)

// Indirections for tests; production code never reassigns these.
var (
	fetchTranscript = sources.FetchTranscript
	answer          = engine.Answer
)

// Ask answers a question about one YouTube video using only its transcript.
// The transcript is fetched, chunked, and embedded fresh on every call;
// nothing is cached between requests.
func Ask(ctx context.Context, in engine.AskInput) (engine.AskOutput, error) {
	engine.IncrAskRequests()
	started := time.Now()

	question := strings.TrimSpace(in.Question)
	if question == "" {
		return engine.AskOutput{}, engine.ErrEmptyQuestion
	}
	videoID := engine.ExtractVideoID(in.URL)
	if videoID == "" {
		return engine.AskOutput{}, engine.ErrNoVideoID
	}

	transcript, meta, err := fetchTranscript(ctx, videoID, nil)
	if err != nil {
		return engine.AskOutput{}, fmt.Errorf("transcript %s: %w", videoID, err)
	}

	// An empty transcript yields no chunks; the index and the prompt both
	// handle empty context, and the model is instructed to say it doesn't know.
	chunks := engine.SplitText(transcript, engine.Cfg.ChunkSize, engine.Cfg.ChunkOverlap)

	vecs, err := engine.Cfg.Embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return engine.AskOutput{}, fmt.Errorf("embed chunks: %w", err)
	}
	index := engine.NewIndex()
	for i, vec := range vecs {
		if err := index.Add(chunks[i], vec); err != nil {
			return engine.AskOutput{}, fmt.Errorf("index chunk %d: %w", i, err)
		}
	}

	qvec, err := engine.Cfg.Embedder.Embed(ctx, question)
	if err != nil {
		return engine.AskOutput{}, fmt.Errorf("embed question: %w", err)
	}
	scored := index.Search(qvec, engine.Cfg.TopK)

	parts := make([]string, 0, len(scored))
	for _, s := range scored {
		parts = append(parts, s.Chunk)
	}
	contextText := strings.Join(parts, "\n\n")

	text, err := answer(ctx, contextText, question)
	if err != nil {
		return engine.AskOutput{}, fmt.Errorf("answer: %w", err)
	}

	out := engine.AskOutput{
		VideoID:   videoID,
		Question:  question,
		Answer:    text,
		Chunks:    index.Len(),
		Retrieved: len(scored),
	}
	if meta != nil {
		out.Title = meta.Title
		out.Channel = meta.Channel
	}
	engine.RecordAsk(ctx, out)

	slog.Info("ask: answered",
		slog.String("video_id", videoID),
		slog.Int("chunks", out.Chunks),
		slog.Int("retrieved", out.Retrieved),
		slog.Duration("took", time.Since(started)))
	return out, nil
}

// Transcript fetches the plain-text transcript of one video, optionally
// truncated to max_length characters.
func Transcript(ctx context.Context, in engine.TranscriptInput) (engine.TranscriptOutput, error) {
	videoID := engine.ExtractVideoID(in.URL)
	if videoID == "" {
		return engine.TranscriptOutput{}, engine.ErrNoVideoID
	}

	transcript, meta, err := fetchTranscript(ctx, videoID, nil)
	if err != nil {
		return engine.TranscriptOutput{}, fmt.Errorf("transcript %s: %w", videoID, err)
	}

	out := engine.TranscriptOutput{VideoID: videoID, Transcript: transcript}
	if meta != nil {
		out.Title = meta.Title
		out.Channel = meta.Channel
	}
	if in.MaxLength > 0 && len(transcript) > in.MaxLength {
		out.Transcript = engine.Truncate(transcript, in.MaxLength)
		out.Truncated = true
	}
	return out, nil
}
