package engine

import "errors"

// Sentinel errors mapped to user-facing messages at the web/MCP boundary.
var (
	// ErrCaptionsUnavailable means the video exists but has no usable
	// caption track (captions disabled, or none in an accepted language).
	ErrCaptionsUnavailable = errors.New("no captions available for this video")

	// ErrNoVideoID means no 11-character video ID could be extracted
	// from the submitted URL. The web form treats this as a no-op.
	ErrNoVideoID = errors.New("no video ID found in URL")

	// ErrEmptyQuestion means the question field was blank.
	ErrEmptyQuestion = errors.New("question is empty")
)

// --- Tool / form input types ---

type AskInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL (watch?v=... or youtu.be/... form)"`
	Question string `json:"question" jsonschema:"Question about the video transcript"`
}

type TranscriptInput struct {
	URL       string `json:"url" jsonschema:"YouTube video URL"`
	MaxLength int    `json:"max_length,omitempty" jsonschema:"Max characters returned (default: full transcript)"`
}

type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max entries to return (default: 20)"`
}

// --- Output types (JSON responses) ---

// AskOutput is the result of one full ask pipeline run.
type AskOutput struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Chunks    int    `json:"chunks"`    // transcript chunks indexed
	Retrieved int    `json:"retrieved"` // chunks placed in the prompt context
}

type TranscriptOutput struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title,omitempty"`
	Channel    string `json:"channel,omitempty"`
	Transcript string `json:"transcript"`
	Truncated  bool   `json:"truncated,omitempty"`
}

// AskRecord is one stored history entry.
type AskRecord struct {
	ID        int64  `json:"id"`
	VideoID   string `json:"video_id"`
	Title     string `json:"title,omitempty"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
}

type HistoryOutput struct {
	Asks  []AskRecord `json:"asks"`
	Total int         `json:"total"`
}
