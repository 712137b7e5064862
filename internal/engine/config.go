package engine

import (
	"errors"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey      string
	LLMAPIBase     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	OllamaURL  string
	EmbedModel string

	TopK         int
	ChunkSize    int
	ChunkOverlap int

	YouTubeRPS   float64
	FetchTimeout time.Duration

	HistoryDB string // empty = history disabled

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = plain HTTP watch-page fetch
	LLMClient     *llm.Client
	Embedder      *EmbeddingClient
}

// Validate checks the configuration before the process starts serving.
func (c Config) Validate() error {
	if c.LLMAPIKey == "" {
		return errors.New("LLM_API_KEY is required")
	}
	return nil
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (qa, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.TopK <= 0 {
		c.TopK = 4
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = 200
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg = c
	Cfg = &cfg
}
