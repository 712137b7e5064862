// go_tube — YouTube transcript Q&A server.
//
// Asks questions about a single YouTube video using only its caption
// transcript: fetch captions, chunk, embed locally via Ollama, retrieve the
// closest passages, and answer with a hosted LLM grounded on them.
//
// Serves a minimal web UI and an MCP endpoint with three tools:
// ask_video, video_transcript, ask_history.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go_tube/internal/askserver"
	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/webui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	webPort = env.Str("WEB_PORT", "8890")
	mcpPort = env.Str("MCP_PORT", "8891")
)

func main() {
	initEngine()

	slog.Info("starting go_tube",
		slog.String("web_port", webPort),
		slog.String("mcp_port", mcpPort),
	)

	go func() {
		srv := &http.Server{
			Addr:         ":" + webPort,
			Handler:      webui.New(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 600 * time.Second,
		}
		if err := srv.ListenAndServe(); err != nil {
			slog.Error("web server failed", slog.Any("error", err))
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_tube",
		Version: version,
	}, nil)

	askserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_tube",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:      env.Str("LLM_API_KEY", ""),
		LLMAPIBase:     env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:       env.Str("LLM_MODEL", "gemini-1.5-flash"),
		LLMTemperature: env.Float("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:   env.Int("LLM_MAX_TOKENS", 1024),
		OllamaURL:      env.Str("OLLAMA_URL", "http://127.0.0.1:11434"),
		EmbedModel:     env.Str("EMBED_MODEL", "nomic-embed-text"),
		TopK:           env.Int("TOP_K", 4),
		ChunkSize:      env.Int("CHUNK_SIZE", 1000),
		ChunkOverlap:   env.Int("CHUNK_OVERLAP", 200),
		YouTubeRPS:     env.Float("YOUTUBE_RPS", 2),
		FetchTimeout:   env.Duration("FETCH_TIMEOUT", 15*time.Second),
		HistoryDB:      env.Str("HISTORY_DB", defaultHistoryPath()),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if err := c.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Optional browser-grade TLS fingerprint for watch-page fetches.
	if env.Str("STEALTH_FETCH", "") != "" {
		bc, err := stealth.NewClient(stealth.WithTimeout(15))
		if err != nil {
			slog.Warn("stealth client init failed, using plain HTTP", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
	c.Embedder = engine.NewEmbeddingClient(c.OllamaURL, c.EmbedModel)

	engine.Init(c)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".go_tube", "history.db")
}
