package qa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
)

// fakeOllama derives each embedding from topic keyword counts so that
// retrieval ranking is observable in tests.
func fakeOllama(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		vec := []float64{
			float64(strings.Count(req.Prompt, "kubernetes") + 1),
			float64(strings.Count(req.Prompt, "espresso")),
		}
		json.NewEncoder(w).Encode(map[string]any{"embedding": vec})
	}))
}

func initTestEngine(t *testing.T, srv *httptest.Server) {
	t.Helper()
	engine.Init(engine.Config{
		LLMAPIKey:    "test-key",
		TopK:         2,
		ChunkSize:    80,
		ChunkOverlap: 16,
		HTTPClient:   srv.Client(),
		Embedder:     engine.NewEmbeddingClient(srv.URL, "test-model"),
	})
}

func TestAskInputErrors(t *testing.T) {
	_, err := Ask(context.Background(), engine.AskInput{URL: "https://youtu.be/dQw4w9WgXcQ", Question: "  "})
	if !errors.Is(err, engine.ErrEmptyQuestion) {
		t.Errorf("blank question: err = %v, want ErrEmptyQuestion", err)
	}

	_, err = Ask(context.Background(), engine.AskInput{URL: "https://example.com", Question: "why?"})
	if !errors.Is(err, engine.ErrNoVideoID) {
		t.Errorf("bad url: err = %v, want ErrNoVideoID", err)
	}
}

func TestAskPipeline(t *testing.T) {
	srv := fakeOllama(t)
	defer srv.Close()
	initTestEngine(t, srv)

	transcript := strings.Join([]string{
		"first we set up the kubernetes cluster and deploy the kubernetes operator to every node in the fleet.",
		"then a quick break to pull a shot of espresso and talk about espresso grinders for a while longer.",
		"back to kubernetes where we configure the kubernetes scheduler and roll out the workloads everywhere.",
	}, " ")

	savedFetch, savedAnswer := fetchTranscript, answer
	defer func() { fetchTranscript, answer = savedFetch, savedAnswer }()

	fetchTranscript = func(ctx context.Context, videoID string, langs []string) (string, *sources.VideoMeta, error) {
		if videoID != "dQw4w9WgXcQ" {
			t.Errorf("videoID = %q", videoID)
		}
		return transcript, &sources.VideoMeta{Title: "Cluster Setup", Channel: "Ops Weekly"}, nil
	}

	var gotContext, gotQuestion string
	answer = func(ctx context.Context, contextText, question string) (string, error) {
		gotContext, gotQuestion = contextText, question
		return "It sets up a kubernetes cluster.", nil
	}

	out, err := Ask(context.Background(), engine.AskInput{
		URL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Question: "how is the kubernetes cluster set up?",
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if out.Answer != "It sets up a kubernetes cluster." {
		t.Errorf("Answer = %q", out.Answer)
	}
	if out.Title != "Cluster Setup" || out.Channel != "Ops Weekly" {
		t.Errorf("meta = %q / %q", out.Title, out.Channel)
	}
	if out.Chunks < 2 {
		t.Errorf("Chunks = %d, want several", out.Chunks)
	}
	if out.Retrieved != 2 {
		t.Errorf("Retrieved = %d, want TopK", out.Retrieved)
	}

	if gotQuestion != "how is the kubernetes cluster set up?" {
		t.Errorf("question passed to answer = %q", gotQuestion)
	}
	if !strings.Contains(gotContext, "kubernetes") {
		t.Error("retrieved context does not cover the question topic")
	}
	if len(strings.Split(gotContext, "\n\n")) != 2 {
		t.Errorf("context should join TopK chunks with blank lines, got %q", gotContext)
	}
}

func TestAskEmptyTranscript(t *testing.T) {
	srv := fakeOllama(t)
	defer srv.Close()
	initTestEngine(t, srv)

	savedFetch, savedAnswer := fetchTranscript, answer
	defer func() { fetchTranscript, answer = savedFetch, savedAnswer }()

	fetchTranscript = func(ctx context.Context, videoID string, langs []string) (string, *sources.VideoMeta, error) {
		return "", nil, nil
	}
	var gotContext string
	answer = func(ctx context.Context, contextText, question string) (string, error) {
		gotContext = contextText
		return "I don't know.", nil
	}

	out, err := Ask(context.Background(), engine.AskInput{
		URL:      "https://youtu.be/dQw4w9WgXcQ",
		Question: "what is covered?",
	})
	if err != nil {
		t.Fatalf("Ask with empty transcript: %v", err)
	}
	if gotContext != "" {
		t.Errorf("context = %q, want empty", gotContext)
	}
	if out.Chunks != 0 || out.Retrieved != 0 {
		t.Errorf("Chunks/Retrieved = %d/%d, want 0/0", out.Chunks, out.Retrieved)
	}
	if out.Answer != "I don't know." {
		t.Errorf("Answer = %q", out.Answer)
	}
}

func TestAskFetchError(t *testing.T) {
	srv := fakeOllama(t)
	defer srv.Close()
	initTestEngine(t, srv)

	saved := fetchTranscript
	defer func() { fetchTranscript = saved }()
	fetchTranscript = func(ctx context.Context, videoID string, langs []string) (string, *sources.VideoMeta, error) {
		return "", nil, engine.ErrCaptionsUnavailable
	}

	_, err := Ask(context.Background(), engine.AskInput{
		URL:      "https://youtu.be/dQw4w9WgXcQ",
		Question: "anything?",
	})
	if !errors.Is(err, engine.ErrCaptionsUnavailable) {
		t.Errorf("err = %v, want ErrCaptionsUnavailable", err)
	}
}

func TestTranscriptTool(t *testing.T) {
	srv := fakeOllama(t)
	defer srv.Close()
	initTestEngine(t, srv)

	saved := fetchTranscript
	defer func() { fetchTranscript = saved }()
	fetchTranscript = func(ctx context.Context, videoID string, langs []string) (string, *sources.VideoMeta, error) {
		return "the full transcript text", &sources.VideoMeta{Title: "T"}, nil
	}

	out, err := Transcript(context.Background(), engine.TranscriptInput{URL: "https://youtu.be/dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if out.Transcript != "the full transcript text" || out.Truncated {
		t.Errorf("out = %+v", out)
	}

	out, err = Transcript(context.Background(), engine.TranscriptInput{
		URL:       "https://youtu.be/dQw4w9WgXcQ",
		MaxLength: 8,
	})
	if err != nil {
		t.Fatalf("Transcript truncated: %v", err)
	}
	if out.Transcript != "the full" || !out.Truncated {
		t.Errorf("truncated out = %+v", out)
	}
}
