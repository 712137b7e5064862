// Package webui serves the browser front end: a single page with a URL
// and question form, the latest answer, and recent history.
package webui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/qa"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>go_tube</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
h1 { font-size: 1.4rem; }
form { display: grid; gap: .6rem; margin-bottom: 1.5rem; }
input[type=text] { padding: .5rem; font-size: 1rem; border: 1px solid #bbb; border-radius: 4px; }
button { padding: .5rem 1rem; font-size: 1rem; border: 0; border-radius: 4px; background: #c00; color: #fff; cursor: pointer; width: fit-content; }
.error { color: #c00; margin-bottom: 1rem; }
.answer { background: #f6f6f6; border-radius: 6px; padding: 1rem; white-space: pre-wrap; }
.meta { color: #666; font-size: .9rem; }
table { border-collapse: collapse; width: 100%; font-size: .9rem; }
td, th { text-align: left; padding: .3rem .5rem; border-bottom: 1px solid #eee; vertical-align: top; }
</style>
</head>
<body>
<h1>Ask a YouTube video</h1>
<form method="post" action="/ask">
<input type="text" name="url" placeholder="YouTube URL" value="{{.URL}}">
<input type="text" name="question" placeholder="Your question" value="{{.Question}}">
<button type="submit">Ask</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Result}}
<h2>{{if .Result.Title}}{{.Result.Title}}{{else}}{{.Result.VideoID}}{{end}}</h2>
{{if .Result.Channel}}<p class="meta">{{.Result.Channel}}</p>{{end}}
<div class="answer">{{.Result.Answer}}</div>
{{end}}
{{if .History}}
<h2>Recent questions</h2>
<table>
<tr><th>Video</th><th>Question</th><th>Answer</th></tr>
{{range .History}}<tr><td>{{if .Title}}{{.Title}}{{else}}{{.VideoID}}{{end}}</td><td>{{.Question}}</td><td>{{.Answer}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	URL      string
	Question string
	Error    string
	Result   *engine.AskOutput
	History  []engine.AskRecord
}

// Server is the web UI HTTP handler.
type Server struct {
	mux *http.ServeMux
	ask func(ctx context.Context, in engine.AskInput) (engine.AskOutput, error)
}

// New builds the web UI server wired to the live pipeline.
func New() *Server {
	s := &Server{ask: qa.Ask}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /ask", s.handleAsk)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if history, err := engine.RecentAsks(ctx, 10); err == nil {
		data.History = history
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		slog.Error("webui: render failed", slog.Any("error", err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, pageData{})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	in := engine.AskInput{
		URL:      r.FormValue("url"),
		Question: r.FormValue("question"),
	}

	out, err := s.ask(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoVideoID), errors.Is(err, engine.ErrEmptyQuestion):
			// Incomplete form: show the page again without complaint.
			s.render(w, pageData{URL: in.URL, Question: in.Question})
		case errors.Is(err, engine.ErrCaptionsUnavailable):
			s.render(w, pageData{URL: in.URL, Question: in.Question,
				Error: "No captions available for this video."})
		default:
			slog.Error("webui: ask failed", slog.Any("error", err))
			s.render(w, pageData{URL: in.URL, Question: in.Question,
				Error: "An error occurred: " + err.Error()})
		}
		return
	}

	s.render(w, pageData{URL: in.URL, Question: in.Question, Result: &out})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, engine.FormatMetrics())
}
