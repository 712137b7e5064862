// Package askserver exposes the transcript Q&A pipeline as MCP tools.
package askserver

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/qa"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all video Q&A tools on the given MCP server:
// ask_video, video_transcript, ask_history.
func RegisterTools(server *mcp.Server) {
	registerAskVideo(server)
	registerVideoTranscript(server)
	registerAskHistory(server)
}

func registerAskVideo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_video",
		Description: "Answer a question about a YouTube video using only its caption transcript. Fetches English captions, retrieves the transcript passages most relevant to the question, and answers strictly from them. Returns structured JSON with the answer, video title, and channel. Says \"I don't know.\" when the transcript does not cover the question.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.AskInput) (*mcp.CallToolResult, engine.AskOutput, error) {
		if input.URL == "" {
			return nil, engine.AskOutput{}, fmt.Errorf("url is required")
		}
		if input.Question == "" {
			return nil, engine.AskOutput{}, fmt.Errorf("question is required")
		}
		out, err := qa.Ask(ctx, input)
		if err != nil {
			return nil, engine.AskOutput{}, err
		}
		return nil, out, nil
	})
}

func registerVideoTranscript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_transcript",
		Description: "Fetch the full caption transcript of a YouTube video as plain text. Returns structured JSON with the transcript, video title, and channel. Use max_length to cap the returned text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.TranscriptInput) (*mcp.CallToolResult, engine.TranscriptOutput, error) {
		if input.URL == "" {
			return nil, engine.TranscriptOutput{}, fmt.Errorf("url is required")
		}
		out, err := qa.Transcript(ctx, input)
		if err != nil {
			return nil, engine.TranscriptOutput{}, err
		}
		return nil, out, nil
	})
}

func registerAskHistory(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_history",
		Description: "List recently answered video questions, newest first. Returns structured JSON with video ID, title, question, answer, and timestamp per entry.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.HistoryInput) (*mcp.CallToolResult, engine.HistoryOutput, error) {
		asks, err := engine.RecentAsks(ctx, input.Limit)
		if err != nil {
			return nil, engine.HistoryOutput{}, err
		}
		return nil, engine.HistoryOutput{Asks: asks, Total: len(asks)}, nil
	})
}
