package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// YouTube transcript fetching.
// Primary:  scrape watch page ytInitialPlayerResponse → caption XML (works from any IP)
// Fallback: ANDROID Innertube /player → captionTracks (works from non-blocked IPs)

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Skips tracks that require PoToken — those only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return tracks[0], false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// parseTimedText extracts plain text from YouTube timedtext XML, joining
// caption lines with single spaces.
func parseTimedText(body []byte) (string, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}
	var sb strings.Builder
	for _, line := range tt.Lines {
		text := engine.CleanHTML(line.Text)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	if err := waitYouTube(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", engine.UserAgentBot)

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", err
	}
	return parseTimedText(body)
}

// fetchWatchPage downloads the watch page HTML. Prefers BrowserClient when
// configured; YouTube serves consent walls to non-browser TLS fingerprints
// from some networks.
func fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	if err := waitYouTube(ctx); err != nil {
		return nil, err
	}
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	if engine.Cfg.BrowserClient != nil {
		headers := engine.ChromeHeaders()
		headers["accept-language"] = "en-US,en;q=0.9"
		data, _, status, err := engine.Cfg.BrowserClient.Do("GET", watchURL, headers, nil)
		if err != nil {
			return nil, fmt.Errorf("watch page (browser): %w", err)
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("watch page (browser): status %d", status)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", engine.RandomUserAgent())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
}

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// extractPlayerResponse locates and decodes ytInitialPlayerResponse in watch page HTML.
func extractPlayerResponse(body []byte) (*innertubePlayerResp, error) {
	idx := strings.Index(string(body), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &playerResp, nil
}

// transcriptFromPlayerResp picks a caption track from a player response and
// downloads its timedtext XML. Returns ErrCaptionsUnavailable when the video
// has no usable captions (as opposed to a transport failure).
func transcriptFromPlayerResp(ctx context.Context, playerResp *innertubePlayerResp, langs []string) (string, error) {
	if playerResp.Captions == nil {
		reason := ""
		if playerResp.PlayabilityStatus != nil {
			reason = playerResp.PlayabilityStatus.Reason
		}
		if reason != "" {
			return "", fmt.Errorf("%w: %s", engine.ErrCaptionsUnavailable, reason)
		}
		return "", engine.ErrCaptionsUnavailable
	}
	tracks := playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", engine.ErrCaptionsUnavailable
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return "", fmt.Errorf("%w: all tracks require PoToken", engine.ErrCaptionsUnavailable)
	}
	return fetchTimedText(ctx, track.BaseURL)
}

// fetchTranscriptViaPageScrape scrapes the YouTube watch page HTML and extracts
// the caption track XML URL from ytInitialPlayerResponse. Works from any IP.
// Also parses video title and channel from the page's meta tags.
func fetchTranscriptViaPageScrape(ctx context.Context, videoID string, langs []string) (string, *VideoMeta, error) {
	body, err := fetchWatchPage(ctx, videoID)
	if err != nil {
		return "", nil, err
	}

	meta := ParseVideoMeta(body)

	playerResp, err := extractPlayerResponse(body)
	if err != nil {
		return "", meta, err
	}
	text, err := transcriptFromPlayerResp(ctx, playerResp, langs)
	if err != nil {
		return "", meta, err
	}
	return text, meta, nil
}

// fetchTranscriptViaPlayer uses the ANDROID Innertube /player endpoint.
// Works from non-blocked (residential/cloud) IP addresses.
func fetchTranscriptViaPlayer(ctx context.Context, videoID string, langs []string) (string, *VideoMeta, error) {
	playerResp, err := postPlayer(ctx, videoID)
	if err != nil {
		return "", nil, err
	}

	var meta *VideoMeta
	if playerResp.VideoDetails != nil {
		meta = &VideoMeta{
			Title:   playerResp.VideoDetails.Title,
			Channel: playerResp.VideoDetails.Author,
		}
	}

	text, err := transcriptFromPlayerResp(ctx, playerResp, langs)
	if err != nil {
		return "", meta, err
	}
	return text, meta, nil
}

// FetchTranscript fetches the caption transcript for a YouTube video as a
// single plain-text string, plus whatever metadata the fetch path surfaced.
//
// Both strategies report ErrCaptionsUnavailable when the video itself has no
// usable captions; a definitive answer from the page scrape short-circuits
// the player fallback.
func FetchTranscript(ctx context.Context, videoID string, langs []string) (string, *VideoMeta, error) {
	engine.IncrTranscriptFetches()
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	if engine.Cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
		defer cancel()
	}

	text, meta, err := fetchTranscriptViaPageScrape(ctx, videoID, langs)
	if err == nil {
		return text, meta, nil
	}
	if errors.Is(err, engine.ErrCaptionsUnavailable) {
		engine.IncrTranscriptErrors()
		return "", meta, err
	}
	slog.Warn("youtube: page scrape failed, trying player",
		slog.String("id", videoID), slog.Any("err", err))

	text, playerMeta, err := fetchTranscriptViaPlayer(ctx, videoID, langs)
	if playerMeta == nil {
		playerMeta = meta
	}
	if err != nil {
		engine.IncrTranscriptErrors()
		return "", playerMeta, err
	}
	return text, playerMeta, nil
}
