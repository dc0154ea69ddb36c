package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Gemini adjudicates videos through the Generative Language API: fetch the
// asset, upload it to the file API, poll until the remote side finishes
// ingesting, then request a structured audit.
type Gemini struct {
	apiKey       string
	model        string
	baseURL      string
	pollInterval time.Duration
	timeout      time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

// GeminiOption configures the gateway.
type GeminiOption func(*Gemini)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *Gemini) { g.httpClient = c }
}

// WithBaseURL points the gateway at a different API host, mainly for tests.
func WithBaseURL(u string) GeminiOption {
	return func(g *Gemini) { g.baseURL = u }
}

// WithLogger sets a logger for progress reporting.
func WithLogger(logger *slog.Logger) GeminiOption {
	return func(g *Gemini) { g.logger = logger }
}

// WithPollInterval overrides the file-state poll interval.
func WithPollInterval(d time.Duration) GeminiOption {
	return func(g *Gemini) { g.pollInterval = d }
}

// NewGemini builds the production analysis gateway. The timeout bounds the
// whole Analyze call including the remote ingestion poll loop; when it
// expires the caller gets ErrTimeout rather than an indefinite hang.
func NewGemini(apiKey, model string, pollInterval, timeout time.Duration, opts ...GeminiOption) *Gemini {
	g := &Gemini{
		apiKey:       apiKey,
		model:        model,
		baseURL:      defaultBaseURL,
		pollInterval: pollInterval,
		timeout:      timeout,
		httpClient:   &http.Client{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type remoteFile struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	State    string `json:"state"`
}

// Analyze runs the full exchange and returns a structured verdict. Hard
// failures (network, vendor rejection, timeout) come back as errors; the
// orchestrator degrades them into an error-shaped verdict. Unparseable model
// output is not an error and comes back as a degraded verdict.
func (g *Gemini) Analyze(ctx context.Context, videoURL, expectedCode string) (*Verdict, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, g.timeout, ErrTimeout)
	defer cancel()

	video, mimeType, err := g.fetchVideo(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch video: %w", timeoutCause(ctx, err))
	}

	file, err := g.uploadFile(ctx, video, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", timeoutCause(ctx, err))
	}

	file, err = g.awaitActive(ctx, file)
	if err != nil {
		return nil, err
	}

	text, err := g.generate(ctx, file, expectedCode)
	if err != nil {
		return nil, fmt.Errorf("generate verdict: %w", timeoutCause(ctx, err))
	}

	return ParseVerdict(text), nil
}

func (g *Gemini) fetchVideo(ctx context.Context, videoURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	return body, mimeType, nil
}

func (g *Gemini) uploadFile(ctx context.Context, video []byte, mimeType string) (*remoteFile, error) {
	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", g.baseURL, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(video))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	req.Header.Set("Content-Type", mimeType)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		File remoteFile `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if payload.File.Name == "" {
		return nil, fmt.Errorf("upload response missing file name")
	}
	return &payload.File, nil
}

// awaitActive polls the remote file until it leaves PROCESSING. The ctx
// deadline bounds the loop; the source implementation polled forever.
func (g *Gemini) awaitActive(ctx context.Context, file *remoteFile) (*remoteFile, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for file.State == "PROCESSING" {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("await video ingestion: %w", context.Cause(ctx))
		case <-ticker.C:
		}

		url := fmt.Sprintf("%s/v1beta/%s?key=%s", g.baseURL, file.Name, g.apiKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("poll file state: %w", timeoutCause(ctx, err))
		}
		var updated remoteFile
		err = json.NewDecoder(resp.Body).Decode(&updated)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode file state: %w", err)
		}
		file = &updated
		g.logger.DebugContext(ctx, "polled remote file", "name", file.Name, "state", file.State)
	}

	if file.State == "FAILED" {
		return nil, fmt.Errorf("vendor failed to process video file")
	}
	return file, nil
}

func (g *Gemini) generate(ctx context.Context, file *remoteFile, expectedCode string) (string, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{{
			"role": "user",
			"parts": []map[string]any{
				{"file_data": map[string]string{
					"file_uri":  file.URI,
					"mime_type": file.MimeType,
				}},
				{"text": auditPrompt(expectedCode)},
			},
		}},
	}
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if len(payload.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	var text bytes.Buffer
	for _, part := range payload.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// timeoutCause surfaces ErrTimeout when the deadline was the real failure,
// so callers can distinguish it from vendor errors.
func timeoutCause(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrTimeout) {
		return ErrTimeout
	}
	return err
}
