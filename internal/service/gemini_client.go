package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"socialimpact/internal/config"
	"socialimpact/internal/logger"
)

// ErrEnrichmentUnavailable means no text could be produced within the retry budget
var ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

// GenerateRequest is one prompt sent to the text-generation service
type GenerateRequest struct {
	Prompt string
	// JSON asks the service for an application/json response
	JSON bool
	// Validate rejects a payload that should be retried. Optional.
	Validate func(text string) error
}

// TextGenerator produces text for a prompt
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeminiClient calls the Gemini generateContent endpoint with a bounded retry loop
type GeminiClient struct {
	config *config.AIConfig
	client *http.Client
	log    *logger.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewGeminiClient creates a client for cfg. The per-attempt timeout comes from
// cfg.Retry, so the http.Client itself carries none.
func NewGeminiClient(cfg *config.AIConfig, log *logger.Logger) *GeminiClient {
	if log == nil {
		log = logger.Nop()
	}
	return &GeminiClient{
		config: cfg,
		client: &http.Client{},
		log:    log.With("component", "gemini"),
		sleep:  sleepContext,
	}
}

// Generate returns the first candidate's text, or ErrEnrichmentUnavailable
// after at most Retry.MaxAttempts calls.
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if !c.config.IsEnabled() {
		return "", fmt.Errorf("%w: GEMINI_API_KEY not set", ErrEnrichmentUnavailable)
	}

	policy := c.config.Retry
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, policy.Backoff); err != nil {
				return "", fmt.Errorf("%w: %v", ErrEnrichmentUnavailable, err)
			}
		}

		text, err := c.attempt(ctx, policy.AttemptTimeout, req)
		if err == nil && req.Validate != nil {
			err = req.Validate(text)
		}
		if err == nil {
			return text, nil
		}

		lastErr = err
		c.log.Warn("generation attempt failed",
			"attempt", attempt+1,
			"max_attempts", policy.MaxAttempts,
			"error", err,
		)
		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w: max retries exceeded: %v", ErrEnrichmentUnavailable, lastErr)
}

func (c *GeminiClient) attempt(ctx context.Context, timeout time.Duration, req GenerateRequest) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": req.Prompt},
				},
			},
		},
	}
	if req.JSON {
		reqBody["generationConfig"] = map[string]interface{}{
			"responseMimeType": "application/json",
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.config.ModelEndpoint(c.config.Model) + "?key=" + url.QueryEscape(c.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// url.Error carries the request URL, which carries the key
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return "", uerr.Err
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("malformed gemini response: %w", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from Gemini")
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// StripCodeFence removes a surrounding ```json ... ``` block if present
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
