package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialimpact/internal/config"
)

func geminiBody(text string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return string(b)
}

func testAIConfig(baseURL string) *config.AIConfig {
	return &config.AIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-model",
		Retry: config.RetryPolicy{
			MaxAttempts:    5,
			Backoff:        time.Second,
			AttemptTimeout: 2 * time.Second,
		},
	}
}

func newTestGemini(cfg *config.AIConfig) (*GeminiClient, *int32) {
	var sleeps int32
	c := NewGeminiClient(cfg, nil)
	c.sleep = func(ctx context.Context, d time.Duration) error {
		atomic.AddInt32(&sleeps, 1)
		return ctx.Err()
	}
	return c, &sleeps
}

func TestGeminiClient_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, geminiBody(`{"persona":"The Scroller"}`))
	}))
	defer srv.Close()

	c, sleeps := newTestGemini(testAIConfig(srv.URL))
	text, err := c.Generate(context.Background(), GenerateRequest{Prompt: "hello", JSON: true})
	require.NoError(t, err)

	assert.Equal(t, `{"persona":"The Scroller"}`, text)
	assert.Equal(t, "/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, "generationConfig")
	assert.Zero(t, atomic.LoadInt32(sleeps))
}

func TestGeminiClient_PlainTextOmitsGenerationConfig(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, geminiBody("Dear me"))
	}))
	defer srv.Close()

	c, _ := newTestGemini(testAIConfig(srv.URL))
	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "letter"})
	require.NoError(t, err)
	assert.NotContains(t, gotBody, "generationConfig")
}

func TestGeminiClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, sleeps := newTestGemini(testAIConfig(srv.URL))
	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "x"})

	assert.ErrorIs(t, err, ErrEnrichmentUnavailable)
	assert.EqualValues(t, 5, atomic.LoadInt32(&calls))
	assert.EqualValues(t, 4, atomic.LoadInt32(sleeps))
}

func TestGeminiClient_RetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, geminiBody("ok"))
	}))
	defer srv.Close()

	c, _ := newTestGemini(testAIConfig(srv.URL))
	text, err := c.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGeminiClient_ValidationFailureIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			fmt.Fprint(w, geminiBody("not json"))
			return
		}
		fmt.Fprint(w, geminiBody(`{"days":[]}`))
	}))
	defer srv.Close()

	c, _ := newTestGemini(testAIConfig(srv.URL))
	text, err := c.Generate(context.Background(), GenerateRequest{
		Prompt: "x",
		JSON:   true,
		Validate: func(s string) error {
			if !json.Valid([]byte(s)) {
				return errors.New("invalid json")
			}
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"days":[]}`, text)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGeminiClient_MalformedEnvelope(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	cfg.Retry.MaxAttempts = 2
	c, _ := newTestGemini(cfg)
	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEnrichmentUnavailable)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGeminiClient_AttemptTimeout(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	cfg.Retry.MaxAttempts = 2
	cfg.Retry.AttemptTimeout = 50 * time.Millisecond
	c, _ := newTestGemini(cfg)

	start := time.Now()
	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEnrichmentUnavailable)
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGeminiClient_MissingKeyMakesNoCalls(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	cfg.APIKey = ""
	c, _ := newTestGemini(cfg)
	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEnrichmentUnavailable)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestGeminiClient_CancelledContextStops(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewGeminiClient(testAIConfig(srv.URL), nil)
	c.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := c.Generate(ctx, GenerateRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEnrichmentUnavailable)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```json{\"a\":1}```  ", `{"a":1}`},
		{"plain letter", "plain letter"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFence(tt.in), tt.in)
	}
}
