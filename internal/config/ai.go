package config

import "time"

// RetryPolicy bounds calls to the text-generation service
type RetryPolicy struct {
	MaxAttempts    int           `json:"maxAttempts"`
	Backoff        time.Duration `json:"backoff"`        // fixed wait between attempts
	AttemptTimeout time.Duration `json:"attemptTimeout"` // per attempt, not per call
}

// DefaultRetryPolicy returns 5 attempts, 1s apart, 20s each
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    5,
		Backoff:        time.Second,
		AttemptTimeout: 20 * time.Second,
	}
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey  string      `json:"-"` // Never serialize
	BaseURL string      `json:"baseUrl"`
	Model   string      `json:"model"`
	Retry   RetryPolicy `json:"retry"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	retry := DefaultRetryPolicy()
	return &AIConfig{
		APIKey:  getEnv("GEMINI_API_KEY", ""),
		BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025"),
		Retry: RetryPolicy{
			MaxAttempts:    getEnvInt("GEMINI_MAX_ATTEMPTS", retry.MaxAttempts),
			Backoff:        getEnvDuration("GEMINI_BACKOFF", retry.Backoff),
			AttemptTimeout: getEnvDuration("GEMINI_ATTEMPT_TIMEOUT", retry.AttemptTimeout),
		},
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c != nil && c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
