package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// TextGenerator is the generative-text backend as the reply pipeline consumes it
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeminiConfig holds Gemini client settings
type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration // per attempt
	Temperature float32
	Retry       RetryPolicy
}

// GeminiClient interacts with Google Gemini API using the official SDK
type GeminiClient struct {
	client      *genai.Client
	modelName   string
	timeout     time.Duration
	temperature float32
	retry       RetryPolicy
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy
	}

	return &GeminiClient{
		client:      client,
		modelName:   cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		retry:       cfg.Retry,
	}, nil
}

// Close closes the client connection
func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Complete sends a system instruction plus user prompt and returns the response text.
// Failures come back as *BackendError.
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return withRetry(ctx, c.retry, "gemini", func(ctx context.Context) (string, error) {
		return c.generate(ctx, systemPrompt, userPrompt)
	})
}

func (c *GeminiClient) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// A model handle per call keeps the system instruction request-local
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temperature)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", &BackendError{Op: "gemini", Retryable: false, Err: err}
		}
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &BackendError{Op: "gemini", Retryable: false, Err: errors.New("empty response from gemini")}
	}
	return text, nil
}

// extractText concatenates the text parts of the first candidate
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
