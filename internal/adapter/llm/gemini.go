package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// Generation parameters for the auxiliary calls; the main generation call
// uses the configured temperature and token budget.
const (
	classifyTemperature = 0.3
	classifyMaxTokens   = 10
	summaryTemperature  = 0.3
	summaryMaxTokens    = 250
)

// Options configures the Gemini client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// GeminiClient calls the Generative Language REST API.
type GeminiClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(opts Options) *GeminiClient {
	return &GeminiClient{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Ensure GeminiClient implements the Client interface.
var _ Client = (*GeminiClient)(nil)

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError represents the error details.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// Generate produces a companion reply; the emotional tone comes from a
// second low-temperature classification call over the generated text.
func (c *GeminiClient) Generate(ctx context.Context, message, conversationContext, memorySummary string) (*Reply, error) {
	text, err := c.generateContent(ctx, buildPrompt(message, conversationContext, memorySummary), c.temperature, c.maxTokens)
	if err != nil {
		return nil, err
	}

	emotion, err := c.Classify(ctx, text)
	if err != nil {
		emotion = domain.EmotionNeutral
	}

	return &Reply{Content: text, Emotion: emotion}, nil
}

// Classify labels the emotional tone of text.
func (c *GeminiClient) Classify(ctx context.Context, text string) (string, error) {
	out, err := c.generateContent(ctx, classifyPrompt(text), classifyTemperature, classifyMaxTokens)
	if err != nil {
		return "", err
	}

	emotion := strings.ToLower(strings.TrimSpace(out))
	if !domain.KnownEmotion(emotion) {
		return domain.EmotionNeutral, nil
	}
	return emotion, nil
}

// Summarize condenses the most recent conversation lines.
func (c *GeminiClient) Summarize(ctx context.Context, lines []string) (string, error) {
	if len(lines) == 0 {
		return "", nil
	}
	return c.generateContent(ctx, summaryPrompt(summaryConversation(lines)), summaryTemperature, summaryMaxTokens)
}

func (c *GeminiClient) generateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return "", fmt.Errorf("gemini API error [%d]: %s (status: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Status)
		}
		return "", fmt.Errorf("gemini API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result generateContentResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response generated")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
