package generator

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/askdb/askdb/internal/config"
	apperrors "github.com/askdb/askdb/internal/errors"
)

const maxResponseTokens = 1024

// Client implements Service against OpenAI, Anthropic, or Ollama APIs
type Client struct {
	provider   string
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a generation client from configuration
func NewClient(cfg config.GeneratorConfig) (*Client, error) {
	baseURL := cfg.BaseURL

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, apperrors.New(apperrors.ErrTypeConfig,
				"API key is required for OpenAI provider")
		}
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, apperrors.New(apperrors.ErrTypeConfig,
				"API key is required for Anthropic provider")
		}
		if baseURL == "" {
			baseURL = "https://api.anthropic.com/v1"
		}
	case ProviderOllama:
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
	default:
		return nil, apperrors.Newf(apperrors.ErrTypeConfig,
			"unsupported generator provider: %s", cfg.Provider)
	}

	if cfg.Model == "" {
		return nil, apperrors.New(apperrors.ErrTypeConfig, "generator model is required")
	}

	return &Client{
		provider: cfg.Provider,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
	}, nil
}

// Generate produces a completion for the prompt via the configured provider
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var (
		text string
		err  error
	)

	switch c.provider {
	case ProviderOpenAI:
		text, err = c.generateOpenAI(ctx, prompt)
	case ProviderAnthropic:
		text, err = c.generateAnthropic(ctx, prompt)
	case ProviderOllama:
		text, err = c.generateOllama(ctx, prompt)
	default:
		return "", apperrors.Newf(apperrors.ErrTypeConfig,
			"unsupported generator provider: %s", c.provider)
	}

	if err != nil {
		return "", classifyGenerationError(err)
	}

	return text, nil
}

// classifyGenerationError separates timeouts from other generation failures
func classifyGenerationError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return apperrors.Wrap(err, apperrors.ErrTypeTimeout, "generation timed out")
	}

	if apperrors.IsType(err, apperrors.ErrTypeGeneration) {
		return err
	}

	return apperrors.Wrap(err, apperrors.ErrTypeGeneration, "generation failed")
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// OpenAI API structures
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   maxResponseTokens,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	respBody, err := c.post(ctx, "/chat/completions", reqBody, headers)
	if err != nil {
		return "", err
	}

	var response openAIResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrTypeGeneration,
			"failed to parse OpenAI response")
	}

	if response.Error != nil {
		return "", apperrors.Newf(apperrors.ErrTypeGeneration,
			"OpenAI API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrTypeGeneration, "no response from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}

// Anthropic API structures
type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) generateAnthropic(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: maxResponseTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	}

	respBody, err := c.post(ctx, "/messages", reqBody, headers)
	if err != nil {
		return "", err
	}

	var response anthropicResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrTypeGeneration,
			"failed to parse Anthropic response")
	}

	if response.Error != nil {
		return "", apperrors.Newf(apperrors.ErrTypeGeneration,
			"Anthropic API error: %s", response.Error.Message)
	}

	if len(response.Content) == 0 {
		return "", apperrors.New(apperrors.ErrTypeGeneration, "no response from Anthropic")
	}

	return response.Content[0].Text, nil
}

// Ollama API structures
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) generateOllama(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	}

	respBody, err := c.post(ctx, "/api/generate", reqBody, nil)
	if err != nil {
		return "", err
	}

	var response ollamaResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrTypeGeneration,
			"failed to parse Ollama response")
	}

	if response.Error != "" {
		return "", apperrors.Newf(apperrors.ErrTypeGeneration,
			"Ollama error: %s", response.Error)
	}

	return response.Response, nil
}

// post sends a JSON request and returns the raw response body
func (c *Client) post(ctx context.Context, endpoint string, reqBody interface{}, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeGeneration,
			"failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeGeneration,
			"failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeGeneration,
			"failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Newf(apperrors.ErrTypeGeneration,
			"API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
