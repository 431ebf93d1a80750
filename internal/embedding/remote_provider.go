package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/askdb/askdb/internal/config"
	apperrors "github.com/askdb/askdb/internal/errors"
)

// RemoteProvider generates embeddings via an OpenAI-compatible /embeddings
// endpoint. Determinism relies on the hosted model being pinned to a fixed
// version, which is part of the cache key.
type RemoteProvider struct {
	model      string
	dimensions int
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRemoteProvider creates a remote API embedder
func NewRemoteProvider(cfg config.EmbeddingConfig) (*RemoteProvider, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.New(
			apperrors.ErrTypeConfig,
			"API key is required for remote embedding provider",
		)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	return &RemoteProvider{
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type embeddingsRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateEmbedding requests an embedding from the remote API
func (p *RemoteProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxTextLen {
		return nil, apperrors.Newf(
			apperrors.ErrTypeEmbedding,
			"text exceeds embedding input limit: %d > %d",
			len(text), maxTextLen,
		)
	}

	jsonBody, err := json.Marshal(embeddingsRequest{
		Model: p.model,
		Input: text,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeEmbedding, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/v1/embeddings",
		bytes.NewBuffer(jsonBody),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeEmbedding, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeEmbedding, "embedding request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeEmbedding, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Newf(
			apperrors.ErrTypeEmbedding,
			"embedding API returned status %d: %s",
			resp.StatusCode, string(body),
		)
	}

	var response embeddingsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeEmbedding, "failed to parse response")
	}

	if response.Error != nil {
		return nil, apperrors.Newf(
			apperrors.ErrTypeEmbedding,
			"embedding API error: %s",
			response.Error.Message,
		)
	}

	if len(response.Data) == 0 {
		return nil, apperrors.New(apperrors.ErrTypeEmbedding, "embedding API returned no data")
	}

	raw := response.Data[0].Embedding
	if p.dimensions > 0 && len(raw) != p.dimensions {
		return nil, apperrors.Newf(
			apperrors.ErrTypeEmbedding,
			"dimension mismatch: expected %d, got %d",
			p.dimensions, len(raw),
		)
	}

	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}

	return vector, nil
}

// GetDimensions returns the embedding dimensions
func (p *RemoteProvider) GetDimensions() int {
	return p.dimensions
}

// GetName returns the provider name for identification
func (p *RemoteProvider) GetName() string {
	return fmt.Sprintf("remote:%s", p.model)
}
