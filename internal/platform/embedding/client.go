package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/inkwell-cms/inkwell-api/internal/config"
	"github.com/inkwell-cms/inkwell-api/internal/domain"
)

// Generator is the interface collaborators depend on, so tests can swap in
// a stub that returns canned vectors.
type Generator interface {
	// Embed returns the embedding vector for the given text.
	// The returned slice always has exactly domain.EmbeddingDimensions
	// elements.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HTTPError represents a non-2xx response from the embedding provider.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("embedding request failed with status %d %s: %s",
		e.StatusCode, e.Status, e.Body)
}

// retryableStatusCodes are provider responses worth retrying with backoff.
var retryableStatusCodes = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client calls an external HTTP embedding API that returns fixed-length
// vectors. Transient failures are retried with exponential backoff.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
}

// Ensure Client implements the Generator interface
var _ Generator = (*Client)(nil)

// NewClient creates a Client from the embedding configuration.
func NewClient(cfg config.EmbeddingConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

// embedRequest is the JSON body sent to the provider.
type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// embedResponse is the JSON body returned by the provider.
type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed implements the Generator interface.
// It posts the text to the provider, retrying transient failures, and
// rejects any response whose vector is not exactly 1536-dimensional —
// a short vector would otherwise surface later as an opaque database error.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = 30 * time.Second

	vector, err := backoff.RetryWithData(
		func() ([]float32, error) {
			return c.doRequest(ctx, body)
		},
		backoff.WithContext(policy, ctx),
	)
	if err != nil {
		return nil, err
	}

	if len(vector) != domain.EmbeddingDimensions {
		return nil, fmt.Errorf("embedding provider returned %d dimensions, expected %d",
			len(vector), domain.EmbeddingDimensions)
	}

	return vector, nil
}

// doRequest performs one request attempt. Non-retryable failures are
// wrapped in backoff.Permanent so the retry loop stops immediately.
func (c *Client) doRequest(ctx context.Context, body []byte) ([]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build embedding request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors are worth retrying.
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
		}
		if retryableStatusCodes[resp.StatusCode] {
			return nil, httpErr
		}
		return nil, backoff.Permanent(httpErr)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode embedding response: %w", err))
	}

	if len(parsed.Data) == 0 {
		return nil, backoff.Permanent(fmt.Errorf("embedding response contained no data"))
	}

	return parsed.Data[0].Embedding, nil
}
