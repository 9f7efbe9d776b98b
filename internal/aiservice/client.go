package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/reviewlane/reviewlane/internal/logging"
	"github.com/reviewlane/reviewlane/internal/retry"
	"github.com/reviewlane/reviewlane/pkg/models"
)

// Client talks to the external AI review service over its HTTP contract:
// ingest, query, and delete-by-repo. The service is a black box here; this
// client does no interpretation of review results.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retry   retry.Config
	log     zerolog.Logger
}

// NewClient creates a client for the AI service at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
		retry:   retry.DefaultConfig(),
		log:     logging.Component("aiservice"),
	}
}

// IngestResponse acknowledges an ingested payload.
type IngestResponse struct {
	ReviewID string `json:"review_id"`
	Status   string `json:"status"`
}

// QueryRequest asks the service a question about previously ingested code.
type QueryRequest struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Question string `json:"question"`
}

// QueryResponse carries the service's answer verbatim.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// Ingest submits a review payload for processing.
func (c *Client) Ingest(ctx context.Context, payload *models.ReviewPayload) (*IngestResponse, error) {
	var out IngestResponse
	if err := c.call(ctx, http.MethodPost, "/v1/ingest", payload, &out); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	c.log.Info().Str("review_id", out.ReviewID).Msg("payload ingested")
	return &out, nil
}

// Query asks the service about an ingested repository.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var out QueryResponse
	if err := c.call(ctx, http.MethodPost, "/v1/query", req, &out); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &out, nil
}

// DeleteRepo removes all ingested data for a repository.
func (c *Client) DeleteRepo(ctx context.Context, owner, repo string) error {
	path := fmt.Sprintf("/v1/repos/%s/%s", owner, repo)
	if err := c.call(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete repo: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
	}

	return retry.Do(ctx, c.retry, c.log, retry.IsTransient, func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("AI service returned status %d for %s", resp.StatusCode, path)
		}

		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}
