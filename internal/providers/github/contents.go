package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reviewlane/reviewlane/pkg/models"
)

const (
	contentBatchSize = 10
	// Short pause between batches so a large PR does not burst the API.
	interBatchPause = 500 * time.Millisecond
)

type contentWire struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFileContent fetches one file's content at a ref, decoded from the
// platform's base64 transport encoding. A path resolving to a directory (or
// anything other than a single file) fails with ErrNotAFile.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (*models.FileContent, error) {
	apiPath := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
	query := url.Values{}
	if ref != "" {
		query.Set("ref", ref)
	}

	// The contents endpoint returns an array for directories, so decode
	// into raw JSON first and sniff the shape.
	var raw json.RawMessage
	if err := c.getJSON(ctx, apiPath, query, &raw); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	var wire contentWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: decode content for %s: %v", ErrMalformedResponse, path, err)
	}
	if wire.Type != "file" {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotAFile, path, wire.Type)
	}

	content := wire.Content
	if wire.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(wire.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("%w: base64 decode %s: %v", ErrMalformedResponse, path, err)
		}
		content = string(decoded)
	}

	return &models.FileContent{
		Path:    wire.Path,
		Ref:     ref,
		SHA:     wire.SHA,
		Size:    wire.Size,
		Content: content,
	}, nil
}

// GetFileContents fetches many files best-effort: fixed-size concurrent
// batches with a short pause in between, individual failures logged and
// swallowed. A partial result set is an expected outcome; callers must
// treat a missing entry as "content unavailable". Cancelling the context
// stops further batches from being issued while in-flight requests finish.
func (c *Client) GetFileContents(ctx context.Context, owner, repo string, refs []models.ContentRef) []models.FileContent {
	c.warnLowQuota(ctx)

	var (
		mu      sync.Mutex
		results []models.FileContent
	)

	for start := 0; start < len(refs); start += contentBatchSize {
		if ctx.Err() != nil {
			c.log.Warn().Err(ctx.Err()).Msg("content fetch cancelled, skipping remaining batches")
			break
		}

		end := start + contentBatchSize
		if end > len(refs) {
			end = len(refs)
		}

		// Await the whole batch, collect successes, log failures. One
		// file's failure must not cancel or block the others.
		g := new(errgroup.Group)
		for _, ref := range refs[start:end] {
			ref := ref
			g.Go(func() error {
				content, err := c.GetFileContent(ctx, owner, repo, ref.Path, ref.Ref)
				if err != nil {
					c.log.Warn().
						Err(err).
						Str("path", ref.Path).
						Str("ref", ref.Ref).
						Msg("file content fetch failed, continuing without it")
					return nil
				}
				mu.Lock()
				results = append(results, *content)
				mu.Unlock()
				return nil
			})
		}
		g.Wait()

		if end < len(refs) {
			if err := sleepCtx(ctx, interBatchPause); err != nil {
				break
			}
		}
	}

	return results
}
