package github

import (
	"context"
	"fmt"

	"github.com/reviewlane/reviewlane/pkg/models"
)

// PostComment attaches a general comment to a PR.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)
	payload := map[string]string{"body": body}
	if err := c.postJSON(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("post comment: %w", err)
	}
	return nil
}

// PostReviewComment attaches a single inline comment anchored to a file and
// line at a specific commit.
func (c *Client) PostReviewComment(ctx context.Context, owner, repo string, number int, commitID string, comment models.InlineComment) error {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/comments", owner, repo, number)
	payload := map[string]any{
		"body":      comment.Body,
		"commit_id": commitID,
		"path":      comment.Path,
		"line":      comment.Line,
		"side":      "RIGHT",
	}
	if err := c.postJSON(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("post review comment: %w", err)
	}
	return nil
}

// SubmitReview attaches a full review with zero or more inline comments.
func (c *Client) SubmitReview(ctx context.Context, owner, repo string, number int, review models.ReviewSubmission) error {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", owner, repo, number)

	comments := make([]map[string]any, 0, len(review.Comments))
	for _, rc := range review.Comments {
		comments = append(comments, map[string]any{
			"path": rc.Path,
			"line": rc.Line,
			"body": rc.Body,
			"side": "RIGHT",
		})
	}

	payload := map[string]any{
		"event": string(review.Event),
		"body":  review.Body,
	}
	if review.CommitID != "" {
		payload["commit_id"] = review.CommitID
	}
	if len(comments) > 0 {
		payload["comments"] = comments
	}

	if err := c.postJSON(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("submit review: %w", err)
	}
	return nil
}
