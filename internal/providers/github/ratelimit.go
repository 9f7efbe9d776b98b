package github

import (
	"context"
	"time"

	"github.com/reviewlane/reviewlane/pkg/models"
)

type rateLimitWire struct {
	Rate struct {
		Limit     int   `json:"limit"`
		Remaining int   `json:"remaining"`
		Reset     int64 `json:"reset"`
		Used      int   `json:"used"`
	} `json:"rate"`
}

// GetRateLimit fetches a point-in-time quota snapshot. The endpoint itself
// does not count against the quota.
func (c *Client) GetRateLimit(ctx context.Context) (models.RateLimitInfo, error) {
	var wire rateLimitWire
	if err := c.getJSON(ctx, "/rate_limit", nil, &wire); err != nil {
		return models.RateLimitInfo{}, err
	}
	return models.RateLimitInfo{
		Limit:     wire.Rate.Limit,
		Remaining: wire.Rate.Remaining,
		ResetTime: time.Unix(wire.Rate.Reset, 0),
		Used:      wire.Rate.Used,
	}, nil
}
