package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// Dashboard fetches the dashboard dataset for a period.
func (c *Client) Dashboard(ctx context.Context, period string) (json.RawMessage, error) {
	return c.rawGet(ctx, "/analytics/complete?period="+url.QueryEscape(period))
}

// Comprehensive fetches the detailed analytics dataset for a period.
func (c *Client) Comprehensive(ctx context.Context, period string) (json.RawMessage, error) {
	return c.rawGet(ctx, "/analytics/comprehensive?period="+url.QueryEscape(period))
}

// LowStock fetches products at or below the given stock threshold.
func (c *Client) LowStock(ctx context.Context, threshold int) (json.RawMessage, error) {
	return c.rawGet(ctx, "/analytics/low-stock?threshold="+strconv.Itoa(threshold))
}

func (c *Client) rawGet(ctx context.Context, path string) (json.RawMessage, error) {
	var data json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}
