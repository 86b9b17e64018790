package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

type salesResponse struct {
	Sales []models.Sale `json:"sales"`
}

// ListSales fetches the sale history.
func (c *Client) ListSales(ctx context.Context) ([]models.Sale, error) {
	var resp salesResponse
	if err := c.do(ctx, http.MethodGet, "/sales", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sales, nil
}

// CreateSale records a completed sale and returns the canonical record.
func (c *Client) CreateSale(ctx context.Context, s models.Sale) (models.Sale, error) {
	var created models.Sale
	if err := c.do(ctx, http.MethodPost, "/sales/create", s, &created); err != nil {
		return models.Sale{}, err
	}
	return created, nil
}

// UpdateSale replaces the sale with the given id. Rare in practice (refund
// adjustments); present so sales can ride the same sync policy as products.
func (c *Client) UpdateSale(ctx context.Context, id string, s models.Sale) (models.Sale, error) {
	var updated models.Sale
	if err := c.do(ctx, http.MethodPut, "/sales/"+url.PathEscape(id), s, &updated); err != nil {
		return models.Sale{}, err
	}
	return updated, nil
}

// DeleteSale voids the sale with the given id.
func (c *Client) DeleteSale(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sales/"+url.PathEscape(id), nil, nil)
}

// SalesSummary fetches the aggregated figures for a period ("today", "7d",
// ...). The payload is kept opaque: it flows into the analytics cache and
// back out to the presentation layer untouched.
func (c *Client) SalesSummary(ctx context.Context, period string) (json.RawMessage, error) {
	var data json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/sales/summary?period="+url.QueryEscape(period), nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}
