package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

type productsResponse struct {
	Products []models.Product `json:"products"`
}

// ListProducts fetches the full product catalogue.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var resp productsResponse
	if err := c.do(ctx, http.MethodGet, "/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CreateProduct creates a product and returns the canonical record, id
// included.
func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/products/create", p, &created); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

// UpdateProduct replaces the product with the given id.
func (c *Client) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), p, &updated); err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes the product with the given id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}
