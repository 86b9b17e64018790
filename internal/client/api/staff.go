package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

type staffResponse struct {
	Staff []models.StaffMember `json:"staff"`
}

// ListStaff fetches all operator accounts.
func (c *Client) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	var resp staffResponse
	if err := c.do(ctx, http.MethodGet, "/staff", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Staff, nil
}

// CreateStaff creates an operator account and returns the canonical record.
func (c *Client) CreateStaff(ctx context.Context, m models.StaffMember) (models.StaffMember, error) {
	var created models.StaffMember
	if err := c.do(ctx, http.MethodPost, "/staff/create", m, &created); err != nil {
		return models.StaffMember{}, err
	}
	return created, nil
}

// UpdateStaff replaces the staff member with the given id.
func (c *Client) UpdateStaff(ctx context.Context, id string, m models.StaffMember) (models.StaffMember, error) {
	var updated models.StaffMember
	if err := c.do(ctx, http.MethodPut, "/staff/"+url.PathEscape(id), m, &updated); err != nil {
		return models.StaffMember{}, err
	}
	return updated, nil
}

// DeleteStaff removes the staff member with the given id.
func (c *Client) DeleteStaff(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/staff/"+url.PathEscape(id), nil, nil)
}

// ToggleStaffStatus flips a member's active flag. Online-only: there is no
// local fallback for this endpoint.
func (c *Client) ToggleStaffStatus(ctx context.Context, id string) (models.StaffMember, error) {
	var updated models.StaffMember
	if err := c.do(ctx, http.MethodPatch, "/staff/"+url.PathEscape(id)+"/toggle", nil, &updated); err != nil {
		return models.StaffMember{}, err
	}
	return updated, nil
}
