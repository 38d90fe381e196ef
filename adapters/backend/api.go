package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

var _ ports.BloodLinkAPI = (*Client)(nil)

type createRequestBody struct {
	BloodGroup    string           `json:"blood_group"`
	UnitsRequired int              `json:"units_required"`
	RequestType   core.RequestType `json:"request_type"`
	ScheduledDate string           `json:"scheduled_date,omitempty"`
	Latitude      json.Number      `json:"latitude"`
	Longitude     json.Number      `json:"longitude"`
}

func (c *Client) PatientRequests(ctx context.Context, token string) ([]core.PatientRequest, error) {
	var out []core.PatientRequest
	if err := c.do(ctx, http.MethodGet, "/patient/requests", token, nil, &out); err != nil {
		return nil, fmt.Errorf("listing patient requests: %w", err)
	}
	return out, nil
}

// CreateRequest files a blood request. Coordinates are sent as JSON numbers.
func (c *Client) CreateRequest(ctx context.Context, token string, req core.NewBloodRequest) error {
	body := createRequestBody{
		BloodGroup:    req.BloodGroup,
		UnitsRequired: req.UnitsRequired,
		RequestType:   req.RequestType,
		ScheduledDate: req.ScheduledDate,
		Latitude:      json.Number(req.Latitude.String()),
		Longitude:     json.Number(req.Longitude.String()),
	}
	if err := c.do(ctx, http.MethodPost, "/requests/create", token, body, nil); err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return nil
}

func (c *Client) HospitalRequests(ctx context.Context, token string) ([]core.HospitalRequest, error) {
	var out []core.HospitalRequest
	if err := c.do(ctx, http.MethodGet, "/hospital/requests", token, nil, &out); err != nil {
		return nil, fmt.Errorf("listing hospital requests: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateRequestStatus(ctx context.Context, token string, requestID int64, status core.RequestStatus) error {
	path := fmt.Sprintf("/hospital/requests/%d?status=%s", requestID, url.QueryEscape(string(status)))
	if err := c.do(ctx, http.MethodPut, path, token, nil, nil); err != nil {
		return fmt.Errorf("updating request %d: %w", requestID, err)
	}
	return nil
}

func (c *Client) Inventory(ctx context.Context, token string) ([]core.InventoryItem, error) {
	var out []core.InventoryItem
	if err := c.do(ctx, http.MethodGet, "/bloodbank/inventory", token, nil, &out); err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return out, nil
}

func (c *Client) UpsertInventory(ctx context.Context, token string, item core.InventoryUpdate) error {
	if err := c.do(ctx, http.MethodPost, "/bloodbank/inventory", token, item, nil); err != nil {
		return fmt.Errorf("updating inventory: %w", err)
	}
	return nil
}

func (c *Client) DeleteInventory(ctx context.Context, token string, itemID int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/bloodbank/inventory/%d", itemID), token, nil, nil); err != nil {
		return fmt.Errorf("deleting inventory item %d: %w", itemID, err)
	}
	return nil
}

func (c *Client) AdminStats(ctx context.Context, token string) (core.AdminStats, error) {
	var out core.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", token, nil, &out); err != nil {
		return core.AdminStats{}, fmt.Errorf("fetching admin stats: %w", err)
	}
	return out, nil
}
