package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/harborview/opsync/internal/model"
)

// GetServiceRequests fetches a page of service requests.
func (c *Client) GetServiceRequests(ctx context.Context, opts GetServiceRequestsOptions) (*ServiceRequestsResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.RoomNumber != "" {
		query.Set("room_number", opts.RoomNumber)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var resp ServiceRequestsResponse
	if err := c.get(ctx, "/service-requests", query, &resp); err != nil {
		return nil, fmt.Errorf("get service requests: %w", err)
	}

	return &resp, nil
}

// GetAllServiceRequests fetches all service requests matching the given options.
func (c *Client) GetAllServiceRequests(ctx context.Context, opts GetServiceRequestsOptions) ([]model.ServiceRequest, error) {
	var all []model.ServiceRequest
	opts.Limit = 500 // Max page size

	for {
		resp, err := c.GetServiceRequests(ctx, opts)
		if err != nil {
			return nil, err
		}

		all = append(all, resp.ServiceRequests...)

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor
	}

	return all, nil
}
