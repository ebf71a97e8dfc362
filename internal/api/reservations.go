package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/harborview/opsync/internal/model"
)

// GetReservations fetches a page of reservations.
func (c *Client) GetReservations(ctx context.Context, opts GetReservationsOptions) (*ReservationsResponse, error) {
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

	var resp ReservationsResponse
	if err := c.get(ctx, "/reservations", query, &resp); err != nil {
		return nil, fmt.Errorf("get reservations: %w", err)
	}

	return &resp, nil
}

// GetAllReservations fetches all reservations matching the given options.
func (c *Client) GetAllReservations(ctx context.Context, opts GetReservationsOptions) ([]model.Reservation, error) {
	var all []model.Reservation
	opts.Limit = 500 // Max page size

	for {
		resp, err := c.GetReservations(ctx, opts)
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Reservations...)

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor
	}

	return all, nil
}
