package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/harborview/opsync/internal/model"
)

// GetRooms fetches a page of rooms.
func (c *Client) GetRooms(ctx context.Context, opts GetRoomsOptions) (*RoomsResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.Floor > 0 {
		query.Set("floor", strconv.Itoa(opts.Floor))
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var resp RoomsResponse
	if err := c.get(ctx, "/rooms", query, &resp); err != nil {
		return nil, fmt.Errorf("get rooms: %w", err)
	}

	return &resp, nil
}

// GetAllRooms fetches all rooms by paginating through results.
func (c *Client) GetAllRooms(ctx context.Context) ([]model.Room, error) {
	return c.GetAllRoomsWithOptions(ctx, GetRoomsOptions{})
}

// GetAllRoomsWithOptions fetches all rooms matching the given options.
func (c *Client) GetAllRoomsWithOptions(ctx context.Context, opts GetRoomsOptions) ([]model.Room, error) {
	var allRooms []model.Room
	opts.Limit = 500 // Max page size

	for {
		resp, err := c.GetRooms(ctx, opts)
		if err != nil {
			return nil, err
		}

		allRooms = append(allRooms, resp.Rooms...)

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor
	}

	return allRooms, nil
}

// GetRoom fetches a single room by number.
func (c *Client) GetRoom(ctx context.Context, number string) (*model.Room, error) {
	var resp SingleRoomResponse
	if err := c.get(ctx, "/rooms/"+number, nil, &resp); err != nil {
		return nil, fmt.Errorf("get room %s: %w", number, err)
	}
	return &resp.Room, nil
}
