package api

import "github.com/harborview/opsync/internal/model"

// RoomsResponse from GET /rooms
type RoomsResponse struct {
	Rooms  []model.Room `json:"rooms"`
	Cursor string       `json:"cursor"`
}

// SingleRoomResponse from GET /rooms/{number}
type SingleRoomResponse struct {
	Room model.Room `json:"room"`
}

// ReservationsResponse from GET /reservations
type ReservationsResponse struct {
	Reservations []model.Reservation `json:"reservations"`
	Cursor       string              `json:"cursor"`
}

// ServiceRequestsResponse from GET /service-requests
type ServiceRequestsResponse struct {
	ServiceRequests []model.ServiceRequest `json:"service_requests"`
	Cursor          string                 `json:"cursor"`
}

// GetRoomsOptions configures a GetRooms request.
type GetRoomsOptions struct {
	Limit  int
	Cursor string
	Floor  int
	Status string
}

// GetReservationsOptions configures a GetReservations request.
type GetReservationsOptions struct {
	Limit      int
	Cursor     string
	RoomNumber string
	Status     string
}

// GetServiceRequestsOptions configures a GetServiceRequests request.
type GetServiceRequestsOptions struct {
	Limit      int
	Cursor     string
	RoomNumber string
	Status     string
}
