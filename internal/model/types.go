package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Entity Kinds
// -----------------------------------------------------------------------------

// EntityKind identifies which operational collection an entity belongs to.
type EntityKind string

const (
	KindRoom           EntityKind = "room"
	KindReservation    EntityKind = "reservation"
	KindServiceRequest EntityKind = "service_request"
)

// -----------------------------------------------------------------------------
// Rooms
// -----------------------------------------------------------------------------

// RoomStatus is the housekeeping/occupancy state of a room.
type RoomStatus string

const (
	RoomAvailable    RoomStatus = "available"
	RoomOccupied     RoomStatus = "occupied"
	RoomCleaning     RoomStatus = "cleaning"
	RoomMaintenance  RoomStatus = "maintenance"
	RoomOutOfService RoomStatus = "out_of_service"
)

// Room represents a single guest room.
type Room struct {
	Number    string     `json:"number"` // Primary key (e.g., "101")
	Floor     int        `json:"floor"`
	Type      string     `json:"type"` // "standard", "suite", "accessible"
	Status    RoomStatus `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// Reservations
// -----------------------------------------------------------------------------

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// Reservation represents a guest booking.
type Reservation struct {
	ID         uuid.UUID         `json:"id"`
	RoomNumber string            `json:"room_number"`
	GuestName  string            `json:"guest_name"`
	Status     ReservationStatus `json:"status"`
	CheckIn    time.Time         `json:"check_in"`
	CheckOut   time.Time         `json:"check_out"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// Service Requests
// -----------------------------------------------------------------------------

// ServiceRequestStatus is the lifecycle state of a service request.
type ServiceRequestStatus string

const (
	ServiceOpen       ServiceRequestStatus = "open"
	ServiceInProgress ServiceRequestStatus = "in_progress"
	ServiceDone       ServiceRequestStatus = "done"
	ServiceCancelled  ServiceRequestStatus = "cancelled"
)

// ServiceRequest represents a housekeeping or maintenance task for a room.
type ServiceRequest struct {
	ID         uuid.UUID            `json:"id"`
	RoomNumber string               `json:"room_number"`
	Kind       string               `json:"kind"` // "housekeeping", "maintenance", "amenity"
	Detail     string               `json:"detail,omitempty"`
	Status     ServiceRequestStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// OperationKind classifies a domain mutation.
type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpUpdate OperationKind = "update"
	OpCancel OperationKind = "cancel"
)

// ValidOperationKind reports whether k is a known mutation kind.
func ValidOperationKind(k OperationKind) bool {
	switch k {
	case OpCreate, OpUpdate, OpCancel:
		return true
	}
	return false
}
