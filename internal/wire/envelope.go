package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Errors
var (
	ErrMalformed = errors.New("malformed envelope")
)

// EventAck identifies the server acknowledgment of a mutation. Keepalive is
// handled with websocket ping/pong control frames at the transport level, so
// no heartbeat event exists on the wire.
const EventAck = "ack"

// Ack statuses.
const (
	AckOK       = "ok"
	AckRejected = "rejected"
)

// Envelope is the wire-level message wrapper.
type Envelope struct {
	EventID   string          `json:"eventId"`
	Channel   string          `json:"channel"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ID        string          `json:"id"` // correlation id
	Timestamp time.Time       `json:"timestamp"`
	Retry     int             `json:"retry,omitempty"`
}

// AckPayload is the payload of an EventAck envelope. Value carries the
// server's canonical version of the mutated entity when Status is AckOK.
type AckPayload struct {
	Status string          `json:"status"`
	Value  json.RawMessage `json:"value,omitempty"`
	Reason string          `json:"reason,omitempty"`
}

// New builds an envelope with a fresh correlation id and current timestamp.
// The payload is marshaled to JSON; a nil payload is allowed.
func New(channel, eventID string, payload any) (Envelope, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal payload: %w", err)
		}
		raw = data
	}

	return Envelope{
		EventID:   eventID,
		Channel:   channel,
		Payload:   raw,
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}, nil
}

// Encode serializes the envelope to JSON.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses and validates an inbound envelope. Messages without an event
// id are rejected as malformed; they must be logged and dropped at the
// dispatch boundary, never propagated.
func Decode(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if e.EventID == "" {
		return Envelope{}, fmt.Errorf("%w: missing eventId", ErrMalformed)
	}
	return e, nil
}

// DecodeAck parses the payload of an EventAck envelope.
func DecodeAck(e Envelope) (AckPayload, error) {
	if e.EventID != EventAck {
		return AckPayload{}, fmt.Errorf("%w: not an ack: %q", ErrMalformed, e.EventID)
	}
	if e.ID == "" {
		return AckPayload{}, fmt.Errorf("%w: ack missing correlation id", ErrMalformed)
	}

	var ack AckPayload
	if err := json.Unmarshal(e.Payload, &ack); err != nil {
		return AckPayload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch ack.Status {
	case AckOK, AckRejected:
		return ack, nil
	}
	return AckPayload{}, fmt.Errorf("%w: unknown ack status %q", ErrMalformed, ack.Status)
}
