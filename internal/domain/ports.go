package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrNoVacancy       = errors.New("no vacancy")
	ErrRoomConflict    = errors.New("room already booked")
	ErrUnknownRoomType = errors.New("unknown room type")
)

type RoomRepository interface {
	// Write paths
	UpsertRoom(ctx context.Context, r Room) error
	BookRoom(ctx context.Context, id int64) error    // ErrRoomConflict when the room was not Available
	ReleaseRoom(ctx context.Context, id int64) error // back to Available
	InsertBooking(ctx context.Context, b Booking) error
	SetBookingStatus(ctx context.Context, code, status string) error

	// Read paths
	AvailabilitySummary(ctx context.Context) ([]AvailabilityRow, error)
	AvailableByType(ctx context.Context, roomType string) ([]RoomOffer, error)
	PriceRange(ctx context.Context, min, max float64) ([]AvailabilityRow, error)
	CheapestAvailable(ctx context.Context) (RoomOffer, error) // ErrNoVacancy when sold out
	GetBookingByCode(ctx context.Context, code string) (Booking, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type SessionStore interface {
	// Load returns an empty session (with ID set) when none is stored.
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
}

// LLM turns a structured answer into receptionist language. Engines must be
// safe for concurrent use.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// EventPublisher announces booking lifecycle changes. Implementations must
// never block a booking on delivery problems.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]any) error
}
