package domain

import "time"

// Availability states as stored in the rooms table. The inventory model is
// boolean: a room is either open for sale or taken.
const (
	RoomAvailable = "Available"
	RoomBooked    = "Booked"
)

type Room struct {
	ID           int64
	Type         string // Single | Double | Suite (catalog-driven)
	Price        float64
	Availability string
	UpdatedAt    *time.Time
}

// AvailabilityRow is one line of the grouped availability summary.
type AvailabilityRow struct {
	Type  string
	Price float64
	Count int
}

// RoomOffer is a concrete bookable room proposed to a guest.
type RoomOffer struct {
	ID    int64
	Type  string
	Price float64
}

// RoomDetail joins the availability summary with the room-type catalog.
type RoomDetail struct {
	Type         string
	Price        float64
	Count        int
	Features     string
	MaxOccupancy int
}
