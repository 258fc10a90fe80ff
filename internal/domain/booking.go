package domain

import "time"

const (
	BookingConfirmed  = "confirmed"
	BookingCheckedOut = "checked_out"
	BookingCancelled  = "cancelled"
)

type Booking struct {
	ID           int64
	Code         string // confirmation code handed to the guest
	RoomID       int64
	RoomType     string
	Price        float64
	GuestSession string
	Status       string
	CreatedAt    *time.Time
}

// PendingBooking is the single hold a conversation may carry between the
// offer turn and the yes/no turn.
type PendingBooking struct {
	RoomID   int64   `json:"room_id"`
	RoomType string  `json:"room_type"`
	Price    float64 `json:"price"`
}
