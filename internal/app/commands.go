package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/adapters/events"
	"frontdesk/internal/domain"
)

// BookingService is the write side: holds, confirmations, and check-outs.
type BookingService struct {
	repo    domain.RoomRepository
	queries *QueryService
	events  domain.EventPublisher
}

func NewBookingService(r domain.RoomRepository, q *QueryService, ev domain.EventPublisher) *BookingService {
	if ev == nil {
		ev = events.Nop{}
	}
	return &BookingService{repo: r, queries: q, events: ev}
}

// Hold proposes the cheapest available room of the requested type. The hold
// itself lives in the conversation session; nothing is written yet.
func (s *BookingService) Hold(ctx context.Context, roomType string) (domain.RoomOffer, error) {
	offers, err := s.queries.OffersByType(ctx, roomType)
	if err != nil {
		return domain.RoomOffer{}, err
	}
	if len(offers) == 0 {
		return domain.RoomOffer{}, fmt.Errorf("%w: %s", domain.ErrNoVacancy, roomType)
	}
	return offers[0], nil
}

// Confirm books the held room. ErrRoomConflict means another conversation
// won the room between the offer and the confirmation; callers should
// re-offer rather than fail the guest.
func (s *BookingService) Confirm(ctx context.Context, pending domain.PendingBooking, sessionID string) (domain.Booking, error) {
	if err := s.repo.BookRoom(ctx, pending.RoomID); err != nil {
		if errors.Is(err, domain.ErrRoomConflict) {
			// the cached offer list is what handed out the taken room
			s.queries.InvalidateAvailability(ctx)
		}
		return domain.Booking{}, err
	}

	b := domain.Booking{
		Code:         uuid.NewString(),
		RoomID:       pending.RoomID,
		RoomType:     pending.RoomType,
		Price:        pending.Price,
		GuestSession: sessionID,
		Status:       domain.BookingConfirmed,
	}
	if err := s.repo.InsertBooking(ctx, b); err != nil {
		// release the room so inventory is not silently lost
		_ = s.repo.ReleaseRoom(ctx, pending.RoomID)
		return domain.Booking{}, fmt.Errorf("insert booking for room %d: %w", pending.RoomID, err)
	}

	s.queries.InvalidateAvailability(ctx)
	s.publish(ctx, events.EventBookingConfirmed, b)
	return b, nil
}

// CheckOut completes a booking by confirmation code and returns the room to
// inventory. Checking out twice is a no-op.
func (s *BookingService) CheckOut(ctx context.Context, code string) (domain.Booking, error) {
	b, err := s.repo.GetBookingByCode(ctx, code)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status == domain.BookingCheckedOut {
		return b, nil
	}
	if err := s.repo.SetBookingStatus(ctx, code, domain.BookingCheckedOut); err != nil {
		return domain.Booking{}, err
	}
	if err := s.repo.ReleaseRoom(ctx, b.RoomID); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingCheckedOut

	s.queries.InvalidateAvailability(ctx)
	s.publish(ctx, events.EventBookingCheckedOut, b)
	return b, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, b domain.Booking) {
	err := s.events.Publish(ctx, eventType, map[string]any{
		"code":      b.Code,
		"room_id":   b.RoomID,
		"room_type": b.RoomType,
		"price":     b.Price,
		"status":    b.Status,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("type", eventType).Str("code", b.Code).Msg("event publish failed")
	}
}
