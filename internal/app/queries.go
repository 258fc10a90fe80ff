package app

import (
	"context"
	"fmt"
	"time"

	"frontdesk/internal/domain"
	"frontdesk/internal/shared"
)

const (
	keySummary  = "availability:summary"
	keyCheapest = "availability:cheapest"
	keyInfo     = "rooms:info"
)

func keyByType(t string) string { return "availability:type:" + t }

// QueryService is the read side: availability and room information with
// cache-aside on top of the repository.
type QueryService struct {
	repo     domain.RoomRepository
	cache    domain.Cache
	cacheTTL time.Duration
	prop     shared.Property
}

func NewQueryService(r domain.RoomRepository, c domain.Cache, ttl time.Duration, prop shared.Property) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, prop: prop}
}

func (s *QueryService) Property() shared.Property { return s.prop }

func (s *QueryService) AvailabilitySummary(ctx context.Context) ([]domain.AvailabilityRow, error) {
	var rows []domain.AvailabilityRow
	if ok, _ := s.cache.Get(ctx, keySummary, &rows); ok {
		return rows, nil
	}
	rows, err := s.repo.AvailabilitySummary(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, keySummary, rows, int(s.cacheTTL.Seconds()))
	return rows, nil
}

// OffersByType resolves the guest-typed room type against the catalog before
// hitting the store.
func (s *QueryService) OffersByType(ctx context.Context, roomType string) ([]domain.RoomOffer, error) {
	canonical, ok := s.prop.CanonicalType(roomType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRoomType, roomType)
	}
	var offers []domain.RoomOffer
	key := keyByType(canonical)
	if ok, _ := s.cache.Get(ctx, key, &offers); ok {
		return offers, nil
	}
	offers, err := s.repo.AvailableByType(ctx, canonical)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, offers, int(s.cacheTTL.Seconds()))
	return offers, nil
}

func (s *QueryService) Cheapest(ctx context.Context) (domain.RoomOffer, error) {
	var offer domain.RoomOffer
	if ok, _ := s.cache.Get(ctx, keyCheapest, &offer); ok {
		return offer, nil
	}
	offer, err := s.repo.CheapestAvailable(ctx)
	if err != nil {
		return domain.RoomOffer{}, err
	}
	_ = s.cache.Set(ctx, keyCheapest, offer, int(s.cacheTTL.Seconds()))
	return offer, nil
}

// PriceRange is uncached: the key space is guest-controlled and unbounded.
func (s *QueryService) PriceRange(ctx context.Context, min, max float64) ([]domain.AvailabilityRow, error) {
	return s.repo.PriceRange(ctx, min, max)
}

// RoomDetails joins the availability summary with the room-type catalog.
func (s *QueryService) RoomDetails(ctx context.Context) ([]domain.RoomDetail, error) {
	var details []domain.RoomDetail
	if ok, _ := s.cache.Get(ctx, keyInfo, &details); ok {
		return details, nil
	}
	rows, err := s.repo.AvailabilitySummary(ctx)
	if err != nil {
		return nil, err
	}
	details = make([]domain.RoomDetail, 0, len(rows))
	for _, row := range rows {
		d := domain.RoomDetail{Type: row.Type, Price: row.Price, Count: row.Count}
		if spec, ok := s.prop.TypeSpec(row.Type); ok {
			d.Features = spec.Features
			d.MaxOccupancy = spec.MaxOccupancy
		}
		details = append(details, d)
	}
	_ = s.cache.Set(ctx, keyInfo, details, int(s.cacheTTL.Seconds()))
	return details, nil
}

func (s *QueryService) Booking(ctx context.Context, code string) (domain.Booking, error) {
	return s.repo.GetBookingByCode(ctx, code)
}

// InvalidateAvailability drops every availability-derived cache entry.
// Called after any write that changes room state.
func (s *QueryService) InvalidateAvailability(ctx context.Context) {
	_ = s.cache.Del(ctx, keySummary)
	_ = s.cache.Del(ctx, keyCheapest)
	_ = s.cache.Del(ctx, keyInfo)
	for _, t := range s.prop.TypeNames() {
		_ = s.cache.Del(ctx, keyByType(t))
	}
}
