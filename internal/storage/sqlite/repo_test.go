package sqlite

import (
	"context"
	"errors"
	"testing"

	"frontdesk/internal/domain"
)

func openTestRepo(t *testing.T, rooms ...domain.Room) *Repo {
	t.Helper()
	repo, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	for _, rm := range rooms {
		if err := repo.UpsertRoom(context.Background(), rm); err != nil {
			t.Fatalf("seed room %d: %v", rm.ID, err)
		}
	}
	return repo
}

func TestUpsertRoom_InsertThenUpdate(t *testing.T) {
	repo := openTestRepo(t, domain.Room{ID: 1, Type: "Single", Price: 80, Availability: domain.RoomAvailable})
	ctx := context.Background()

	if err := repo.UpsertRoom(ctx, domain.Room{ID: 1, Type: "Single", Price: 95, Availability: domain.RoomAvailable}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := repo.AvailabilitySummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 1 || rows[0].Price != 95 || rows[0].Count != 1 {
		t.Fatalf("unexpected summary after upsert: %+v", rows)
	}
}

func TestBookRoom_GuardAgainstDoubleBooking(t *testing.T) {
	repo := openTestRepo(t, domain.Room{ID: 1, Type: "Suite", Price: 250, Availability: domain.RoomAvailable})
	ctx := context.Background()

	if err := repo.BookRoom(ctx, 1); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := repo.BookRoom(ctx, 1); !errors.Is(err, domain.ErrRoomConflict) {
		t.Fatalf("second booking: %v, want ErrRoomConflict", err)
	}
	if err := repo.BookRoom(ctx, 404); !errors.Is(err, domain.ErrRoomConflict) {
		t.Fatalf("unknown room: %v, want ErrRoomConflict", err)
	}
}

func TestBookingLifecycle(t *testing.T) {
	repo := openTestRepo(t,
		domain.Room{ID: 1, Type: "Double", Price: 110, Availability: domain.RoomAvailable},
		domain.Room{ID: 2, Type: "Double", Price: 130, Availability: domain.RoomAvailable},
	)
	ctx := context.Background()

	offers, err := repo.AvailableByType(ctx, "Double")
	if err != nil {
		t.Fatalf("offers: %v", err)
	}
	if len(offers) != 2 || offers[0].ID != 1 {
		t.Fatalf("offers must be price-ordered: %+v", offers)
	}

	if err := repo.BookRoom(ctx, offers[0].ID); err != nil {
		t.Fatalf("book: %v", err)
	}
	b := domain.Booking{
		Code: "11111111-2222-3333-4444-555555555555", RoomID: 1, RoomType: "Double",
		Price: 110, GuestSession: "s1", Status: domain.BookingConfirmed,
	}
	if err := repo.InsertBooking(ctx, b); err != nil {
		t.Fatalf("insert booking: %v", err)
	}

	got, err := repo.GetBookingByCode(ctx, b.Code)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if got.RoomID != 1 || got.Status != domain.BookingConfirmed || got.CreatedAt == nil {
		t.Fatalf("unexpected booking: %+v", got)
	}

	offers, err = repo.AvailableByType(ctx, "Double")
	if err != nil {
		t.Fatalf("offers: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != 2 {
		t.Fatalf("booked room still offered: %+v", offers)
	}

	if err := repo.SetBookingStatus(ctx, b.Code, domain.BookingCheckedOut); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := repo.ReleaseRoom(ctx, 1); err != nil {
		t.Fatalf("release: %v", err)
	}

	offers, err = repo.AvailableByType(ctx, "Double")
	if err != nil {
		t.Fatalf("offers: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("released room not offered: %+v", offers)
	}
}

func TestSetBookingStatus_UnknownCode(t *testing.T) {
	repo := openTestRepo(t)
	err := repo.SetBookingStatus(context.Background(), "no-such-code", domain.BookingCancelled)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCheapestAvailable(t *testing.T) {
	repo := openTestRepo(t,
		domain.Room{ID: 1, Type: "Suite", Price: 250, Availability: domain.RoomAvailable},
		domain.Room{ID: 2, Type: "Single", Price: 80, Availability: domain.RoomAvailable},
		domain.Room{ID: 3, Type: "Single", Price: 70, Availability: domain.RoomBooked},
	)
	ctx := context.Background()

	offer, err := repo.CheapestAvailable(ctx)
	if err != nil {
		t.Fatalf("cheapest: %v", err)
	}
	if offer.ID != 2 || offer.Price != 80 {
		t.Fatalf("unexpected offer: %+v", offer)
	}

	empty := openTestRepo(t)
	if _, err := empty.CheapestAvailable(ctx); !errors.Is(err, domain.ErrNoVacancy) {
		t.Fatalf("err = %v, want ErrNoVacancy", err)
	}
}

func TestPriceRange(t *testing.T) {
	repo := openTestRepo(t,
		domain.Room{ID: 1, Type: "Single", Price: 80, Availability: domain.RoomAvailable},
		domain.Room{ID: 2, Type: "Double", Price: 120, Availability: domain.RoomAvailable},
		domain.Room{ID: 3, Type: "Suite", Price: 250, Availability: domain.RoomAvailable},
	)

	rows, err := repo.PriceRange(context.Background(), 50, 150)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(rows) != 2 || rows[0].Type != "Single" || rows[1].Type != "Double" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestGetBookingByCode_NotFound(t *testing.T) {
	repo := openTestRepo(t)
	if _, err := repo.GetBookingByCode(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
