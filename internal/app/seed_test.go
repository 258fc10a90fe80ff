package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/app"
	"frontdesk/internal/domain"
	"frontdesk/internal/shared"
)

func TestParseRoomsCSV(t *testing.T) {
	in := strings.NewReader(
		"id,type,price,availability\n" +
			"1, Single, 80.50, Available\n" +
			"2,Suite,250,Booked\n")

	rooms, err := app.ParseRoomsCSV(in)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, domain.Room{ID: 1, Type: "Single", Price: 80.50, Availability: "Available"}, rooms[0])
	assert.Equal(t, domain.Room{ID: 2, Type: "Suite", Price: 250, Availability: "Booked"}, rooms[1])
}

func TestParseRoomsCSV_ColumnOrderIndependent(t *testing.T) {
	in := strings.NewReader(
		"availability,price,Type,ID\n" +
			"Available,99,Double,7\n")

	rooms, err := app.ParseRoomsCSV(in)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, int64(7), rooms[0].ID)
	assert.Equal(t, "Double", rooms[0].Type)
}

func TestParseRoomsCSV_MissingColumns(t *testing.T) {
	in := strings.NewReader("id,type\n1,Single\n")

	_, err := app.ParseRoomsCSV(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
	assert.Contains(t, err.Error(), "availability")
}

func TestParseRoomsCSV_BadValues(t *testing.T) {
	_, err := app.ParseRoomsCSV(strings.NewReader("id,type,price,availability\nx,Single,80,Available\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "bad id")

	_, err = app.ParseRoomsCSV(strings.NewReader("id,type,price,availability\n1,Single,eighty,Available\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad price")
}

func TestSeeder_Run(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 0, shared.DefaultProperty())

	// warm a cache entry so the post-load invalidation is observable
	_ = cache.Set(context.Background(), "availability:summary", []domain.AvailabilityRow{{Type: "stale"}}, 60)

	rooms := []domain.Room{
		{ID: 1, Type: "Single", Price: 80, Availability: domain.RoomAvailable},
		{ID: 2, Type: "Single", Price: 80, Availability: domain.RoomAvailable},
		{ID: 3, Type: "Suite", Price: 250, Availability: domain.RoomBooked},
	}
	// a single worker keeps the map-backed fake race-free
	failed, err := app.NewSeeder(repo, q, 1).Run(context.Background(), rooms)
	require.NoError(t, err)
	assert.Zero(t, failed)
	assert.Len(t, repo.rooms, 3)

	var out []domain.AvailabilityRow
	hit, err := cache.Get(context.Background(), "availability:summary", &out)
	require.NoError(t, err)
	assert.False(t, hit, "stale summary must be invalidated after a load")
}
