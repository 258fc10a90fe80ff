package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"frontdesk/internal/domain"
)

// requiredColumns is the CSV inventory contract.
var requiredColumns = []string{"id", "type", "price", "availability"}

// LoadRoomsCSV parses a room-inventory CSV. Missing required columns or
// malformed values fail hard with the row number.
func LoadRoomsCSV(path string) ([]domain.Room, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory csv: %w", err)
	}
	defer f.Close()
	return ParseRoomsCSV(f)
}

func ParseRoomsCSV(r io.Reader) ([]domain.Room, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := col[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv is missing required columns: %s", strings.Join(missing, ", "))
	}

	var rooms []domain.Room
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rec[col["id"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: bad id %q", line, rec[col["id"]])
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[col["price"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: bad price %q", line, rec[col["price"]])
		}
		rooms = append(rooms, domain.Room{
			ID:           id,
			Type:         strings.TrimSpace(rec[col["type"]]),
			Price:        price,
			Availability: strings.TrimSpace(rec[col["availability"]]),
		})
	}
	return rooms, nil
}

// Seeder writes an inventory into the room store with a bounded worker pool.
type Seeder struct {
	repo    domain.RoomRepository
	queries *QueryService
	workers int
}

func NewSeeder(r domain.RoomRepository, q *QueryService, workers int) *Seeder {
	if workers <= 0 {
		workers = 8
	}
	return &Seeder{repo: r, queries: q, workers: workers}
}

// Run upserts all rooms. Row failures are logged and counted but do not stop
// the load; caches are invalidated once at the end.
func (s *Seeder) Run(ctx context.Context, rooms []domain.Room) (int, error) {
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for _, rm := range rooms {
		if err := sem.Acquire(ctx, 1); err != nil {
			return failed, err
		}
		wg.Add(1)
		go func(rm domain.Room) {
			defer wg.Done()
			defer sem.Release(1)
			if err := s.repo.UpsertRoom(ctx, rm); err != nil {
				log.Warn().Int64("id", rm.ID).Err(err).Msg("room upsert failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
		}(rm)
	}
	wg.Wait()

	if s.queries != nil {
		s.queries.InvalidateAvailability(ctx)
	}
	return failed, nil
}

// BootstrapCSV is the sqlite/:memory: startup path: parse the CSV and load
// it synchronously before serving.
func BootstrapCSV(ctx context.Context, repo domain.RoomRepository, path string, workers int) error {
	rooms, err := LoadRoomsCSV(path)
	if err != nil {
		return err
	}
	seeder := NewSeeder(repo, nil, workers)
	failed, err := seeder.Run(ctx, rooms)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("bootstrap: %d of %d rooms failed to load", failed, len(rooms))
	}
	log.Info().Int("rooms", len(rooms)).Str("csv", path).Msg("inventory loaded")
	return nil
}
