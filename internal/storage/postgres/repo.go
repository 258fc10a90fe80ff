package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"frontdesk/internal/domain"
)

type Repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) *Repo { return &Repo{db: db} }

func Connect(dsn string) (*Repo, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &Repo{db: db}, nil
}

type availabilityRow struct {
	Type  string  `db:"type"`
	Price float64 `db:"price"`
	Count int     `db:"available_rooms"`
}

type offerRow struct {
	ID    int64   `db:"id"`
	Type  string  `db:"type"`
	Price float64 `db:"price"`
}

type bookingRow struct {
	ID           int64        `db:"id"`
	Code         string       `db:"code"`
	RoomID       int64        `db:"room_id"`
	RoomType     string       `db:"room_type"`
	Price        float64      `db:"price"`
	GuestSession string       `db:"guest_session"`
	Status       string       `db:"status"`
	CreatedAt    sql.NullTime `db:"created_at"`
}

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO rooms (id, type, price, availability)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
  type         = EXCLUDED.type,
  price        = EXCLUDED.price,
  availability = EXCLUDED.availability,
  updated_at   = NOW()`,
		rm.ID, rm.Type, rm.Price, rm.Availability)
	return err
}

func (r *Repo) BookRoom(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE rooms SET availability = 'Booked', updated_at = NOW()
WHERE id = $1 AND availability = 'Available'`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRoomConflict
	}
	return nil
}

func (r *Repo) ReleaseRoom(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE rooms SET availability = 'Available', updated_at = NOW()
WHERE id = $1 AND availability = 'Booked'`, id)
	return err
}

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO bookings (code, room_id, room_type, price, guest_session, status)
VALUES ($1, $2, $3, $4, $5, $6)`,
		b.Code, b.RoomID, b.RoomType, b.Price, b.GuestSession, b.Status)
	return err
}

func (r *Repo) SetBookingStatus(ctx context.Context, code, status string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE bookings SET status = $1, updated_at = NOW() WHERE code = $2`, status, code)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) AvailabilitySummary(ctx context.Context) ([]domain.AvailabilityRow, error) {
	var rows []availabilityRow
	err := r.db.SelectContext(ctx, &rows, `
SELECT type, price, COUNT(*) AS available_rooms
FROM rooms
WHERE availability = 'Available'
GROUP BY type, price
ORDER BY price`)
	return toRows(rows), err
}

func (r *Repo) AvailableByType(ctx context.Context, roomType string) ([]domain.RoomOffer, error) {
	var rows []offerRow
	err := r.db.SelectContext(ctx, &rows, `
SELECT id, type, price FROM rooms
WHERE type = $1 AND availability = 'Available'
ORDER BY price, id`, roomType)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RoomOffer, 0, len(rows))
	for _, o := range rows {
		out = append(out, domain.RoomOffer{ID: o.ID, Type: o.Type, Price: o.Price})
	}
	return out, nil
}

func (r *Repo) PriceRange(ctx context.Context, min, max float64) ([]domain.AvailabilityRow, error) {
	var rows []availabilityRow
	err := r.db.SelectContext(ctx, &rows, `
SELECT type, price, COUNT(*) AS available_rooms
FROM rooms
WHERE availability = 'Available' AND price BETWEEN $1 AND $2
GROUP BY type, price
ORDER BY price`, min, max)
	return toRows(rows), err
}

func (r *Repo) CheapestAvailable(ctx context.Context) (domain.RoomOffer, error) {
	var o offerRow
	err := r.db.GetContext(ctx, &o, `
SELECT id, type, price FROM rooms
WHERE availability = 'Available'
ORDER BY price ASC, id ASC
LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomOffer{}, domain.ErrNoVacancy
	}
	if err != nil {
		return domain.RoomOffer{}, err
	}
	return domain.RoomOffer{ID: o.ID, Type: o.Type, Price: o.Price}, nil
}

func (r *Repo) GetBookingByCode(ctx context.Context, code string) (domain.Booking, error) {
	var b bookingRow
	err := r.db.GetContext(ctx, &b, `
SELECT id, code, room_id, room_type, price, guest_session, status, created_at
FROM bookings WHERE code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Booking{}, err
	}
	out := domain.Booking{
		ID: b.ID, Code: b.Code, RoomID: b.RoomID, RoomType: b.RoomType,
		Price: b.Price, GuestSession: b.GuestSession, Status: b.Status,
	}
	if b.CreatedAt.Valid {
		t := b.CreatedAt.Time
		out.CreatedAt = &t
	}
	return out, nil
}

func toRows(rows []availabilityRow) []domain.AvailabilityRow {
	if rows == nil {
		return nil
	}
	out := make([]domain.AvailabilityRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.AvailabilityRow(row))
	}
	return out
}
