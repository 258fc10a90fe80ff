// Package sqlite backs the room repository with an embedded database. It is
// the zero-dependency deployment mode: a CSV inventory is loaded into an
// in-memory database at startup, or a file DSN persists between runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	"frontdesk/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS rooms (
  id           INTEGER PRIMARY KEY,
  type         TEXT NOT NULL,
  price        REAL NOT NULL,
  availability TEXT NOT NULL DEFAULT 'Available',
  updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS bookings (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  code          TEXT NOT NULL UNIQUE,
  room_id       INTEGER NOT NULL,
  room_type     TEXT NOT NULL,
  price         REAL NOT NULL,
  guest_session TEXT NOT NULL DEFAULT '',
  status        TEXT NOT NULL,
  created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_rooms_availability ON rooms(availability, type, price);
`

type Repo struct{ db *sql.DB }

// Open opens (or creates) the database at dsn and ensures the schema.
// dsn ":memory:" gives the original CSV-backed in-memory mode.
func Open(dsn string) (*Repo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// the in-memory database lives and dies with its single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO rooms (id, type, price, availability)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  type         = excluded.type,
  price        = excluded.price,
  availability = excluded.availability,
  updated_at   = CURRENT_TIMESTAMP`,
		rm.ID, rm.Type, rm.Price, rm.Availability)
	return err
}

func (r *Repo) BookRoom(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE rooms SET availability = 'Booked', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND availability = 'Available'`, id)
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
UPDATE rooms SET availability = 'Available', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND availability = 'Booked'`, id)
	return err
}

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO bookings (code, room_id, room_type, price, guest_session, status)
VALUES (?, ?, ?, ?, ?, ?)`,
		b.Code, b.RoomID, b.RoomType, b.Price, b.GuestSession, b.Status)
	return err
}

func (r *Repo) SetBookingStatus(ctx context.Context, code, status string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ?`, status, code)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) AvailabilitySummary(ctx context.Context) ([]domain.AvailabilityRow, error) {
	return r.scanRows(ctx, `
SELECT type, price, COUNT(*) FROM rooms
WHERE availability = 'Available'
GROUP BY type, price
ORDER BY price`)
}

func (r *Repo) AvailableByType(ctx context.Context, roomType string) ([]domain.RoomOffer, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, type, price FROM rooms
WHERE type = ? AND availability = 'Available'
ORDER BY price, id`, roomType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomOffer
	for rows.Next() {
		var o domain.RoomOffer
		if err := rows.Scan(&o.ID, &o.Type, &o.Price); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) PriceRange(ctx context.Context, min, max float64) ([]domain.AvailabilityRow, error) {
	return r.scanRows(ctx, `
SELECT type, price, COUNT(*) FROM rooms
WHERE availability = 'Available' AND price BETWEEN ? AND ?
GROUP BY type, price
ORDER BY price`, min, max)
}

func (r *Repo) CheapestAvailable(ctx context.Context) (domain.RoomOffer, error) {
	var o domain.RoomOffer
	err := r.db.QueryRowContext(ctx, `
SELECT id, type, price FROM rooms
WHERE availability = 'Available'
ORDER BY price ASC, id ASC
LIMIT 1`).Scan(&o.ID, &o.Type, &o.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomOffer{}, domain.ErrNoVacancy
	}
	return o, err
}

func (r *Repo) GetBookingByCode(ctx context.Context, code string) (domain.Booking, error) {
	var b domain.Booking
	var created sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, code, room_id, room_type, price, guest_session, status, created_at
FROM bookings WHERE code = ?`, code).Scan(
		&b.ID, &b.Code, &b.RoomID, &b.RoomType, &b.Price, &b.GuestSession, &b.Status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Booking{}, err
	}
	if created.Valid {
		t := created.Time
		b.CreatedAt = &t
	}
	return b, nil
}

func (r *Repo) scanRows(ctx context.Context, q string, args ...any) ([]domain.AvailabilityRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AvailabilityRow
	for rows.Next() {
		var row domain.AvailabilityRow
		if err := rows.Scan(&row.Type, &row.Price, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
