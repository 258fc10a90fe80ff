package mysql

import (
	"context"
	"database/sql"
	"errors"

	"frontdesk/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, upsertRoomSQL, rm.ID, rm.Type, rm.Price, rm.Availability)
	return err
}

func (r *Repo) BookRoom(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, bookRoomSQL, id)
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
	_, err := r.db.ExecContext(ctx, releaseRoomSQL, id)
	return err
}

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.Code, b.RoomID, b.RoomType, b.Price, b.GuestSession, b.Status)
	return err
}

func (r *Repo) SetBookingStatus(ctx context.Context, code, status string) error {
	res, err := r.db.ExecContext(ctx, setBookingStatusSQL, status, code)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) AvailabilitySummary(ctx context.Context) ([]domain.AvailabilityRow, error) {
	return scanRows(r.db.QueryContext(ctx, availabilitySummarySQL))
}

func (r *Repo) AvailableByType(ctx context.Context, roomType string) ([]domain.RoomOffer, error) {
	rows, err := r.db.QueryContext(ctx, availableByTypeSQL, roomType)
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
	return scanRows(r.db.QueryContext(ctx, priceRangeSQL, min, max))
}

func (r *Repo) CheapestAvailable(ctx context.Context) (domain.RoomOffer, error) {
	var o domain.RoomOffer
	err := r.db.QueryRowContext(ctx, cheapestAvailableSQL).Scan(&o.ID, &o.Type, &o.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomOffer{}, domain.ErrNoVacancy
	}
	return o, err
}

func (r *Repo) GetBookingByCode(ctx context.Context, code string) (domain.Booking, error) {
	var b domain.Booking
	var created sql.NullTime
	err := r.db.QueryRowContext(ctx, getBookingByCodeSQL, code).Scan(
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

func scanRows(rows *sql.Rows, err error) ([]domain.AvailabilityRow, error) {
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
