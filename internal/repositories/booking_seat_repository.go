package repositories

import (
	"context"
	"database/sql"
	"time"

	intconfig "tiketbus/internal/config"
	intdb "tiketbus/internal/db"
	"tiketbus/internal/domain"
)

// BookingSeatRepository owns booking_seats: one row per seat held by a
// non-cancelled booking, unique per (schedule_id, seat_number).
type BookingSeatRepository struct {
	DB *sql.DB
	tx intdb.DBTX
}

func (r BookingSeatRepository) db() intdb.DBTX {
	if r.tx != nil {
		return r.tx
	}
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BookingSeatRepository) WithTx(tx *sql.Tx) BookingSeatRepository {
	r.tx = tx
	return r
}

// Reserve inserts one row per seat. A unique violation becomes SeatConflict
// naming the seat that collided.
func (r BookingSeatRepository) Reserve(ctx context.Context, bookingID, scheduleID string, seats []string, now time.Time) error {
	for _, seat := range seats {
		_, err := r.db().ExecContext(ctx, `
			INSERT INTO booking_seats (booking_id, schedule_id, seat_number, created_at)
			VALUES (?, ?, ?, ?)`, bookingID, scheduleID, seat, now)
		if err != nil {
			if intdb.IsDuplicateKey(err) {
				return domain.SeatConflict(seat)
			}
			return err
		}
	}
	return nil
}

// ReleaseByBooking deletes every seat row of a booking and returns how many were held.
func (r BookingSeatRepository) ReleaseByBooking(ctx context.Context, bookingID string) (int, error) {
	res, err := r.db().ExecContext(ctx, `DELETE FROM booking_seats WHERE booking_id = ?`, bookingID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r BookingSeatRepository) DeleteBySchedule(ctx context.Context, scheduleID string) error {
	_, err := r.db().ExecContext(ctx, `DELETE FROM booking_seats WHERE schedule_id = ?`, scheduleID)
	return err
}

// TakenSeats lists held seat numbers of a schedule.
func (r BookingSeatRepository) TakenSeats(ctx context.Context, scheduleID string) ([]string, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT seat_number FROM booking_seats WHERE schedule_id = ? ORDER BY id ASC`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return out, err
		}
		out = append(out, seat)
	}
	return out, rows.Err()
}
