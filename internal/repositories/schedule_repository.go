package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "tiketbus/internal/config"
	intdb "tiketbus/internal/db"
	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
)

const scheduleColumns = `id, code, origin, destination, departure_pool, arrival_pool, date, time,
	arrival_estimate, price, total_seats, available_seats, status, created_at, updated_at`

type ScheduleRepository struct {
	DB *sql.DB
	tx intdb.DBTX
}

func (r ScheduleRepository) db() intdb.DBTX {
	if r.tx != nil {
		return r.tx
	}
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// WithTx binds the repository to a running transaction.
func (r ScheduleRepository) WithTx(tx *sql.Tx) ScheduleRepository {
	r.tx = tx
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (models.Schedule, error) {
	var (
		s                      models.Schedule
		code, depPool, arrPool sql.NullString
		arrival                sql.NullTime
	)
	err := row.Scan(&s.ID, &code, &s.Origin, &s.Destination, &depPool, &arrPool, &s.Date, &s.Time,
		&arrival, &s.Price, &s.TotalSeats, &s.AvailableSeats, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.Code = code.String
	s.DeparturePool = depPool.String
	s.ArrivalPool = arrPool.String
	if arrival.Valid {
		t := arrival.Time
		s.ArrivalEstimate = &t
	}
	return s, nil
}

// List returns schedules matching every non-empty filter field, ordered by date, time.
func (r ScheduleRepository) List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error) {
	where := []string{}
	args := []any{}
	add := func(col, val string) {
		if strings.TrimSpace(val) == "" {
			return
		}
		where = append(where, col+" = ?")
		args = append(args, strings.TrimSpace(val))
	}
	add("code", f.Code)
	add("origin", f.Origin)
	add("destination", f.Destination)
	add("date", f.Date)
	add("time", f.Time)
	add("status", f.Status)
	add("departure_pool", f.DeparturePool)
	add("arrival_pool", f.ArrivalPool)

	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date ASC, time ASC`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r ScheduleRepository) GetByID(ctx context.Context, id string) (models.Schedule, error) {
	return r.getOne(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ? LIMIT 1`, id)
}

func (r ScheduleRepository) GetByCode(ctx context.Context, code string) (models.Schedule, error) {
	return r.getOne(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE code = ? LIMIT 1`, code)
}

// GetForUpdate locks the schedule row; only meaningful inside WithTx.
func (r ScheduleRepository) GetForUpdate(ctx context.Context, id string) (models.Schedule, error) {
	return r.getOne(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ? FOR UPDATE`, id)
}

func (r ScheduleRepository) getOne(ctx context.Context, query string, arg any) (models.Schedule, error) {
	s, err := scanSchedule(r.db().QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return s, domain.NotFoundError{Resource: "jadwal", Err: err}
	}
	return s, err
}

func (r ScheduleRepository) Insert(ctx context.Context, s models.Schedule) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO schedules (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, intdb.NullIfEmpty(s.Code), s.Origin, s.Destination, intdb.NullIfEmpty(s.DeparturePool),
		intdb.NullIfEmpty(s.ArrivalPool), s.Date, s.Time, nullTime(s.ArrivalEstimate), s.Price,
		s.TotalSeats, s.AvailableSeats, s.Status, s.CreatedAt, s.UpdatedAt)
	return mapScheduleWriteErr(err, s.Code)
}

// Update writes every mutable column of a merged schedule.
func (r ScheduleRepository) Update(ctx context.Context, s models.Schedule) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE schedules SET code = ?, origin = ?, destination = ?, departure_pool = ?, arrival_pool = ?,
			date = ?, time = ?, arrival_estimate = ?, price = ?, total_seats = ?, available_seats = ?,
			status = ?, updated_at = ?
		WHERE id = ?`,
		intdb.NullIfEmpty(s.Code), s.Origin, s.Destination, intdb.NullIfEmpty(s.DeparturePool),
		intdb.NullIfEmpty(s.ArrivalPool), s.Date, s.Time, nullTime(s.ArrivalEstimate), s.Price,
		s.TotalSeats, s.AvailableSeats, s.Status, s.UpdatedAt, s.ID)
	return mapScheduleWriteErr(err, s.Code)
}

func (r ScheduleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "jadwal"}
	}
	return nil
}

// ReserveSeats decrements available_seats only when enough remain.
// It returns false when the guard failed.
func (r ScheduleRepository) ReserveSeats(ctx context.Context, id string, n int, now time.Time) (bool, error) {
	res, err := r.db().ExecContext(ctx, `
		UPDATE schedules SET available_seats = available_seats - ?, updated_at = ?
		WHERE id = ? AND available_seats >= ?`, n, now, id, n)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ReleaseSeats gives n seats back, never above total_seats.
func (r ScheduleRepository) ReleaseSeats(ctx context.Context, id string, n int, now time.Time) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE schedules SET available_seats = LEAST(total_seats, available_seats + ?), updated_at = ?
		WHERE id = ?`, n, now, id)
	return err
}

func (r ScheduleRepository) AvailableSeats(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT available_seats FROM schedules WHERE id = ?`, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "jadwal", Err: err}
	}
	return n, err
}

func mapScheduleWriteErr(err error, code string) error {
	if err == nil {
		return nil
	}
	if intdb.IsDuplicateKey(err) {
		return domain.DuplicateError{Resource: "jadwal", Field: "code", Value: code, Err: err}
	}
	return err
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
