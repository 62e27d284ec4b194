package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "tiketbus/internal/config"
	intdb "tiketbus/internal/db"
	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/utils"
)

const bookingColumns = `b.id, b.code, b.user_id, b.schedule_id, b.user_name, b.user_email, b.user_phone,
	b.schedule_code, b.origin, b.destination, b.travel_date, b.travel_time, b.unit_price,
	b.passenger_count, b.seat_numbers, b.total_price, b.status, b.booked_at, b.created_at, b.updated_at`

const joinColumns = `u.id, u.name, u.email, u.phone,
	s.id, s.code, s.origin, s.destination, s.date, s.time, s.price`

// bookingSortColumns whitelists sortable API fields, legacy names included.
var bookingSortColumns = map[string]string{
	"bookedAt":         "b.booked_at",
	"booked_at":        "b.booked_at",
	"tanggal_pesan":    "b.booked_at",
	"createdAt":        "b.created_at",
	"created_at":       "b.created_at",
	"updatedAt":        "b.updated_at",
	"totalPrice":       "b.total_price",
	"total_harga":      "b.total_price",
	"passengerCount":   "b.passenger_count",
	"jumlah_penumpang": "b.passenger_count",
	"status":           "b.status",
	"code":             "b.code",
	"kode_booking":     "b.code",
	"date":             "b.travel_date",
}

// IsSortableBookingField reports whether field can be used in sort=.
func IsSortableBookingField(field string) bool {
	_, ok := bookingSortColumns[field]
	return ok
}

type BookingRepository struct {
	DB *sql.DB
	tx intdb.DBTX
}

func (r BookingRepository) db() intdb.DBTX {
	if r.tx != nil {
		return r.tx
	}
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BookingRepository) WithTx(tx *sql.Tx) BookingRepository {
	r.tx = tx
	return r
}

func bookingDest(b *models.Booking, code *sql.NullString, seats *string) []any {
	return []any{&b.ID, code, &b.UserID, &b.ScheduleID,
		&b.Snapshot.User.Name, &b.Snapshot.User.Email, &b.Snapshot.User.Phone,
		&b.Snapshot.Schedule.Code, &b.Snapshot.Schedule.Origin, &b.Snapshot.Schedule.Destination,
		&b.Snapshot.Schedule.Date, &b.Snapshot.Schedule.Time, &b.Snapshot.Schedule.Price,
		&b.PassengerCount, seats, &b.TotalPrice, &b.Status, &b.BookedAt, &b.CreatedAt, &b.UpdatedAt}
}

func finishBooking(b *models.Booking, code sql.NullString, seats string) {
	b.Code = code.String
	b.SeatNumbers = utils.SplitSeatList(seats)
	b.PaymentStatus = domain.BookingStatus(b.Status).PaymentStatus()
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b     models.Booking
		code  sql.NullString
		seats string
	)
	if err := row.Scan(bookingDest(&b, &code, &seats)...); err != nil {
		return b, err
	}
	finishBooking(&b, code, seats)
	return b, nil
}

func scanBookingJoined(row rowScanner) (models.BookingJoined, error) {
	var (
		out                        models.BookingJoined
		code                       sql.NullString
		seats                      string
		uID, uName, uEmail, uPhone sql.NullString
		sID, sCode, sOrigin, sDest sql.NullString
		sDate, sTime               sql.NullString
		sPrice                     sql.NullInt64
	)
	dest := append(bookingDest(&out.Booking, &code, &seats),
		&uID, &uName, &uEmail, &uPhone, &sID, &sCode, &sOrigin, &sDest, &sDate, &sTime, &sPrice)
	if err := row.Scan(dest...); err != nil {
		return out, err
	}
	finishBooking(&out.Booking, code, seats)
	if uID.Valid {
		out.User = &models.BookingUserRef{ID: uID.String, Name: uName.String, Email: uEmail.String, Phone: uPhone.String}
	}
	if sID.Valid {
		out.Jadwal = &models.BookingScheduleRef{
			ID: sID.String, Code: sCode.String, Origin: sOrigin.String, Destination: sDest.String,
			Date: sDate.String, Time: sTime.String, Price: sPrice.Int64,
		}
	}
	return out, nil
}

func (r BookingRepository) Insert(ctx context.Context, b models.Booking) error {
	snap := b.Snapshot
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO bookings (id, code, user_id, schedule_id, user_name, user_email, user_phone,
			schedule_code, origin, destination, travel_date, travel_time, unit_price,
			passenger_count, seat_numbers, total_price, status, booked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, intdb.NullIfEmpty(b.Code), b.UserID, b.ScheduleID,
		snap.User.Name, snap.User.Email, snap.User.Phone,
		snap.Schedule.Code, snap.Schedule.Origin, snap.Schedule.Destination,
		snap.Schedule.Date, snap.Schedule.Time, snap.Schedule.Price,
		b.PassengerCount, utils.JoinSeatList(b.SeatNumbers), b.TotalPrice, b.Status,
		b.BookedAt, b.CreatedAt, b.UpdatedAt)
	return mapBookingWriteErr(err, b.Code)
}

func (r BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ? LIMIT 1`, id)
}

func (r BookingRepository) GetByCode(ctx context.Context, code string) (models.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.code = ? LIMIT 1`, code)
}

// GetForUpdate locks the booking row; only meaningful inside WithTx.
func (r BookingRepository) GetForUpdate(ctx context.Context, id string) (models.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ? FOR UPDATE`, id)
}

func (r BookingRepository) getOne(ctx context.Context, query string, arg any) (models.Booking, error) {
	b, err := scanBooking(r.db().QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return b, domain.NotFoundError{Resource: "pemesanan", Err: err}
	}
	return b, err
}

// Update writes the mutable columns: code, seats, status.
func (r BookingRepository) Update(ctx context.Context, b models.Booking) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE bookings SET code = ?, seat_numbers = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		intdb.NullIfEmpty(b.Code), utils.JoinSeatList(b.SeatNumbers), b.Status, b.UpdatedAt, b.ID)
	return mapBookingWriteErr(err, b.Code)
}

func (r BookingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "pemesanan"}
	}
	return nil
}

func buildBookingWhere(f models.BookingFilter) (string, []any) {
	where := []string{}
	args := []any{}
	if f.Code != "" {
		where = append(where, "b.code = ?")
		args = append(args, f.Code)
	}
	if len(f.Statuses) > 0 {
		where = append(where, "b.status IN ("+intdb.Placeholders(len(f.Statuses))+")")
		for _, s := range f.Statuses {
			args = append(args, s)
		}
	}
	if f.UserID != "" {
		where = append(where, "b.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.ScheduleID != "" {
		where = append(where, "b.schedule_id = ?")
		args = append(args, f.ScheduleID)
	}
	if f.BookedFrom != nil {
		where = append(where, "b.booked_at >= ?")
		args = append(args, *f.BookedFrom)
	}
	if f.BookedTo != nil {
		where = append(where, "b.booked_at <= ?")
		args = append(args, *f.BookedTo)
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func buildBookingOrder(sorts []domain.Sort) string {
	parts := []string{}
	for _, s := range sorts {
		col, ok := bookingSortColumns[s.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if s.Desc() {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		parts = append(parts, "b.booked_at DESC")
	}
	return " ORDER BY " + strings.Join(append(parts, "b.id DESC"), ", ")
}

// Count returns the number of bookings matching f.
func (r BookingRepository) Count(ctx context.Context, f models.BookingFilter) (int, error) {
	where, args := buildBookingWhere(f)
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&n)
	return n, err
}

func (r BookingRepository) List(ctx context.Context, f models.BookingFilter, sorts []domain.Sort, page domain.Pagination) ([]models.Booking, error) {
	where, args := buildBookingWhere(f)
	query := `SELECT ` + bookingColumns + ` FROM bookings b` + where + buildBookingOrder(sorts) + ` LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListJoined is List with the live user and schedule rows attached.
func (r BookingRepository) ListJoined(ctx context.Context, f models.BookingFilter, sorts []domain.Sort, page domain.Pagination) ([]models.BookingJoined, error) {
	where, args := buildBookingWhere(f)
	query := `SELECT ` + bookingColumns + `, ` + joinColumns + `
		FROM bookings b
		LEFT JOIN users u ON u.id = b.user_id
		LEFT JOIN schedules s ON s.id = b.schedule_id` + where + buildBookingOrder(sorts) + ` LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingJoined{}
	for rows.Next() {
		b, err := scanBookingJoined(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Stats aggregates bookings per status.
func (r BookingRepository) Stats(ctx context.Context) (models.BookingStats, error) {
	out := models.BookingStats{ByStatus: map[string]int{}}
	for _, s := range []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled} {
		out.ByStatus[s.String()] = 0
	}

	rows, err := r.db().QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_price), 0), COALESCE(SUM(passenger_count), 0)
		FROM bookings GROUP BY status`)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status     string
			count      int
			revenue    int64
			passengers int
		)
		if err := rows.Scan(&status, &count, &revenue, &passengers); err != nil {
			return out, err
		}
		out.ByStatus[status] = count
		out.Total += count
		if st := domain.BookingStatus(status); st == domain.StatusConfirmed || st == domain.StatusCompleted {
			out.Revenue += revenue
			out.Seats += passengers
		}
	}
	return out, rows.Err()
}

func mapBookingWriteErr(err error, code string) error {
	if err == nil {
		return nil
	}
	if intdb.IsDuplicateKey(err) {
		return domain.DuplicateError{Resource: "pemesanan", Field: "code", Value: code, Err: err}
	}
	return err
}
