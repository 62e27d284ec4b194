package repositories

import (
	"context"
	"testing"
	"time"

	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

var bookingRowCols = []string{"id", "code", "user_id", "schedule_id", "user_name", "user_email", "user_phone",
	"schedule_code", "origin", "destination", "travel_date", "travel_time", "unit_price",
	"passenger_count", "seat_numbers", "total_price", "status", "booked_at", "created_at", "updated_at"}

func TestBookingListBuildsFilterSortAndPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Date(2025, 11, 17, 7, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings b WHERE b.status IN \\(\\?, \\?\\) AND b.user_id = \\? ORDER BY b.total_price DESC, b.id DESC LIMIT \\? OFFSET \\?").
		WithArgs("confirmed", "completed", "6750a1b2c3d4e5f601234567", 10, 10).
		WillReturnRows(sqlmock.NewRows(bookingRowCols).
			AddRow("6750a1b2c3d4e5f60123aaaa", "BK001", "6750a1b2c3d4e5f601234567", "6750a1b2c3d4e5f60123bbbb",
				"Budi", "budi@example.com", "0812", "JDW001", "BANDUNG, PASTEUR2", "JAKARTA SELATAN, TEBET",
				"2025-11-17", "08:00", int64(113000), 2, "A1,A2", int64(226000), "confirmed", now, now, now))

	repo := BookingRepository{DB: db}
	out, err := repo.List(context.Background(),
		models.BookingFilter{Statuses: []string{"confirmed", "completed"}, UserID: "6750a1b2c3d4e5f601234567"},
		[]domain.Sort{{Field: "totalPrice", Direction: "desc"}, {Field: "password", Direction: "asc"}},
		domain.NewPagination(2, 10))
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(out))
	}
	b := out[0]
	if len(b.SeatNumbers) != 2 || b.SeatNumbers[1] != "A2" {
		t.Fatalf("seat list not split: %v", b.SeatNumbers)
	}
	if b.PaymentStatus != "success" {
		t.Fatalf("payment status should be derived as success, got %s", b.PaymentStatus)
	}
	if b.Snapshot.Schedule.Origin != "BANDUNG, PASTEUR2" {
		t.Fatalf("snapshot not scanned: %+v", b.Snapshot)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingListDefaultOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings b ORDER BY b.booked_at DESC, b.id DESC LIMIT \\? OFFSET \\?").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(bookingRowCols))

	out, err := BookingRepository{DB: db}.List(context.Background(), models.BookingFilter{}, nil, domain.NewPagination(0, 0))
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingListJoinedHandlesMissingRefs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	cols := append(append([]string{}, bookingRowCols...),
		"u_id", "u_name", "u_email", "u_phone", "s_id", "s_code", "s_origin", "s_destination", "s_date", "s_time", "s_price")
	mock.ExpectQuery("LEFT JOIN users u ON u.id = b.user_id\\s+LEFT JOIN schedules s ON s.id = b.schedule_id").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("6750a1b2c3d4e5f60123aaaa", nil, "6750a1b2c3d4e5f601234567", "6750a1b2c3d4e5f60123bbbb",
				"Budi", "budi@example.com", "0812", "", "Jakarta", "Bandung", "2025-12-01", "08:00",
				int64(100000), 1, "A1", int64(100000), "pending", now, now, now,
				nil, nil, nil, nil,
				"6750a1b2c3d4e5f60123bbbb", "JDW009", "Jakarta", "Bandung", "2025-12-01", "08:00", int64(100000)))

	out, err := BookingRepository{DB: db}.ListJoined(context.Background(), models.BookingFilter{}, nil, domain.NewPagination(1, 50))
	if err != nil {
		t.Fatalf("list joined error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].User != nil {
		t.Fatalf("deleted user should join as nil, got %+v", out[0].User)
	}
	if out[0].Jadwal == nil || out[0].Jadwal.Code != "JDW009" {
		t.Fatalf("schedule join missing: %+v", out[0].Jadwal)
	}
	if out[0].Snapshot.User.Name != "Budi" {
		t.Fatalf("snapshot must survive a deleted user")
	}
}

func TestBookingStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "revenue", "passengers"}).
			AddRow("pending", 3, int64(300000), 4).
			AddRow("confirmed", 2, int64(226000), 2).
			AddRow("completed", 1, int64(90000), 1).
			AddRow("cancelled", 5, int64(500000), 5))

	stats, err := BookingRepository{DB: db}.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	if stats.Total != 11 {
		t.Fatalf("total: %d", stats.Total)
	}
	if stats.Revenue != 316000 || stats.Seats != 3 {
		t.Fatalf("revenue should only count confirmed+completed, got %d / %d seats", stats.Revenue, stats.Seats)
	}
	if stats.ByStatus["cancelled"] != 5 {
		t.Fatalf("by status: %v", stats.ByStatus)
	}
}

func TestBookingSeatReserveConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec("INSERT INTO booking_seats").WithArgs("bk", "sc", "A1", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WithArgs("bk", "sc", "A2", now).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'sc-A2' for key 'uq_booking_seats_schedule_seat'"})

	err = BookingSeatRepository{DB: db}.Reserve(context.Background(), "bk", "sc", []string{"A1", "A2", "A3"}, now)
	if !domain.IsConflictKind(err, domain.ConflictSeatConflict) {
		t.Fatalf("expected seat conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingInsertDuplicateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'BK123' for key 'uq_bookings_code'"})

	err = BookingRepository{DB: db}.Insert(context.Background(), models.Booking{ID: "x", Code: "BK123", SeatNumbers: []string{"A1"}})
	if !domain.IsDuplicate(err) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}
