package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	testUserID     = "6750a1b2c3d4e5f601234567"
	testScheduleID = "6750a1b2c3d4e5f60123bbbb"
	testBookingID  = "6750a1b2c3d4e5f60123aaaa"
)

var (
	testNow = time.Date(2025, 11, 17, 7, 0, 0, 0, time.UTC)

	scheduleCols = []string{"id", "code", "origin", "destination", "departure_pool", "arrival_pool", "date", "time",
		"arrival_estimate", "price", "total_seats", "available_seats", "status", "created_at", "updated_at"}
	userCols    = []string{"id", "name", "email", "password_hash", "phone", "role", "created_at", "updated_at"}
	bookingCols = []string{"id", "code", "user_id", "schedule_id", "user_name", "user_email", "user_phone",
		"schedule_code", "origin", "destination", "travel_date", "travel_time", "unit_price",
		"passenger_count", "seat_numbers", "total_price", "status", "booked_at", "created_at", "updated_at"}
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func scheduleRow(status string, price int64, total, available int) *sqlmock.Rows {
	return sqlmock.NewRows(scheduleCols).AddRow(testScheduleID, "JDW001", "Jakarta", "Bandung", nil, nil,
		"2025-12-01", "08:00", nil, price, total, available, status, testNow, testNow)
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows(userCols).AddRow(testUserID, "Budi Santoso", "budi@example.com", "$2a$10$hash",
		"0812", "user", testNow, testNow)
}

func bookingRow(status string, seats string, passengers int) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).AddRow(testBookingID, "BK123", testUserID, testScheduleID,
		"Budi Santoso", "budi@example.com", "0812", "JDW001", "Jakarta", "Bandung", "2025-12-01", "08:00",
		int64(100000), passengers, seats, int64(100000)*int64(passengers), status, testNow, testNow, testNow)
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
