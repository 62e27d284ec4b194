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

var scheduleRowCols = []string{"id", "code", "origin", "destination", "departure_pool", "arrival_pool", "date", "time",
	"arrival_estimate", "price", "total_seats", "available_seats", "status", "created_at", "updated_at"}

func TestScheduleListFiltersAndOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM schedules WHERE origin = \\? AND date = \\? ORDER BY date ASC, time ASC").
		WithArgs("Jakarta", "2025-12-01").
		WillReturnRows(sqlmock.NewRows(scheduleRowCols).
			AddRow("6750a1b2c3d4e5f601234567", nil, "Jakarta", "Bandung", nil, nil, "2025-12-01", "08:00",
				nil, int64(100000), 20, 20, "active", now, now))

	repo := ScheduleRepository{DB: db}
	out, err := repo.List(context.Background(), models.ScheduleFilter{Origin: " Jakarta ", Date: "2025-12-01"})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(out) != 1 || out[0].AvailableSeats != 20 || out[0].Code != "" || out[0].ArrivalEstimate != nil {
		t.Fatalf("unexpected schedules %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScheduleGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM schedules WHERE id = \\?").WithArgs("6750a1b2c3d4e5f601234567").
		WillReturnRows(sqlmock.NewRows(scheduleRowCols))

	_, err = ScheduleRepository{DB: db}.GetByID(context.Background(), "6750a1b2c3d4e5f601234567")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestScheduleReserveSeatsGuard(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	id := "6750a1b2c3d4e5f601234567"
	mock.ExpectExec("UPDATE schedules SET available_seats = available_seats - \\?").
		WithArgs(2, now, id, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE schedules SET available_seats = available_seats - \\?").
		WithArgs(30, now, id, 30).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := ScheduleRepository{DB: db}
	ok, err := repo.ReserveSeats(context.Background(), id, 2, now)
	if err != nil || !ok {
		t.Fatalf("expected reservation to pass, ok=%v err=%v", ok, err)
	}
	ok, err = repo.ReserveSeats(context.Background(), id, 30, now)
	if err != nil || ok {
		t.Fatalf("expected guard to fail, ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScheduleInsertDuplicateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO schedules").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'JDW005' for key 'uq_schedules_code'"})

	now := time.Now()
	err = ScheduleRepository{DB: db}.Insert(context.Background(), models.Schedule{
		ID: "6750a1b2c3d4e5f601234567", Code: "JDW005", Origin: "A", Destination: "B",
		Date: "2025-12-01", Time: "08:00", TotalSeats: 20, AvailableSeats: 20, Status: "active",
		CreatedAt: now, UpdatedAt: now,
	})
	if !domain.IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestScheduleDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM schedules WHERE id = \\?").WithArgs("x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := (ScheduleRepository{DB: db}).Delete(context.Background(), "x"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
