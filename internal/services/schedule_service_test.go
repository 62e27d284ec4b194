package services

import (
	"context"
	"database/sql"
	"testing"

	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newScheduleService(db *sql.DB) ScheduleService {
	return ScheduleService{
		DB:        db,
		Schedules: repositories.ScheduleRepository{DB: db},
		Seats:     repositories.BookingSeatRepository{DB: db},
	}
}

func TestScheduleCreateThenFilter(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO schedules").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM schedules WHERE origin = \\? AND destination = \\? ORDER BY date ASC, time ASC").
		WithArgs("Jakarta", "Bandung").
		WillReturnRows(scheduleRow("active", 100000, 20, 20))

	svc := newScheduleService(db)
	created, err := svc.Create(context.Background(), ScheduleInput{
		Origin:      strPtr("Jakarta"),
		Destination: strPtr("Bandung"),
		Date:        strPtr("2025-12-01"),
		Time:        strPtr("08:00"),
		Price:       int64Ptr(100000),
		TotalSeats:  intPtr(20),
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if created.AvailableSeats != created.TotalSeats || created.Status != "active" {
		t.Fatalf("unexpected created schedule: %+v", created)
	}

	list, err := svc.List(context.Background(), models.ScheduleFilter{Origin: "Jakarta", Destination: "Bandung"})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 1 || list[0].Price != 100000 || list[0].AvailableSeats != 20 {
		t.Fatalf("unexpected list: %+v", list)
	}
	expectMet(t, mock)
}

func TestScheduleCreateDefaultsSeats(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO schedules").WillReturnResult(sqlmock.NewResult(0, 1))

	sc, err := newScheduleService(db).Create(context.Background(), ScheduleInput{
		Code:        strPtr(" jdw010 "),
		Origin:      strPtr("Bandung"),
		Destination: strPtr("Jakarta"),
		Date:        strPtr("2025-12-02"),
		Time:        strPtr("09:30"),
		Price:       int64Ptr(0),
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if sc.TotalSeats != domain.DefaultTotalSeats || sc.AvailableSeats != domain.DefaultTotalSeats {
		t.Fatalf("expected default seats, got %d/%d", sc.TotalSeats, sc.AvailableSeats)
	}
	if sc.Code != "JDW010" {
		t.Fatalf("code not normalized: %q", sc.Code)
	}
	expectMet(t, mock)
}

func TestScheduleCreateValidation(t *testing.T) {
	_, err := newScheduleService(nil).Create(context.Background(), ScheduleInput{
		Origin:          strPtr("Jakarta"),
		Date:            strPtr("01-12-2025"),
		Time:            strPtr("8"),
		TotalSeats:      intPtr(0),
		ArrivalEstimate: strPtr("kemarin"),
	})
	ve, ok := err.(domain.ValidationError)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range ve.FieldErrors() {
		fields[f.Field] = true
	}
	for _, want := range []string{"destination", "date", "time", "price", "total_seats", "arrival_estimate"} {
		if !fields[want] {
			t.Fatalf("missing field error %s in %+v", want, ve.FieldErrors())
		}
	}
}

func TestScheduleUpdateShiftsAvailableSeats(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules WHERE id = \\? LIMIT 1").WillReturnRows(scheduleRow("active", 100000, 20, 18))
	mock.ExpectQuery("FROM schedules WHERE id = \\? FOR UPDATE").WillReturnRows(scheduleRow("active", 100000, 20, 18))
	mock.ExpectExec("UPDATE schedules SET code = \\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sc, err := newScheduleService(db).Update(context.Background(), testScheduleID, ScheduleInput{TotalSeats: intPtr(30)})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if sc.TotalSeats != 30 || sc.AvailableSeats != 28 {
		t.Fatalf("expected 30/28, got %d/%d", sc.TotalSeats, sc.AvailableSeats)
	}
	expectMet(t, mock)
}

func TestScheduleUpdateBelowHeldSeats(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules WHERE code = \\? LIMIT 1").WithArgs("JDW001").
		WillReturnRows(scheduleRow("active", 100000, 20, 10))
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(scheduleRow("active", 100000, 20, 10))
	mock.ExpectRollback()

	_, err := newScheduleService(db).Update(context.Background(), "jdw001", ScheduleInput{TotalSeats: intPtr(5)})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	expectMet(t, mock)
}

func TestScheduleDeleteRemovesSeatRows(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules WHERE id = \\? LIMIT 1").WillReturnRows(scheduleRow("active", 100000, 20, 18))
	mock.ExpectExec("DELETE FROM booking_seats WHERE schedule_id = \\?").WithArgs(testScheduleID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM schedules WHERE id = \\?").WithArgs(testScheduleID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := newScheduleService(db).Delete(context.Background(), testScheduleID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	expectMet(t, mock)
}

func TestScheduleSeatMap(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM schedules WHERE id = \\? LIMIT 1").WillReturnRows(scheduleRow("active", 100000, 12, 10))
	mock.ExpectQuery("FROM schedules WHERE id = \\? LIMIT 1").WillReturnRows(scheduleRow("active", 100000, 12, 10))
	mock.ExpectQuery("SELECT seat_number FROM booking_seats").WithArgs(testScheduleID).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("A2").AddRow("C1"))

	m, err := newScheduleService(db).SeatMap(context.Background(), testScheduleID)
	if err != nil {
		t.Fatalf("seat map error: %v", err)
	}
	if len(m.Rows) != 3 || len(m.Rows[0]) != 5 || len(m.Rows[2]) != 2 {
		t.Fatalf("unexpected grid shape: %+v", m.Rows)
	}
	if !m.Rows[0][1].Taken || m.Rows[0][0].Taken || !m.Rows[2][0].Taken {
		t.Fatalf("taken flags wrong: %+v", m.Rows)
	}
	if len(m.Taken) != 2 {
		t.Fatalf("expected 2 taken seats, got %v", m.Taken)
	}
	expectMet(t, mock)
}
