package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'A1' for key 'booking_seats.uq_booking_seats_schedule_seat'"}
	if !IsDuplicateKey(fmt.Errorf("wrap: %w", dup)) {
		t.Fatalf("expected wrapped 1062 to be duplicate")
	}
	if IsDuplicateKey(&mysql.MySQLError{Number: 1452}) {
		t.Fatalf("1452 is not a duplicate")
	}
	if IsDuplicateKey(errors.New("boom")) {
		t.Fatalf("plain error is not a duplicate")
	}
	if got := DuplicateKeyName(dup); got != "uq_booking_seats_schedule_seat" {
		t.Fatalf("unexpected key name %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(3); got != "?, ?, ?" {
		t.Fatalf("got %q", got)
	}
	if got := Placeholders(0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestEnsureSchemaCreatesMissingTables(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	tableQuery := "SELECT table_name\\s+FROM information_schema.tables"
	mock.ExpectQuery(tableQuery).WithArgs("schedules").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("schedules"))
	mock.ExpectQuery(tableQuery).WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(tableQuery).WithArgs("bookings").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("bookings"))
	mock.ExpectQuery(tableQuery).WithArgs("booking_seats").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS booking_seats").WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := EnsureSchema(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(created) != 2 || created[0] != "users" || created[1] != "booking_seats" {
		t.Fatalf("unexpected created list %v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	want := errors.New("stop")
	got := WithTx(context.Background(), conn, func(tx *sql.Tx) error { return want })
	if !errors.Is(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
