package db

import (
	"context"
	"fmt"
)

type tableDDL struct {
	name string
	ddl  string
}

var schema = []tableDDL{
	{"schedules", `
CREATE TABLE IF NOT EXISTS schedules (
	id CHAR(24) NOT NULL PRIMARY KEY,
	code VARCHAR(32) NULL,
	origin VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	departure_pool VARCHAR(255) NULL,
	arrival_pool VARCHAR(255) NULL,
	date CHAR(10) NOT NULL,
	time CHAR(5) NOT NULL,
	arrival_estimate DATETIME NULL,
	price BIGINT NOT NULL DEFAULT 0,
	total_seats INT NOT NULL,
	available_seats INT NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'active',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE KEY uq_schedules_code (code),
	KEY idx_schedules_route (origin, destination, date),
	CONSTRAINT chk_schedules_seats CHECK (available_seats >= 0 AND available_seats <= total_seats)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id CHAR(24) NOT NULL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	phone VARCHAR(32) NOT NULL,
	role VARCHAR(16) NOT NULL DEFAULT 'user',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE KEY uq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id CHAR(24) NOT NULL PRIMARY KEY,
	code VARCHAR(32) NULL,
	user_id CHAR(24) NOT NULL,
	schedule_id CHAR(24) NOT NULL,
	user_name VARCHAR(255) NOT NULL DEFAULT '',
	user_email VARCHAR(255) NOT NULL DEFAULT '',
	user_phone VARCHAR(32) NOT NULL DEFAULT '',
	schedule_code VARCHAR(32) NOT NULL DEFAULT '',
	origin VARCHAR(255) NOT NULL DEFAULT '',
	destination VARCHAR(255) NOT NULL DEFAULT '',
	travel_date CHAR(10) NOT NULL DEFAULT '',
	travel_time CHAR(5) NOT NULL DEFAULT '',
	unit_price BIGINT NOT NULL DEFAULT 0,
	passenger_count INT NOT NULL,
	seat_numbers VARCHAR(512) NOT NULL,
	total_price BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(16) NOT NULL DEFAULT 'pending',
	booked_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE KEY uq_bookings_code (code),
	KEY idx_bookings_user (user_id),
	KEY idx_bookings_schedule (schedule_id),
	KEY idx_bookings_status (status),
	KEY idx_bookings_booked_at (booked_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"booking_seats", `
CREATE TABLE IF NOT EXISTS booking_seats (
	id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	booking_id CHAR(24) NOT NULL,
	schedule_id CHAR(24) NOT NULL,
	seat_number VARCHAR(8) NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE KEY uq_booking_seats_schedule_seat (schedule_id, seat_number),
	KEY idx_booking_seats_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// TableNames lists the managed tables in creation order.
func TableNames() []string {
	out := make([]string, 0, len(schema))
	for _, t := range schema {
		out = append(out, t.name)
	}
	return out
}

// EnsureSchema creates any missing table and reports which ones it created.
func EnsureSchema(ctx context.Context, q DBTX) ([]string, error) {
	created := []string{}
	for _, t := range schema {
		if HasTable(ctx, q, t.name) {
			continue
		}
		if _, err := q.ExecContext(ctx, t.ddl); err != nil {
			return created, fmt.Errorf("create table %s: %w", t.name, err)
		}
		created = append(created, t.name)
	}
	return created, nil
}
