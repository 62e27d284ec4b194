package domain

import "strings"

// BookingStatus is the single canonical lifecycle field of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s BookingStatus) String() string { return string(s) }

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// RestoresSeats reports whether seats go back to the schedule when a booking
// in this status is cancelled or deleted.
func (s BookingStatus) RestoresSeats() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Transition returns target when the move is legal, otherwise an
// InvalidStatusTransition conflict.
func (s BookingStatus) Transition(target BookingStatus) (BookingStatus, error) {
	if !target.IsValid() {
		return s, ValidationError{Field: "status", Msg: "status tidak dikenal: " + string(target)}
	}
	if !s.CanTransitionTo(target) {
		return s, InvalidStatusTransition(s, target)
	}
	return target, nil
}

// PaymentStatus derives the legacy status_pembayaran value.
func (s BookingStatus) PaymentStatus() string {
	switch s {
	case StatusConfirmed, StatusCompleted:
		return "success"
	case StatusCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", ValidationError{Field: "status", Msg: "status harus salah satu dari pending, confirmed, completed, cancelled"}
	}
	return s, nil
}

// StatusFromPayment maps a legacy status_pembayaran input onto the canonical status.
func StatusFromPayment(raw string) (BookingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success":
		return StatusConfirmed, nil
	case "cancelled":
		return StatusCancelled, nil
	case "pending":
		return StatusPending, nil
	default:
		return "", ValidationError{Field: "status_pembayaran", Msg: "status_pembayaran harus salah satu dari pending, success, cancelled"}
	}
}

// StatusesForPayment lists the canonical statuses a legacy payment filter covers.
func StatusesForPayment(raw string) []BookingStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success":
		return []BookingStatus{StatusConfirmed, StatusCompleted}
	case "cancelled":
		return []BookingStatus{StatusCancelled}
	case "pending":
		return []BookingStatus{StatusPending}
	default:
		return nil
	}
}

// ScheduleStatus is the lifecycle of a schedule.
type ScheduleStatus string

const (
	ScheduleActive    ScheduleStatus = "active"
	ScheduleCompleted ScheduleStatus = "completed"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

func (s ScheduleStatus) IsValid() bool {
	switch s {
	case ScheduleActive, ScheduleCompleted, ScheduleCancelled:
		return true
	}
	return false
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
