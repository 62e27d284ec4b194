package models

import "time"

// UserSnapshot is the user data frozen into a booking at creation.
type UserSnapshot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ScheduleSnapshot is the schedule data frozen into a booking at creation.
type ScheduleSnapshot struct {
	Code        string `json:"code,omitempty"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Price       int64  `json:"price"`
}

// Snapshot is owned by the booking and never refreshed.
type Snapshot struct {
	User     UserSnapshot     `json:"user"`
	Schedule ScheduleSnapshot `json:"schedule"`
}

// SnapshotOf builds a snapshot from whichever sources were found.
func SnapshotOf(u *User, s *Schedule) Snapshot {
	var snap Snapshot
	if u != nil {
		snap.User = UserSnapshot{Name: u.Name, Email: u.Email, Phone: u.Phone}
	}
	if s != nil {
		snap.Schedule = ScheduleSnapshot{
			Code:        s.Code,
			Origin:      s.Origin,
			Destination: s.Destination,
			Date:        s.Date,
			Time:        s.Time,
			Price:       s.Price,
		}
	}
	return snap
}

type Booking struct {
	ID             string    `json:"id"`
	Code           string    `json:"code,omitempty"`
	UserID         string    `json:"userId"`
	ScheduleID     string    `json:"scheduleId"`
	Snapshot       Snapshot  `json:"snapshot"`
	PassengerCount int       `json:"passengerCount"`
	SeatNumbers    []string  `json:"seatNumbers"`
	TotalPrice     int64     `json:"totalPrice"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"status_pembayaran"`
	BookedAt       time.Time `json:"bookedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BookingCreated is the create result: the booking plus soft-failure warnings.
type BookingCreated struct {
	Booking
	Warnings []string `json:"warnings"`
}

// BookingFilter drives the listing query. Empty fields are ignored.
type BookingFilter struct {
	Code       string
	Statuses   []string
	UserID     string
	ScheduleID string
	BookedFrom *time.Time
	BookedTo   *time.Time
}

// BookingUserRef / BookingScheduleRef are the joined shapes returned in join mode.
type BookingUserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BookingScheduleRef struct {
	ID          string `json:"id"`
	Code        string `json:"code,omitempty"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Price       int64  `json:"price"`
}

// BookingJoined is a booking with live user/schedule rows (nil when gone).
type BookingJoined struct {
	Booking
	User   *BookingUserRef     `json:"user"`
	Jadwal *BookingScheduleRef `json:"jadwal"`
}

// BookingStats is the admin summary.
type BookingStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Revenue  int64          `json:"revenue"`
	Seats    int            `json:"seatsSold"`
}
