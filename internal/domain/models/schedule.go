package models

import "time"

// Schedule is a single departure on a route (jadwal).
type Schedule struct {
	ID              string     `json:"id"`
	Code            string     `json:"code,omitempty"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	DeparturePool   string     `json:"departurePool,omitempty"`
	ArrivalPool     string     `json:"arrivalPool,omitempty"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	ArrivalEstimate *time.Time `json:"arrivalEstimate,omitempty"`
	Price           int64      `json:"price"`
	TotalSeats      int        `json:"totalSeats"`
	AvailableSeats  int        `json:"availableSeats"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ScheduleFilter is an exact-match filter; empty fields are ignored.
type ScheduleFilter struct {
	Code          string
	Origin        string
	Destination   string
	Date          string
	Time          string
	Status        string
	DeparturePool string
	ArrivalPool   string
}

// SeatMap is the seat grid of one schedule.
type SeatMap struct {
	ScheduleID     string    `json:"scheduleId"`
	Columns        int       `json:"columns"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"availableSeats"`
	Rows           [][]Seat  `json:"rows"`
	Taken          []string  `json:"taken"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

type Seat struct {
	Number string `json:"number"`
	Taken  bool   `json:"taken"`
}
