package handlers

import (
	"context"

	"tiketbus/internal/domain/models"
	"tiketbus/internal/services"
)

type ScheduleAPI interface {
	List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error)
	Get(ctx context.Context, ref string) (models.Schedule, error)
	Create(ctx context.Context, in services.ScheduleInput) (models.Schedule, error)
	Update(ctx context.Context, ref string, in services.ScheduleInput) (models.Schedule, error)
	Delete(ctx context.Context, ref string) error
	SeatMap(ctx context.Context, ref string) (models.SeatMap, error)
}

type BookingAPI interface {
	Create(ctx context.Context, in services.CreateBookingInput) (models.BookingCreated, error)
	Get(ctx context.Context, ref string) (models.Booking, error)
	UpdateStatus(ctx context.Context, ref string, change services.StatusChange) (models.Booking, error)
	Confirm(ctx context.Context, ref string) (models.Booking, error)
	Cancel(ctx context.Context, ref string) (models.Booking, error)
	Complete(ctx context.Context, ref string) (models.Booking, error)
	Update(ctx context.Context, ref string, p services.BookingPatch) (models.Booking, error)
	Delete(ctx context.Context, ref string) error
}

type BookingQueryAPI interface {
	List(ctx context.Context, p services.BookingListParams) (services.BookingList, error)
	Stats(ctx context.Context) (models.BookingStats, error)
}

type TicketAPI interface {
	ETicket(ctx context.Context, ref string) ([]byte, string, error)
}

type UserAPI interface {
	List(ctx context.Context, email string) ([]models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, in services.UserInput) (models.User, error)
	Update(ctx context.Context, id string, in services.UserInput) (models.User, error)
	Delete(ctx context.Context, id string) error
}

type LoginAPI interface {
	Login(ctx context.Context, email, password string) (services.LoginResult, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds the services behind every /api route.
type Handler struct {
	Schedules ScheduleAPI
	Bookings  BookingAPI
	Queries   BookingQueryAPI
	Tickets   TicketAPI
	Users     UserAPI
	Auth      LoginAPI
	DB        Pinger

	// EnforceAdminAuth makes role assignment admin-only.
	EnforceAdminAuth bool
}
