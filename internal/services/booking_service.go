package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "tiketbus/internal/db"
	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/events"
	"tiketbus/internal/metrics"
	"tiketbus/internal/repositories"
	"tiketbus/internal/utils"
)

// CreateBookingInput is the canonical create payload after legacy aliases were mapped.
type CreateBookingInput struct {
	UserID         string
	ScheduleID     string
	PassengerCount *int
	SeatNumbers    []string
	TotalPrice     *int64
	Code           string
}

// StatusChange carries status and/or the legacy status_pembayaran. Status wins.
type StatusChange struct {
	Status        *string
	PaymentStatus *string
}

// BookingPatch is the generic PATCH payload; SeatNumbers nil means "not provided".
type BookingPatch struct {
	Code           *string
	Status         *string
	PaymentStatus  *string
	SeatNumbers    []string
	PassengerCount *int
}

// BookingService runs the booking lifecycle. Every inventory change happens
// in one transaction: conditional seat decrement plus the unique seat index.
type BookingService struct {
	DB         *sql.DB
	Bookings   repositories.BookingRepository
	Seats      repositories.BookingSeatRepository
	Schedules  repositories.ScheduleRepository
	Users      repositories.UserRepository
	StrictRefs bool
	Cache      SeatMapStore
	Events     EventPublisher
}

func (s BookingService) Get(ctx context.Context, ref string) (models.Booking, error) {
	b, err := getBooking(ctx, s.Bookings, ref)
	return b, internal(err)
}

func getBooking(ctx context.Context, repo repositories.BookingRepository, ref string) (models.Booking, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Booking{}, domain.NotFoundError{Resource: "pemesanan"}
	}
	if utils.IsSystemID(ref) {
		return repo.GetByID(ctx, ref)
	}
	return repo.GetByCode(ctx, utils.NormalizeCode(ref))
}

// lockBooking resolves ref inside tx and locks the row.
func lockBooking(ctx context.Context, repo repositories.BookingRepository, ref string) (models.Booking, error) {
	id := strings.TrimSpace(ref)
	if !utils.IsSystemID(id) {
		b, err := getBooking(ctx, repo, ref)
		if err != nil {
			return b, err
		}
		id = b.ID
	}
	return repo.GetForUpdate(ctx, id)
}

func (s BookingService) Create(ctx context.Context, in CreateBookingInput) (models.BookingCreated, error) {
	rid := requestID(ctx)
	out := models.BookingCreated{Warnings: []string{}}

	seats := utils.NormalizeSeats(in.SeatNumbers)
	n := len(seats)
	if in.PassengerCount != nil {
		n = *in.PassengerCount
	}

	errs := []domain.FieldError{}
	if !utils.IsSystemID(in.UserID) {
		errs = append(errs, domain.FieldError{Field: "user", Message: "user id tidak valid"})
	}
	if !utils.IsSystemID(in.ScheduleID) {
		errs = append(errs, domain.FieldError{Field: "jadwal", Message: "jadwal id tidak valid"})
	}
	if n < 1 {
		errs = append(errs, domain.FieldError{Field: "jumlah_penumpang", Message: "jumlah penumpang minimal 1"})
	}
	if len(seats) == 0 {
		errs = append(errs, domain.FieldError{Field: "nomor_kursi", Message: "nomor kursi wajib diisi"})
	} else if dups := utils.DuplicateSeats(seats); len(dups) > 0 {
		errs = append(errs, domain.FieldError{Field: "nomor_kursi", Message: "kursi dipilih lebih dari sekali: " + strings.Join(dups, ", ")})
	}
	if in.TotalPrice != nil && *in.TotalPrice < 0 {
		errs = append(errs, domain.FieldError{Field: "total_harga", Message: "total harga tidak boleh negatif"})
	}
	if len(errs) > 0 {
		return out, domain.ValidationError{Msg: "data pemesanan tidak valid", Fields: errs}
	}
	if len(seats) != n {
		return out, domain.SeatCountMismatch(n, len(seats))
	}

	var user *models.User
	if u, err := s.Users.GetByID(ctx, in.UserID); err == nil {
		user = &u
	} else if domain.IsNotFound(err) {
		if s.StrictRefs {
			return out, domain.NotFoundError{Resource: "user"}
		}
		out.Warnings = append(out.Warnings, "user tidak ditemukan")
		utils.LogEvent(rid, "pemesanan", "create_warning", "user tidak ditemukan id="+in.UserID)
	} else {
		return out, internal(err)
	}

	var schedule *models.Schedule
	if sc, err := s.Schedules.GetByID(ctx, in.ScheduleID); err == nil {
		schedule = &sc
	} else if domain.IsNotFound(err) {
		if s.StrictRefs {
			return out, domain.NotFoundError{Resource: "jadwal"}
		}
		out.Warnings = append(out.Warnings, "jadwal tidak ditemukan")
		utils.LogEvent(rid, "pemesanan", "create_warning", "jadwal tidak ditemukan id="+in.ScheduleID)
	} else {
		return out, internal(err)
	}

	total := int64(0)
	if schedule != nil {
		if schedule.Status != string(domain.ScheduleActive) {
			return out, domain.ValidationError{Field: "jadwal", Msg: "jadwal tidak aktif (" + schedule.Status + ")"}
		}
		if err := domain.ValidateSeats(seats, schedule.TotalSeats); err != nil {
			return out, err
		}
		total = schedule.Price * int64(n)
		if in.TotalPrice != nil && *in.TotalPrice != total {
			utils.LogEvent(rid, "pemesanan", "total_mismatch",
				fmt.Sprintf("caller=%d computed=%d jadwal=%s", *in.TotalPrice, total, schedule.ID))
		}
	} else {
		if err := domain.ValidateSeats(seats, 0); err != nil {
			return out, err
		}
		if in.TotalPrice != nil {
			total = *in.TotalPrice
		}
		out.Warnings = append(out.Warnings, "total harga tidak diverifikasi terhadap jadwal")
	}

	now := utils.NowUTC()
	b := models.Booking{
		ID:             utils.NewID(),
		Code:           utils.NormalizeCode(in.Code),
		UserID:         in.UserID,
		ScheduleID:     in.ScheduleID,
		Snapshot:       models.SnapshotOf(user, schedule),
		PassengerCount: n,
		SeatNumbers:    seats,
		TotalPrice:     total,
		Status:         domain.StatusPending.String(),
		BookedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.PaymentStatus = domain.StatusPending.PaymentStatus()

	err := intdb.WithTx(ctx, dbOr(s.DB), func(tx *sql.Tx) error {
		if schedule != nil {
			schedules := s.Schedules.WithTx(tx)
			ok, err := schedules.ReserveSeats(ctx, schedule.ID, n, now)
			if err != nil {
				return err
			}
			if !ok {
				available, err := schedules.AvailableSeats(ctx, schedule.ID)
				if err != nil {
					return err
				}
				return domain.InsufficientSeats(n, available)
			}
		}
		if err := s.Bookings.WithTx(tx).Insert(ctx, b); err != nil {
			return err
		}
		return s.Seats.WithTx(tx).Reserve(ctx, b.ID, b.ScheduleID, seats, now)
	})
	if err != nil {
		s.rejected(rid, "create", err)
		return out, internal(err)
	}

	out.Booking = b
	metrics.BookingEvent("created")
	metrics.SeatsReserved(n)
	invalidate(ctx, s.Cache, b.ScheduleID)
	utils.LogEvent(rid, "pemesanan", "create",
		fmt.Sprintf("id=%s jadwal=%s seats=%s total=%d", b.ID, b.ScheduleID, utils.JoinSeatList(seats), total))
	publish(ctx, s.Events, events.TopicBookingCreated, events.BookingEvent{
		BookingID: b.ID, Code: b.Code, ScheduleID: b.ScheduleID, To: b.Status, Seats: seats, OccurredAt: now,
	})
	return out, nil
}

// UpdateStatus applies status (or the legacy status_pembayaran) through the state machine.
func (s BookingService) UpdateStatus(ctx context.Context, ref string, change StatusChange) (models.Booking, error) {
	target, err := change.target()
	if err != nil {
		return models.Booking{}, err
	}
	return s.transition(ctx, ref, target)
}

func (s BookingService) Confirm(ctx context.Context, ref string) (models.Booking, error) {
	return s.transition(ctx, ref, domain.StatusConfirmed)
}

func (s BookingService) Cancel(ctx context.Context, ref string) (models.Booking, error) {
	return s.transition(ctx, ref, domain.StatusCancelled)
}

func (s BookingService) Complete(ctx context.Context, ref string) (models.Booking, error) {
	return s.transition(ctx, ref, domain.StatusCompleted)
}

func (c StatusChange) target() (domain.BookingStatus, error) {
	if c.Status != nil && strings.TrimSpace(*c.Status) != "" {
		return domain.ParseBookingStatus(*c.Status)
	}
	if c.PaymentStatus != nil && strings.TrimSpace(*c.PaymentStatus) != "" {
		return domain.StatusFromPayment(*c.PaymentStatus)
	}
	return "", domain.ValidationError{Field: "status", Msg: "status atau status_pembayaran wajib diisi"}
}

func (s BookingService) transition(ctx context.Context, ref string, target domain.BookingStatus) (models.Booking, error) {
	rid := requestID(ctx)
	var (
		out      models.Booking
		from     domain.BookingStatus
		released int
	)
	err := intdb.WithTx(ctx, dbOr(s.DB), func(tx *sql.Tx) error {
		bookings := s.Bookings.WithTx(tx)
		b, err := lockBooking(ctx, bookings, ref)
		if err != nil {
			return err
		}
		from = domain.BookingStatus(b.Status)
		next, err := from.Transition(target)
		if err != nil {
			return err
		}
		if next == domain.StatusCancelled && from.RestoresSeats() {
			if released, err = s.releaseSeats(ctx, tx, b); err != nil {
				return err
			}
		}
		b.Status = next.String()
		b.PaymentStatus = next.PaymentStatus()
		b.UpdatedAt = utils.NowUTC()
		if err := bookings.Update(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		s.rejected(rid, "status", err)
		return out, internal(err)
	}

	metrics.BookingEvent(out.Status)
	metrics.SeatsReleased(released)
	invalidate(ctx, s.Cache, out.ScheduleID)
	utils.LogEvent(rid, "pemesanan", "status", fmt.Sprintf("id=%s %s->%s released=%d", out.ID, from, out.Status, released))
	publish(ctx, s.Events, events.TopicBookingStatusChanged, events.BookingEvent{
		BookingID: out.ID, Code: out.Code, ScheduleID: out.ScheduleID, From: from.String(), To: out.Status, OccurredAt: out.UpdatedAt,
	})
	return out, nil
}

// releaseSeats drops the booking's seat rows and returns that many seats to
// the schedule, capped at total_seats.
func (s BookingService) releaseSeats(ctx context.Context, tx *sql.Tx, b models.Booking) (int, error) {
	n, err := s.Seats.WithTx(tx).ReleaseByBooking(ctx, b.ID)
	if err != nil || n == 0 {
		return n, err
	}
	return n, s.Schedules.WithTx(tx).ReleaseSeats(ctx, b.ScheduleID, n, utils.NowUTC())
}

// Update applies a generic PATCH: code, status, seat reassignment.
func (s BookingService) Update(ctx context.Context, ref string, p BookingPatch) (models.Booking, error) {
	if p.Code == nil && p.Status == nil && p.PaymentStatus == nil && p.SeatNumbers == nil && p.PassengerCount == nil {
		return models.Booking{}, domain.ValidationError{Msg: "tidak ada field yang diubah"}
	}
	var target domain.BookingStatus
	if p.Status != nil || p.PaymentStatus != nil {
		t, err := StatusChange{Status: p.Status, PaymentStatus: p.PaymentStatus}.target()
		if err != nil {
			return models.Booking{}, err
		}
		target = t
	}

	rid := requestID(ctx)
	var (
		out      models.Booking
		from     domain.BookingStatus
		released int
	)
	err := intdb.WithTx(ctx, dbOr(s.DB), func(tx *sql.Tx) error {
		bookings := s.Bookings.WithTx(tx)
		b, err := lockBooking(ctx, bookings, ref)
		if err != nil {
			return err
		}
		from = domain.BookingStatus(b.Status)

		if p.PassengerCount != nil && *p.PassengerCount != b.PassengerCount {
			return domain.ValidationError{Field: "jumlah_penumpang", Msg: "jumlah penumpang tidak dapat diubah"}
		}
		if p.Code != nil {
			b.Code = utils.NormalizeCode(*p.Code)
		}
		if p.SeatNumbers != nil {
			if err := s.reassignSeats(ctx, tx, &b, utils.NormalizeSeats(p.SeatNumbers)); err != nil {
				return err
			}
		}
		if target != "" {
			cur := domain.BookingStatus(b.Status)
			next, err := cur.Transition(target)
			if err != nil {
				return err
			}
			if next == domain.StatusCancelled && cur.RestoresSeats() {
				if released, err = s.releaseSeats(ctx, tx, b); err != nil {
					return err
				}
			}
			b.Status = next.String()
			b.PaymentStatus = next.PaymentStatus()
		}
		b.UpdatedAt = utils.NowUTC()
		if err := bookings.Update(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		s.rejected(rid, "update", err)
		return out, internal(err)
	}

	metrics.BookingEvent("updated")
	metrics.SeatsReleased(released)
	invalidate(ctx, s.Cache, out.ScheduleID)
	utils.LogEvent(rid, "pemesanan", "update", fmt.Sprintf("id=%s status=%s seats=%s", out.ID, out.Status, utils.JoinSeatList(out.SeatNumbers)))
	topic := events.TopicBookingUpdated
	if out.Status != from.String() {
		topic = events.TopicBookingStatusChanged
	}
	publish(ctx, s.Events, topic, events.BookingEvent{
		BookingID: out.ID, Code: out.Code, ScheduleID: out.ScheduleID, From: from.String(), To: out.Status,
		Seats: out.SeatNumbers, OccurredAt: out.UpdatedAt,
	})
	return out, nil
}

// reassignSeats swaps the seat rows of an active booking. The count is fixed,
// so available_seats does not move.
func (s BookingService) reassignSeats(ctx context.Context, tx *sql.Tx, b *models.Booking, seats []string) error {
	if domain.BookingStatus(b.Status).IsTerminal() {
		return domain.ValidationError{Field: "nomor_kursi", Msg: "kursi hanya dapat diubah untuk pemesanan yang masih aktif"}
	}
	if len(seats) != b.PassengerCount {
		return domain.SeatCountMismatch(b.PassengerCount, len(seats))
	}
	total := 0
	if sc, err := s.Schedules.WithTx(tx).GetByID(ctx, b.ScheduleID); err == nil {
		total = sc.TotalSeats
	} else if !domain.IsNotFound(err) {
		return err
	}
	if err := domain.ValidateSeats(seats, total); err != nil {
		return err
	}
	seatRepo := s.Seats.WithTx(tx)
	if _, err := seatRepo.ReleaseByBooking(ctx, b.ID); err != nil {
		return err
	}
	if err := seatRepo.Reserve(ctx, b.ID, b.ScheduleID, seats, utils.NowUTC()); err != nil {
		return err
	}
	b.SeatNumbers = seats
	return nil
}

// Delete removes a booking. Pending/confirmed bookings give their seats back first.
func (s BookingService) Delete(ctx context.Context, ref string) error {
	rid := requestID(ctx)
	var (
		gone     models.Booking
		released int
	)
	err := intdb.WithTx(ctx, dbOr(s.DB), func(tx *sql.Tx) error {
		bookings := s.Bookings.WithTx(tx)
		b, err := lockBooking(ctx, bookings, ref)
		if err != nil {
			return err
		}
		if domain.BookingStatus(b.Status).RestoresSeats() {
			if released, err = s.releaseSeats(ctx, tx, b); err != nil {
				return err
			}
		} else if _, err := s.Seats.WithTx(tx).ReleaseByBooking(ctx, b.ID); err != nil {
			return err
		}
		gone = b
		return bookings.Delete(ctx, b.ID)
	})
	if err != nil {
		return internal(err)
	}

	metrics.BookingEvent("deleted")
	metrics.SeatsReleased(released)
	invalidate(ctx, s.Cache, gone.ScheduleID)
	utils.LogEvent(rid, "pemesanan", "delete", fmt.Sprintf("id=%s released=%d", gone.ID, released))
	publish(ctx, s.Events, events.TopicBookingDeleted, events.BookingEvent{
		BookingID: gone.ID, Code: gone.Code, ScheduleID: gone.ScheduleID, From: gone.Status, Seats: gone.SeatNumbers, OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s BookingService) rejected(rid, action string, err error) {
	for _, kind := range []string{domain.ConflictInsufficientSeats, domain.ConflictSeatConflict, domain.ConflictInvalidTransition} {
		if domain.IsConflictKind(err, kind) {
			metrics.BookingRejected(kind)
			utils.LogEvent(rid, "pemesanan", action+"_rejected", err.Error())
			return
		}
	}
}
