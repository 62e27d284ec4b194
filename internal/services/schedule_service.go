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
	"tiketbus/internal/repositories"
	"tiketbus/internal/utils"
)

// ScheduleInput is a create or PATCH payload; nil means "not provided".
type ScheduleInput struct {
	Code            *string
	Origin          *string
	Destination     *string
	DeparturePool   *string
	ArrivalPool     *string
	Date            *string
	Time            *string
	ArrivalEstimate *string
	Price           *int64
	TotalSeats      *int
	Status          *string
}

type ScheduleService struct {
	DB        *sql.DB
	Schedules repositories.ScheduleRepository
	Seats     repositories.BookingSeatRepository
	Cache     SeatMapStore
	Events    EventPublisher
}

func (s ScheduleService) List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error) {
	f.Code = utils.NormalizeCode(f.Code)
	out, err := s.Schedules.List(ctx, f)
	return out, internal(err)
}

// Get resolves a system id or a human code.
func (s ScheduleService) Get(ctx context.Context, ref string) (models.Schedule, error) {
	sc, err := getSchedule(ctx, s.Schedules, ref)
	return sc, internal(err)
}

func getSchedule(ctx context.Context, repo repositories.ScheduleRepository, ref string) (models.Schedule, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Schedule{}, domain.NotFoundError{Resource: "jadwal"}
	}
	if utils.IsSystemID(ref) {
		return repo.GetByID(ctx, ref)
	}
	return repo.GetByCode(ctx, utils.NormalizeCode(ref))
}

func (s ScheduleService) Create(ctx context.Context, in ScheduleInput) (models.Schedule, error) {
	now := utils.NowUTC()
	sc := models.Schedule{
		ID:         utils.NewID(),
		TotalSeats: domain.DefaultTotalSeats,
		Status:     string(domain.ScheduleActive),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	errs := in.applyTo(&sc)
	if in.Price == nil {
		errs = append(errs, domain.FieldError{Field: "price", Message: "harga wajib diisi"})
	}
	errs = append(errs, validateSchedule(sc)...)
	if len(errs) > 0 {
		return sc, domain.ValidationError{Msg: "data jadwal tidak valid", Fields: dedupeFieldErrors(errs)}
	}
	sc.AvailableSeats = sc.TotalSeats

	if err := s.Schedules.Insert(ctx, sc); err != nil {
		return sc, internal(err)
	}
	utils.LogEvent(requestID(ctx), "jadwal", "create", fmt.Sprintf("id=%s code=%s seats=%d", sc.ID, sc.Code, sc.TotalSeats))
	publish(ctx, s.Events, events.TopicScheduleChanged, events.ScheduleEvent{ScheduleID: sc.ID, Action: "created", OccurredAt: now})
	return sc, nil
}

// Update merges the patch, re-validates, and shifts available seats by the
// change in total seats.
func (s ScheduleService) Update(ctx context.Context, ref string, in ScheduleInput) (models.Schedule, error) {
	var out models.Schedule
	err := intdb.WithTx(ctx, dbOr(s.DB), func(tx *sql.Tx) error {
		repo := s.Schedules.WithTx(tx)
		cur, err := getSchedule(ctx, repo, ref)
		if err != nil {
			return err
		}
		if cur, err = repo.GetForUpdate(ctx, cur.ID); err != nil {
			return err
		}

		merged := cur
		errs := in.applyTo(&merged)
		if in.TotalSeats != nil {
			held := cur.TotalSeats - cur.AvailableSeats
			merged.AvailableSeats = merged.TotalSeats - held
			if merged.AvailableSeats < 0 {
				errs = append(errs, domain.FieldError{
					Field:   "total_seats",
					Message: fmt.Sprintf("total kursi tidak boleh kurang dari kursi terpesan (%d)", held),
				})
			}
		}
		errs = append(errs, validateSchedule(merged)...)
		if len(errs) > 0 {
			return domain.ValidationError{Msg: "data jadwal tidak valid", Fields: dedupeFieldErrors(errs)}
		}

		merged.UpdatedAt = utils.NowUTC()
		if err := repo.Update(ctx, merged); err != nil {
			return err
		}
		out = merged
		return nil
	})
	if err != nil {
		return out, internal(err)
	}
	invalidate(ctx, s.Cache, out.ID)
	utils.LogEvent(requestID(ctx), "jadwal", "update", "id="+out.ID)
	publish(ctx, s.Events, events.TopicScheduleChanged, events.ScheduleEvent{ScheduleID: out.ID, Action: "updated", OccurredAt: out.UpdatedAt})
	return out, nil
}

// Delete removes the schedule and its seat reservations. Bookings keep their snapshot.
func (s ScheduleService) Delete(ctx context.Context, ref string) error {
	var id string
	err := intdb.WithTx(ctx, dbOr(s.DB), func(tx *sql.Tx) error {
		repo := s.Schedules.WithTx(tx)
		sc, err := getSchedule(ctx, repo, ref)
		if err != nil {
			return err
		}
		id = sc.ID
		if err := s.Seats.WithTx(tx).DeleteBySchedule(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return internal(err)
	}
	invalidate(ctx, s.Cache, id)
	utils.LogEvent(requestID(ctx), "jadwal", "delete", "id="+id)
	publish(ctx, s.Events, events.TopicScheduleChanged, events.ScheduleEvent{ScheduleID: id, Action: "deleted", OccurredAt: utils.NowUTC()})
	return nil
}

// SeatMap returns the 5-column grid with held seats marked.
func (s ScheduleService) SeatMap(ctx context.Context, ref string) (models.SeatMap, error) {
	sc, err := s.Get(ctx, ref)
	if err != nil {
		return models.SeatMap{}, err
	}
	load := func(ctx context.Context) (models.SeatMap, error) {
		fresh, err := s.Schedules.GetByID(ctx, sc.ID)
		if err != nil {
			return models.SeatMap{}, err
		}
		taken, err := s.Seats.TakenSeats(ctx, sc.ID)
		if err != nil {
			return models.SeatMap{}, err
		}
		return BuildSeatMap(fresh, taken, utils.NowUTC()), nil
	}
	if s.Cache == nil {
		m, err := load(ctx)
		return m, internal(err)
	}
	m, err := s.Cache.GetOrLoad(ctx, sc.ID, load)
	return m, internal(err)
}

// BuildSeatMap lays out total seats row by row.
func BuildSeatMap(sc models.Schedule, taken []string, now time.Time) models.SeatMap {
	held := make(map[string]bool, len(taken))
	for _, t := range taken {
		held[t] = true
	}
	m := models.SeatMap{
		ScheduleID:     sc.ID,
		Columns:        domain.SeatColumns,
		TotalSeats:     sc.TotalSeats,
		AvailableSeats: sc.AvailableSeats,
		Rows:           [][]models.Seat{},
		Taken:          []string{},
		GeneratedAt:    now,
	}
	var row []models.Seat
	for i, label := range domain.SeatLabels(sc.TotalSeats) {
		row = append(row, models.Seat{Number: label, Taken: held[label]})
		if held[label] {
			m.Taken = append(m.Taken, label)
		}
		if (i+1)%domain.SeatColumns == 0 {
			m.Rows = append(m.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		m.Rows = append(m.Rows, row)
	}
	return m
}

// applyTo copies provided fields onto sc and reports parse errors.
func (in ScheduleInput) applyTo(sc *models.Schedule) []domain.FieldError {
	errs := []domain.FieldError{}
	if in.Code != nil {
		sc.Code = utils.NormalizeCode(*in.Code)
	}
	if in.Origin != nil {
		sc.Origin = utils.NormalizeSpace(*in.Origin)
	}
	if in.Destination != nil {
		sc.Destination = utils.NormalizeSpace(*in.Destination)
	}
	if in.DeparturePool != nil {
		sc.DeparturePool = utils.NormalizeSpace(*in.DeparturePool)
	}
	if in.ArrivalPool != nil {
		sc.ArrivalPool = utils.NormalizeSpace(*in.ArrivalPool)
	}
	if in.Date != nil {
		sc.Date = strings.TrimSpace(*in.Date)
	}
	if in.Time != nil {
		sc.Time = strings.TrimSpace(*in.Time)
	}
	if in.ArrivalEstimate != nil {
		raw := strings.TrimSpace(*in.ArrivalEstimate)
		if raw == "" {
			sc.ArrivalEstimate = nil
		} else if t, err := utils.ParseFlexibleTime(raw); err != nil {
			errs = append(errs, domain.FieldError{Field: "arrival_estimate", Message: "format estimasi tiba tidak valid"})
		} else {
			sc.ArrivalEstimate = &t
		}
	}
	if in.Price != nil {
		sc.Price = *in.Price
	}
	if in.TotalSeats != nil {
		sc.TotalSeats = *in.TotalSeats
	}
	if in.Status != nil {
		sc.Status = strings.ToLower(strings.TrimSpace(*in.Status))
	}
	return errs
}

func validateSchedule(sc models.Schedule) []domain.FieldError {
	errs := []domain.FieldError{}
	if sc.Origin == "" {
		errs = append(errs, domain.FieldError{Field: "origin", Message: "asal wajib diisi"})
	}
	if sc.Destination == "" {
		errs = append(errs, domain.FieldError{Field: "destination", Message: "tujuan wajib diisi"})
	}
	if !utils.IsDate(sc.Date) {
		errs = append(errs, domain.FieldError{Field: "date", Message: "tanggal wajib format YYYY-MM-DD"})
	}
	if !utils.IsClock(sc.Time) {
		errs = append(errs, domain.FieldError{Field: "time", Message: "jam wajib format HH:MM"})
	}
	if sc.Price < 0 {
		errs = append(errs, domain.FieldError{Field: "price", Message: "harga tidak boleh negatif"})
	}
	if sc.TotalSeats <= 0 {
		errs = append(errs, domain.FieldError{Field: "total_seats", Message: "total kursi harus lebih dari 0"})
	}
	if !domain.ScheduleStatus(sc.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "status harus active, completed, atau cancelled"})
	}
	if sc.ArrivalEstimate != nil && utils.IsDate(sc.Date) && utils.IsClock(sc.Time) {
		dep, err := utils.CombineDateClock(sc.Date, sc.Time)
		if err == nil && !sc.ArrivalEstimate.After(dep) {
			errs = append(errs, domain.FieldError{Field: "arrival_estimate", Message: "estimasi tiba harus setelah keberangkatan"})
		}
	}
	return errs
}

// dedupeFieldErrors keeps the first message per field.
func dedupeFieldErrors(in []domain.FieldError) []domain.FieldError {
	seen := map[string]bool{}
	out := make([]domain.FieldError, 0, len(in))
	for _, e := range in {
		if seen[e.Field] {
			continue
		}
		seen[e.Field] = true
		out = append(out, e)
	}
	return out
}
