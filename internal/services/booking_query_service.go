package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/repositories"
	"tiketbus/internal/utils"
)

// BookingListParams are the raw query-string values of GET /api/pemesanan.
type BookingListParams struct {
	Code          string
	Status        string
	PaymentStatus string
	User          string
	Jadwal        string
	From          string
	To            string
	Sort          string
	Limit         string
	Page          string
	Join          bool
	Meta          bool
}

// BookingList holds either plain or joined rows. Meta is set only when requested.
type BookingList struct {
	Bookings []models.Booking
	Joined   []models.BookingJoined
	Meta     *domain.Pagination
}

// Data returns whichever row set was loaded.
func (l BookingList) Data() any {
	if l.Joined != nil {
		return l.Joined
	}
	if l.Bookings == nil {
		return []models.Booking{}
	}
	return l.Bookings
}

type BookingQueryService struct {
	Bookings repositories.BookingRepository
}

func (s BookingQueryService) List(ctx context.Context, p BookingListParams) (BookingList, error) {
	f, empty, err := p.filter()
	if err != nil {
		return BookingList{}, err
	}
	page := domain.NewPagination(atoiOr(p.Page, 1), atoiOr(p.Limit, domain.DefaultPageLimit))
	sorts := bookingSorts(p.Sort)

	out := BookingList{}
	if p.Join {
		out.Joined = []models.BookingJoined{}
	} else {
		out.Bookings = []models.Booking{}
	}
	if empty {
		if p.Meta {
			m := page.WithTotal(0)
			out.Meta = &m
		}
		return out, nil
	}

	if p.Join {
		out.Joined, err = s.Bookings.ListJoined(ctx, f, sorts, page)
	} else {
		out.Bookings, err = s.Bookings.List(ctx, f, sorts, page)
	}
	if err != nil {
		return out, internal(err)
	}

	if p.Meta {
		total, err := s.Bookings.Count(ctx, f)
		if err != nil {
			return out, internal(err)
		}
		m := page.WithTotal(total)
		out.Meta = &m
	}
	return out, nil
}

func (s BookingQueryService) Stats(ctx context.Context) (models.BookingStats, error) {
	st, err := s.Bookings.Stats(ctx)
	return st, internal(err)
}

// filter maps params onto a repository filter. empty is true when the
// status and status_pembayaran constraints cannot both hold.
func (p BookingListParams) filter() (models.BookingFilter, bool, error) {
	f := models.BookingFilter{Code: utils.NormalizeCode(p.Code)}

	var statuses []string
	if strings.TrimSpace(p.Status) != "" {
		st, err := domain.ParseBookingStatus(p.Status)
		if err != nil {
			return f, false, err
		}
		statuses = []string{st.String()}
	}
	if strings.TrimSpace(p.PaymentStatus) != "" {
		mapped := domain.StatusesForPayment(p.PaymentStatus)
		if mapped == nil {
			return f, false, domain.ValidationError{Field: "status_pembayaran", Msg: "status_pembayaran harus salah satu dari pending, success, cancelled"}
		}
		fromPayment := make([]string, 0, len(mapped))
		for _, st := range mapped {
			fromPayment = append(fromPayment, st.String())
		}
		if statuses == nil {
			statuses = fromPayment
		} else {
			statuses = intersect(statuses, fromPayment)
			if len(statuses) == 0 {
				return f, true, nil
			}
		}
	}
	f.Statuses = statuses

	// Malformed refs are ignored rather than rejected.
	if utils.IsSystemID(strings.TrimSpace(p.User)) {
		f.UserID = strings.TrimSpace(p.User)
	}
	if utils.IsSystemID(strings.TrimSpace(p.Jadwal)) {
		f.ScheduleID = strings.TrimSpace(p.Jadwal)
	}

	if raw := strings.TrimSpace(p.From); raw != "" {
		t, err := utils.ParseFlexibleTime(raw)
		if err != nil {
			return f, false, domain.ValidationError{Field: "tanggal_pesan_from", Msg: "format tanggal tidak valid"}
		}
		f.BookedFrom = &t
	}
	if raw := strings.TrimSpace(p.To); raw != "" {
		t, err := utils.ParseFlexibleTime(raw)
		if err != nil {
			return f, false, domain.ValidationError{Field: "tanggal_pesan_to", Msg: "format tanggal tidak valid"}
		}
		if utils.IsDate(raw) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.BookedTo = &t
	}
	return f, false, nil
}

// bookingSorts drops unknown fields and falls back to newest first.
func bookingSorts(raw string) []domain.Sort {
	out := []domain.Sort{}
	for _, s := range domain.ParseSort(raw) {
		if repositories.IsSortableBookingField(s.Field) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, domain.Sort{Field: "bookedAt", Direction: "desc"})
	}
	return out
}

// atoiOr returns def when raw is empty or not a number.
func atoiOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

func intersect(a, b []string) []string {
	in := map[string]bool{}
	for _, v := range b {
		in[v] = true
	}
	out := []string{}
	for _, v := range a {
		if in[v] {
			out = append(out, v)
		}
	}
	return out
}
