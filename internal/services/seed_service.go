package services

import (
	"context"
	"fmt"

	"tiketbus/internal/domain"
	"tiketbus/internal/utils"
)

// DemoSchedules are the JDW001..JDW006 departures used by the seed command.
var DemoSchedules = []ScheduleInput{
	demoSchedule("JDW001", "BANDUNG, PASTEUR2", "JAKARTA SELATAN, TEBET", "2025-11-17", "08:00", 113000),
	demoSchedule("JDW002", "BANDUNG, PASTEUR2", "JAKARTA SELATAN, TEBET", "2025-11-17", "14:00", 113000),
	demoSchedule("JDW003", "JAKARTA SELATAN, TEBET", "BANDUNG, PASTEUR2", "2025-11-18", "09:00", 113000),
	demoSchedule("JDW004", "JAKARTA SELATAN, TEBET", "BANDUNG, PASTEUR2", "2025-11-18", "16:00", 113000),
	demoSchedule("JDW005", "JAKARTA PUSAT, SARINAH", "PURWAKARTA, KM72B", "2025-11-19", "10:00", 85000),
	demoSchedule("JDW006", "PURWAKARTA, KM72B", "JAKARTA SELATAN, KUNINGAN", "2025-11-25", "11:00", 90000),
}

func demoSchedule(code, origin, dest, date, clock string, price int64) ScheduleInput {
	seats := domain.DefaultTotalSeats
	return ScheduleInput{
		Code:        &code,
		Origin:      &origin,
		Destination: &dest,
		Date:        &date,
		Time:        &clock,
		Price:       &price,
		TotalSeats:  &seats,
	}
}

type SeedResult struct {
	Schedules int  `json:"schedules"`
	Skipped   int  `json:"skipped"`
	Admin     bool `json:"admin"`
}

// Seeder inserts demo data. Rows that already exist are skipped, so running it
// twice is harmless.
type Seeder struct {
	Schedules ScheduleService
	Users     UserService
}

// Run creates the given schedules and, when admin is set, an admin account.
func (s Seeder) Run(ctx context.Context, schedules []ScheduleInput, admin *UserInput) (SeedResult, error) {
	var res SeedResult
	for _, in := range schedules {
		if _, err := s.Schedules.Create(ctx, in); err != nil {
			if domain.IsDuplicate(err) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("seed jadwal %s: %w", deref(in.Code), err)
		}
		res.Schedules++
	}

	if admin != nil {
		in := *admin
		role := domain.RoleAdmin
		in.Role = &role
		if _, err := s.Users.Create(ctx, in); err != nil {
			if !domain.IsDuplicate(err) {
				return res, fmt.Errorf("seed admin: %w", err)
			}
		} else {
			res.Admin = true
		}
	}
	utils.LogEvent(requestID(ctx), "seed", "run", fmt.Sprintf("schedules=%d skipped=%d admin=%t", res.Schedules, res.Skipped, res.Admin))
	return res, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
