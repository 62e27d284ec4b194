package main

import (
	"fmt"

	"tiketbus/internal/repositories"
	"tiketbus/internal/services"

	"github.com/spf13/cobra"
)

var seedAdmin struct {
	name, email, password, phone string
	skip                         bool
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Isi jadwal contoh JDW001..JDW006 dan akun admin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer shutdown()

		seeder := services.Seeder{
			Schedules: services.ScheduleService{
				DB:        db,
				Schedules: repositories.ScheduleRepository{DB: db},
				Seats:     repositories.BookingSeatRepository{DB: db},
			},
			Users: services.UserService{Users: repositories.UserRepository{DB: db}},
		}
		var admin *services.UserInput
		if !seedAdmin.skip {
			admin = &services.UserInput{
				Name:     &seedAdmin.name,
				Email:    &seedAdmin.email,
				Password: &seedAdmin.password,
				Phone:    &seedAdmin.phone,
			}
		}
		res, err := seeder.Run(cmd.Context(), services.DemoSchedules, admin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "jadwal dibuat=%d dilewati=%d admin=%t\n", res.Schedules, res.Skipped, res.Admin)
		return nil
	},
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedAdmin.name, "admin-name", "Admin Baraya", "nama akun admin")
	f.StringVar(&seedAdmin.email, "admin-email", "admin@baraya.com", "email akun admin")
	f.StringVar(&seedAdmin.password, "admin-password", "admin123", "password akun admin")
	f.StringVar(&seedAdmin.phone, "admin-phone", "081200000000", "nomor HP akun admin")
	f.BoolVar(&seedAdmin.skip, "skip-admin", false, "jangan buat akun admin")
}
