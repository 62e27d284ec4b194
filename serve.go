package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiketbus/internal/cache"
	intdb "tiketbus/internal/db"
	"tiketbus/internal/events"
	api "tiketbus/internal/http"
	h "tiketbus/internal/http/handlers"
	"tiketbus/internal/repositories"
	"tiketbus/internal/services"
	"tiketbus/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Jalankan HTTP API (default)",
	RunE:  runServe,
}

var autoMigrate bool

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "buat tabel yang belum ada sebelum server berjalan")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer shutdown()
	log := utils.Logger()
	if err := env.Validate(); err != nil {
		log.Error("refusing to start", zap.Error(err))
		return err
	}

	if autoMigrate {
		created, err := intdb.EnsureSchema(ctx, db)
		if err != nil {
			return err
		}
		if len(created) > 0 {
			log.Info("schema created", zap.Strings("tables", created))
		}
	}

	seatCache := cache.NewSeatMapCache(nil, cache.DefaultTTL)
	if env.RedisURL != "" {
		client, err := cache.NewRedisClient(env.RedisURL)
		if err != nil {
			log.Warn("redis disabled", zap.Error(err))
		} else {
			seatCache = cache.NewSeatMapCache(client, cache.DefaultTTL)
		}
	}
	defer seatCache.Close()

	bus := events.NewBus(events.NewZapLoggerAdapter(log))
	defer bus.Close()
	if err := events.RunAuditLog(ctx, bus, events.AllTopics...); err != nil {
		return err
	}

	schedules := repositories.ScheduleRepository{DB: db}
	bookings := repositories.BookingRepository{DB: db}
	seats := repositories.BookingSeatRepository{DB: db}
	users := repositories.UserRepository{DB: db}

	bookingSvc := services.BookingService{
		DB:         db,
		Bookings:   bookings,
		Seats:      seats,
		Schedules:  schedules,
		Users:      users,
		StrictRefs: env.StrictRefs,
		Cache:      seatCache,
		Events:     bus,
	}
	userSvc := services.UserService{Users: users}
	tokens := services.TokenService{Secret: []byte(env.JWTSecret)}

	hd := h.Handler{
		Schedules: services.ScheduleService{DB: db, Schedules: schedules, Seats: seats, Cache: seatCache, Events: bus},
		Bookings:  bookingSvc,
		Queries:   services.BookingQueryService{Bookings: bookings},
		Tickets:   services.DocsService{Bookings: bookings, Loader: bookingSvc.Get},
		Users:     userSvc,
		Auth:      services.AuthService{Users: userSvc, Tokens: tokens},
		DB:        db,
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           api.NewRouter(env, hd, tokens),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
