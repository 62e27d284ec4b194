package services

import (
	"context"
	"database/sql"

	"tiketbus/internal/cache"
	intconfig "tiketbus/internal/config"
	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/utils"
)

// EventPublisher is satisfied by *events.Bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload any)
}

// SeatMapStore is satisfied by *cache.SeatMapCache.
type SeatMapStore interface {
	GetOrLoad(ctx context.Context, scheduleID string, load cache.LoadFunc) (models.SeatMap, error)
	Invalidate(ctx context.Context, scheduleID string)
}

func dbOr(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return intconfig.DB
}

func publish(ctx context.Context, p EventPublisher, topic string, payload any) {
	if p != nil {
		p.Publish(ctx, topic, payload)
	}
}

func invalidate(ctx context.Context, c SeatMapStore, scheduleID string) {
	if c != nil {
		c.Invalidate(ctx, scheduleID)
	}
}

// internal wraps unexpected store failures; typed domain errors pass through.
func internal(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case domain.IsNotFound(err), domain.IsValidation(err), domain.IsConflict(err),
		domain.IsDuplicate(err), domain.IsInvalidID(err), domain.IsInternal(err),
		domain.IsForbidden(err), domain.IsUnauthorized(err):
		return err
	}
	return domain.InternalError{Msg: "gagal memproses data", Err: err}
}

func requestID(ctx context.Context) string {
	return utils.RequestIDFrom(ctx)
}
