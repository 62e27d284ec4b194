package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// httpDuration measures request latency.
	// Labels: method, route (gin full path), status
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tiketbus",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route", "status"})

	// bookingEvents counts booking lifecycle changes.
	// Labels: event (created, confirmed, cancelled, completed, deleted, updated)
	bookingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiketbus",
		Subsystem: "booking",
		Name:      "events_total",
		Help:      "Booking lifecycle events",
	}, []string{"event"})

	// bookingRejections counts create/transition attempts refused by inventory rules.
	// Labels: reason (insufficient_seats, seat_conflict, invalid_status_transition)
	bookingRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiketbus",
		Subsystem: "booking",
		Name:      "rejections_total",
		Help:      "Booking operations rejected with a conflict",
	}, []string{"reason"})

	seatsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tiketbus",
		Subsystem: "booking",
		Name:      "seats_reserved_total",
		Help:      "Seats taken by new bookings",
	})

	seatsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tiketbus",
		Subsystem: "booking",
		Name:      "seats_released_total",
		Help:      "Seats returned to schedules by cancellation or deletion",
	})

	// seatMapCache counts availability cache lookups.
	// Labels: result (hit, miss, error)
	seatMapCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tiketbus",
		Subsystem: "cache",
		Name:      "seat_map_lookups_total",
		Help:      "Seat map cache lookups",
	}, []string{"result"})
)

func ObserveHTTP(method, route, status string, seconds float64) {
	httpDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func BookingEvent(event string) {
	bookingEvents.WithLabelValues(event).Inc()
}

func BookingRejected(reason string) {
	bookingRejections.WithLabelValues(reason).Inc()
}

func SeatsReserved(n int) {
	if n > 0 {
		seatsReserved.Add(float64(n))
	}
}

func SeatsReleased(n int) {
	if n > 0 {
		seatsReleased.Add(float64(n))
	}
}

func SeatMapCache(result string) {
	seatMapCache.WithLabelValues(result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
