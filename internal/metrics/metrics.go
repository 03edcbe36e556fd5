package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BookingAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Total number of assign/book/cancel attempts",
		},
		[]string{"operation"},
	)

	BookingConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Attempts lost to a concurrent commit, by conflict kind",
		},
		[]string{"operation", "kind"},
	)

	SlotsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slots_created_total",
			Help: "Total number of slots persisted",
		},
	)
)

const (
	ConflictSlotTaken = "slot_taken"
	ConflictStale     = "stale_interviewee"
)

type Config struct {
	Addr string `yaml:"addr"`
}

// Serve exposes /metrics until ctx is cancelled.
func Serve(ctx context.Context, cfg Config) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
