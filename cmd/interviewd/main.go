package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hireloop/interviewd/internal/api"
	"github.com/hireloop/interviewd/internal/booking"
	"github.com/hireloop/interviewd/internal/directory"
	"github.com/hireloop/interviewd/internal/interviews"
	"github.com/hireloop/interviewd/internal/metrics"
	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/internal/notify"
	"github.com/hireloop/interviewd/internal/repo"
	"github.com/hireloop/interviewd/pkg/errors"
	"github.com/hireloop/interviewd/pkg/logger"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "load config"))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "init logger"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	defer cancel()

	db, err := repo.NewClient(ctx, cfg.Mongo, log)
	if err != nil {
		log.Panic(errors.WrapFail(err, "init mongo client"))
	}

	var notifier notify.Notifier = notify.Nop()
	if len(cfg.Notify.Brokers) > 0 {
		notifier = notify.NewKafkaProducer(cfg.Notify, log)
	}

	clock := models.SystemClock()
	dir := directory.NewClient(cfg.Directory)

	coord := booking.NewCoordinator(db.Slots(), db.Interviewees(), db, notifier, clock, log)
	service := interviews.NewService(
		db.Processes(), db.Slots(), db.Interviewees(), db,
		dir, dir.Jobs(),
		notifier, clock, log,
	)

	// role checks are done upstream by the platform gateway
	server := api.NewServer(cfg.API, log, service, coord, nil, nil)

	if cfg.Metrics.Addr != "" {
		go func() {
			err := metrics.Serve(ctx, cfg.Metrics)
			if err != nil {
				log.Error(errors.WrapFail(err, "serve metrics"))
			}
		}()
	}

	stopped := make(chan struct{})
	context.AfterFunc(ctx, func() {
		stdlog.Println("Graceful shutdown...")

		shutdownCtx := context.Background()
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Error(errors.WrapFail(err, "shutdown server"))
		}

		err = db.Close(shutdownCtx)
		if err != nil {
			log.Error(errors.WrapFail(err, "close mongo client"))
		}

		stopped <- struct{}{}
	})

	stdlog.Printf("Serving on %s (%s)", cfg.API.HTTP.Addr, cfg.Environment)
	err = server.Serve(ctx)
	if err != nil {
		log.Error(err)
	}

	<-stopped
	stdlog.Println("Shutdown complete")
}
