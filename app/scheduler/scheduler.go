// Package scheduler runs the periodic maintenance jobs: releasing lapsed
// payment holds and dispatching pending outbox events.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"charterbooking/service/booking"
	"charterbooking/service/notify"
)

type Scheduler struct {
	cron       *cron.Cron
	cleaner    booking.Cleaner
	dispatcher notify.Dispatcher
	log        *slog.Logger
}

func New(cleaner booking.Cleaner, dispatcher notify.Dispatcher, log *slog.Logger) *Scheduler {
	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		cleaner:    cleaner,
		dispatcher: dispatcher,
		log:        log,
	}
	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	if _, err := s.cron.AddFunc("@every 1m", s.releaseExpiredHolds); err != nil {
		s.log.Error("failed to register hold cleanup job", "err", err)
	}
	if _, err := s.cron.AddFunc("@every 30s", s.dispatchOutbox); err != nil {
		s.log.Error("failed to register outbox dispatch job", "err", err)
	}
}

func (s *Scheduler) releaseExpiredHolds() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.cleaner.ReleaseExpired(ctx)
	if err != nil {
		s.log.Error("hold cleanup failed", "err", err)
		return
	}
	if n > 0 {
		s.log.Info("released expired holds", "count", n)
	}
}

func (s *Scheduler) dispatchOutbox() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.dispatcher.DispatchPending(ctx); err != nil {
		s.log.Error("outbox dispatch failed", "err", err)
	}
}

func (s *Scheduler) Start() { s.cron.Start() }
func (s *Scheduler) Stop()  { s.cron.Stop() }
