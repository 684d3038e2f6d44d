// Package scheduler drives the periodic work: the event sweeps and the
// snapshot autosaves.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

type calendarRegistry interface {
	SweepAll(ctx context.Context, now time.Time) error
	SaveAll(ctx context.Context) error
}

type Scheduler struct {
	calendars  calendarRegistry
	logger     *zap.SugaredLogger
	sweepEvery time.Duration
	saveEvery  time.Duration
}

func New(calendars calendarRegistry, sweepEvery, saveEvery time.Duration, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		calendars:  calendars,
		logger:     logger,
		sweepEvery: sweepEvery,
		saveEvery:  saveEvery,
	}
}

// Start schedules both jobs and returns; the cron runner owns the
// goroutines. Shutdown waits for a running job to finish so a sweep is
// never cut off halfway.
func (s *Scheduler) Start() {
	c := cron.New()
	c.Schedule(cron.Every(s.sweepEvery), cron.FuncJob(s.sweep))
	c.Schedule(cron.Every(s.saveEvery), cron.FuncJob(s.save))
	c.Start()
	closer.Bind(func() {
		<-c.Stop().Done()
	})
}

func (s *Scheduler) sweep() {
	if err := s.calendars.SweepAll(context.Background(), time.Now()); err != nil {
		s.logger.Errorw("sweep failed", "err", err)
	}
}

func (s *Scheduler) save() {
	if err := s.calendars.SaveAll(context.Background()); err != nil {
		s.logger.Errorw("autosave failed", "err", err)
	}
}
