// Package scheduler runs the periodic job expiry sweep.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Expirer flips lapsed jobs to expired and reports how many changed.
type Expirer interface {
	ExpireJobs(ctx context.Context) (int64, error)
}

// Scheduler wraps robfig/cron and owns the expiry sweep.
type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	spec    string
	logger  *zerolog.Logger
	wg      sync.WaitGroup
}

// New creates a Scheduler that sweeps on spec, e.g. "@every 1h".
func New(expirer Expirer, spec string, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		expirer: expirer,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the sweep and starts the scheduler. One sweep also runs
// immediately so jobs that lapsed while the service was down are expired
// without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.sweep(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("expiry sweep scheduled")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sweep(ctx)
	}()

	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info().Msg("expiry sweep stopped")
}

func (s *Scheduler) sweep(ctx context.Context) {
	n, err := s.expirer.ExpireJobs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("expiry sweep failed")
		return
	}

	s.logger.Debug().Int64("expired", n).Msg("expiry sweep complete")
}
