package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper is the no-show batch the scheduler runs.
type Sweeper interface {
	Execute(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log.With().Str("component", "cron").Logger(),
		timeout: time.Minute,
	}
}

// AddNoShowSweep registers the sweeper under a standard five-field spec.
func (s *Scheduler) AddNoShowSweep(spec string, sweeper Sweeper) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.runSweep(sweeper)
	})
	return err
}

func (s *Scheduler) runSweep(sweeper Sweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	moved, err := sweeper.Execute(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no-show sweep failed")
		return
	}
	if moved > 0 {
		s.log.Info().
			Int("moved", moved).
			Dur("took", time.Since(started)).
			Msg("appointments marked as no-show")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("cron scheduler started")
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
