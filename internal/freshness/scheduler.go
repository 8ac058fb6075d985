package freshness

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/logging"
)

// Scheduler runs the refresher on a cron spec such as "@every 10m".
type Scheduler struct {
	cron      *cron.Cron
	refresher *Refresher
	spec      string
	logger    *zap.Logger
}

// NewScheduler returns a stopped Scheduler. Overlapping runs are skipped.
func NewScheduler(refresher *Refresher, spec string, logger *zap.Logger) *Scheduler {
	logger = logging.OrNop(logger)
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		refresher: refresher,
		spec:      spec,
		logger:    logger,
	}
}

// Start registers the refresh job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.refresher.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled embedding refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid freshness schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("embedding refresher scheduled", zap.String("spec", s.spec))
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("embedding refresher stopped")
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
