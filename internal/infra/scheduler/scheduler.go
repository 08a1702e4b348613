package scheduler

import (
	"context"
	"time"

	"state_notifier/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RunScheduler fires the gated notification run on a cron schedule. The
// per-day ledger gate makes repeated fires within one day harmless.
type RunScheduler struct {
	cronEngine *cron.Cron
	runner     app.Runner
	logger     *logrus.Logger
	cronSpec   string
}

func NewRunScheduler(runner app.Runner, logger *logrus.Logger, cronSpec string) *RunScheduler {
	return &RunScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Ledger dates use local time too
		runner:     runner,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *RunScheduler) Start() {
	s.logger.Info("Starting run scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for daily notification run.")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.runner.Execute(ctx, ""); err != nil {
			s.logger.Errorf("Notification run failed: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add daily run cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Run scheduler started with spec %q.", s.cronSpec)
}

func (s *RunScheduler) Stop() {
	s.logger.Info("Stopping run scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running job to finish
	<-ctx.Done()
	s.logger.Info("Run scheduler gracefully stopped.")
}
