// Package scheduler drives periodic ingest runs in daemon mode.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/ingest"
	"github.com/terry-li-hm/lustro/internal/models"
	"github.com/terry-li-hm/lustro/internal/state"
)

// Service schedules ingest runs.
type Service struct {
	config        *config.Config
	ingestService *ingest.Service
	cron          *cron.Cron
	onReport      func(*models.RunReport)
}

// NewService creates a scheduler around the ingest service. onReport, when
// non-nil, receives the summary of every completed run.
func NewService(cfg *config.Config, ingestService *ingest.Service, onReport func(*models.RunReport)) *Service {
	return &Service{
		config:        cfg,
		ingestService: ingestService,
		cron:          cron.New(cron.WithSeconds()),
		onReport:      onReport,
	}
}

// Start begins the scheduled runs.
func (s *Service) Start() error {
	var cronExpression string
	switch s.config.Schedule {
	case "hourly":
		cronExpression = "0 0 * * * *"
	default:
		// Daily at 7 AM UTC
		cronExpression = "0 0 7 * * *"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled ingest run")
		s.RunOnce()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule", s.config.Schedule)
	return nil
}

// RunOnce executes one locked ingest run, logging failures instead of
// propagating them: the next scheduled run should still happen.
func (s *Service) RunOnce() {
	release, err := state.Lock(s.config.StatePath)
	if err != nil {
		logrus.Errorf("Skipping run: %v", err)
		return
	}
	defer release()

	report, err := s.ingestService.Run(context.Background(), ingest.Options{})
	if err != nil {
		logrus.Errorf("Scheduled ingest run failed: %v", err)
		return
	}
	if s.onReport != nil {
		s.onReport(report)
	}
}

// Stop stops the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
