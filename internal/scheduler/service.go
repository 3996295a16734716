package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/kunu2009/socials/internal/config"
	"github.com/kunu2009/socials/internal/orchestrator"
)

// Service periodically expires idle sessions so generated content never
// outlives the active session.
type Service struct {
	config       *config.Config
	orchestrator *orchestrator.Service
	cron         *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, orch *orchestrator.Service) *Service {
	return &Service{
		config:       cfg,
		orchestrator: orch,
		cron:         cron.New(cron.WithSeconds()),
	}
}

// Start begins the periodic idle-session check
func (s *Service) Start() error {
	// Check once a minute; the TTL itself is configured separately.
	_, err := s.cron.AddFunc("0 * * * * *", func() {
		if s.orchestrator.ExpireIfIdle(s.config.SessionTTL) {
			logrus.Info("Idle session expired, result set cleared")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Session janitor started (TTL %v)", s.config.SessionTTL)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Session janitor stopped")
	}
}
