package infra

import (
	"github.com/robfig/cron/v3"

	"positioncard/internal/domain"
	"positioncard/internal/logger"
)

// Scheduler manages scheduled housekeeping tasks
type Scheduler struct {
	cron     *cron.Cron
	sessions domain.SessionRepository
	spec     string
	log      logger.Logger
}

// NewScheduler creates a new scheduler sweeping idle sessions on the given cron spec
func NewScheduler(sessions domain.SessionRepository, spec string, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sessions: sessions,
		spec:     spec,
		log:      log.WithPrefix("module", "scheduler"),
	}
}

// Start registers the sweep job and starts the cron runner
func (s *Scheduler) Start() error {
	s.log.Infof("Starting scheduler... [sweep: %s]", s.spec)

	if _, err := s.cron.AddFunc(s.spec, s.Sweep); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("[OK] Scheduler started successfully")
	return nil
}

// Sweep removes expired sessions once
func (s *Scheduler) Sweep() {
	removed := s.sessions.DeleteExpired()
	if removed > 0 {
		s.log.Infof("[CRON] Swept %d idle sessions, %d remaining", removed, s.sessions.Count())
		return
	}
	s.log.Debugf("[CRON] No idle sessions, %d live", s.sessions.Count())
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler...")
	<-s.cron.Stop().Done()
	s.log.Info("[OK] Scheduler stopped")
}
