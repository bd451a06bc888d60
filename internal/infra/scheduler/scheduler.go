package scheduler

import (
	"context"
	"time"
	"visaguard_bot/internal/app" // For ExpirationService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpirationScheduler owns the two unattended check triggers: a one-shot
// startup check after a short delay, and the recurring fixed-interval
// check. Both pass force=false, so the once-per-day guard in the engine
// de-duplicates them; explicit operator checks go through the bot
// handler with force=true instead.
type ExpirationScheduler struct {
	cronEngine        *cron.Cron
	expirationService app.ExpirationService // Using the interface
	logger            *logrus.Entry
	cronSpecCheck     string
	startupDelay      time.Duration
	startupTimer      *time.Timer
}

func NewExpirationScheduler(
	expirationService app.ExpirationService,
	logger *logrus.Entry,
	cronSpecCheck string, // e.g., "@every 24h"
	startupDelay time.Duration,
) *ExpirationScheduler {
	return &ExpirationScheduler{
		cronEngine:        cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		expirationService: expirationService,
		logger:            logger,
		cronSpecCheck:     cronSpecCheck,
		startupDelay:      startupDelay,
	}
}

func (s *ExpirationScheduler) Start() {
	s.logger.Info("Starting expiration scheduler...")

	// Recurring expiration check
	_, err := s.cronEngine.AddFunc(s.cronSpecCheck, func() {
		s.logger.Info("Cron job triggered for scheduled expiration check.")
		s.runCheck()
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add expiration check cron job: %v", err)
	}

	// Startup check, delayed so the rest of the system finishes wiring
	s.startupTimer = time.AfterFunc(s.startupDelay, func() {
		s.logger.Info("Startup expiration check triggered.")
		s.runCheck()
	})

	s.cronEngine.Start()
	s.logger.Info("Expiration scheduler started with jobs.")
}

func (s *ExpirationScheduler) runCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute) // Context for the job
	defer cancel()
	if err := s.expirationService.CheckExpirations(ctx, false); err != nil {
		s.logger.WithError(err).Error("Error during scheduled expiration check")
	}
}

func (s *ExpirationScheduler) Stop() {
	s.logger.Info("Stopping expiration scheduler...")
	if s.startupTimer != nil {
		s.startupTimer.Stop()
	}
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Expiration scheduler gracefully stopped.")
}
