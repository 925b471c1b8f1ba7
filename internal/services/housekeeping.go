package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tradefair/internal/domain"
)

const defaultHousekeepingInterval = time.Hour

// HousekeepingService periodically purges expired auth sessions and password reset codes.
type HousekeepingService struct {
	Sessions       domain.AuthSessionRepository
	PasswordResets domain.PasswordResetRepository
	Logger         *slog.Logger
	Interval       time.Duration
	Timeout        time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService returns a stopped service. A non-positive interval defaults to one hour.
func NewHousekeepingService(sessions domain.AuthSessionRepository, resets domain.PasswordResetRepository, logger *slog.Logger, interval, timeout time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = defaultHousekeepingInterval
	}
	return &HousekeepingService{
		Sessions:       sessions,
		PasswordResets: resets,
		Logger:         logger,
		Interval:       interval,
		Timeout:        timeout,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start runs a cleanup immediately and then on every tick, until Stop.
// It does nothing once the service has been started or stopped.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop ends the worker and waits for an in-progress cleanup. Safe to call more than once,
// and before Start.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	started, alreadyStopped := s.started, s.stopped
	if !alreadyStopped {
		s.stopped = true
		close(s.stopCh)
	}
	s.mu.Unlock()

	if started {
		<-s.doneCh
	}
	if !alreadyStopped {
		s.Logger.Info("housekeeping service stopped")
	}
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())
	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes expired rows. Each purge is independent of the other's failure.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	now := time.Now()

	sessions, err := s.Sessions.DeleteExpired(ctx, now)
	if err != nil {
		s.Logger.ErrorContext(ctx, "failed to delete expired sessions", "err", err)
	}
	codes, err := s.PasswordResets.DeleteExpired(ctx, now)
	if err != nil {
		s.Logger.ErrorContext(ctx, "failed to delete expired reset codes", "err", err)
	}
	s.Logger.DebugContext(ctx, "housekeeping cleanup completed", "sessions", sessions, "reset_codes", codes)
}
