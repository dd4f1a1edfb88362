package app

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// RefreshScheduler runs the user-configurable periodic refresh. At most one
// periodic task is ever active: rearming always cancels the previous one
// first, and a rate of zero disarms entirely.
type RefreshScheduler struct {
	logger  *zap.Logger
	refresh func()

	mu      sync.Mutex
	seconds uint
	stop    chan struct{}
}

func NewRefreshScheduler(logger *zap.Logger, refresh func()) *RefreshScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshScheduler{
		logger:  logger,
		refresh: refresh,
	}
}

// SetRate arms the scheduler with the given period in seconds. Zero disarms.
func (s *RefreshScheduler) SetRate(seconds uint) {
	s.arm(seconds, time.Duration(seconds)*time.Second)
}

func (s *RefreshScheduler) arm(seconds uint, period time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One active timer: cancel the previous one before anything else.
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}

	s.seconds = seconds
	if seconds == 0 {
		s.logger.Info("refresh schedule disarmed")
		return
	}

	stop := make(chan struct{})
	s.stop = stop
	go s.run(period, stop)

	s.logger.Info("refresh schedule armed", zap.Uint("seconds", seconds))
}

func (s *RefreshScheduler) run(period time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.refresh()
		}
	}
}

// Rate returns the currently armed period in seconds (zero when disarmed).
func (s *RefreshScheduler) Rate() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seconds
}

// Active reports whether a periodic task is armed.
func (s *RefreshScheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Stop disarms the scheduler without changing the remembered rate.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
