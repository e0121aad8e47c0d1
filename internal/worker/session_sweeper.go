package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSweepInterval is how often expired in-memory sessions are evicted.
const DefaultSweepInterval = 10 * time.Minute

// Sweeper is a session store that can drop its own expired entries.
type Sweeper interface {
	Sweep() int
}

// SessionSweeper periodically evicts expired sessions from an in-memory
// store. Redis expires keys on its own and needs no sweeper.
type SessionSweeper struct {
	store    Sweeper
	interval time.Duration
	log      zerolog.Logger
}

// NewSessionSweeper creates a new SessionSweeper.
func NewSessionSweeper(store Sweeper, interval time.Duration, log zerolog.Logger) *SessionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SessionSweeper{
		store:    store,
		interval: interval,
		log:      log.With().Str("component", "session_sweeper").Logger(),
	}
}

// Start runs until ctx is done. Call in a goroutine.
func (w *SessionSweeper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-t.C:
			w.sweepOnce()
		}
	}
}

func (w *SessionSweeper) sweepOnce() int {
	n := w.store.Sweep()
	if n > 0 {
		w.log.Debug().Int("evicted", n).Msg("Expired sessions swept")
	}
	return n
}
