package savegame

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/dreamstory/internal/sim"
)

// Autosaver writes snapshots to a slot off the caller's goroutine.
// Offer never blocks; when saves fall behind, only the newest snapshot is kept.
type Autosaver struct {
	slot    sim.SaveSlot
	pending chan sim.State
	logger  *log.Logger

	// OnSaved, when set, is called on the saver goroutine after each write.
	OnSaved func(s sim.State, err error)
}

// NewAutosaver creates an autosaver for slot. A nil logger discards.
func NewAutosaver(slot sim.SaveSlot, logger *log.Logger) *Autosaver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Autosaver{
		slot:    slot,
		pending: make(chan sim.State, 1),
		logger:  logger,
	}
}

// Offer queues s for saving, replacing any snapshot not yet written.
func (a *Autosaver) Offer(s sim.State) {
	for {
		select {
		case a.pending <- s:
			return
		default:
		}
		// Full: drop the stale snapshot and try again.
		select {
		case <-a.pending:
		default:
		}
	}
}

// Run writes offered snapshots until ctx is done, then flushes whatever is
// still pending with a short deadline of its own.
func (a *Autosaver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.flush()
			return ctx.Err()
		case s := <-a.pending:
			a.write(ctx, s)
		}
	}
}

func (a *Autosaver) flush() {
	select {
	case s := <-a.pending:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.write(ctx, s)
	default:
	}
}

func (a *Autosaver) write(ctx context.Context, s sim.State) {
	err := a.slot.Save(ctx, s)
	if err != nil {
		a.logger.Warn("autosave failed", "error", err)
	} else {
		a.logger.Debug("autosaved", "day", s.Day, "clock", sim.FormatClock(s.ClockMinutes))
	}
	if a.OnSaved != nil {
		a.OnSaved(s, err)
	}
}
