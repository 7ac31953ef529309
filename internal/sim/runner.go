package sim

import (
	"context"
	"errors"
	"time"
)

// ErrRunnerStopped is returned by Do once the runner's loop has exited.
var ErrRunnerStopped = errors.New("runner stopped")

type runnerOp struct {
	fn   func(*Controller)
	done chan struct{}
}

// Runner serializes ticks and intents for hosts that have no event loop of
// their own. One goroutine, the one calling Run, owns the controller; every
// other goroutine reaches it through Do.
type Runner struct {
	ctrl    *Controller
	ops     chan runnerOp
	stopped chan struct{}

	// AfterTick, when set, runs on the loop goroutine after every tick.
	// It must not block; hand slow work such as saving to another goroutine.
	AfterTick func(c *Controller)
}

// NewRunner wraps c. Run must be called for Do to make progress.
func NewRunner(c *Controller) *Runner {
	return &Runner{
		ctrl:    c,
		ops:     make(chan runnerOp),
		stopped: make(chan struct{}),
	}
}

// Run ticks the controller every interval and executes submitted operations
// between ticks until ctx is done. An interval of zero or less disables the
// ticker, leaving only submitted operations.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	defer close(r.stopped)

	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			r.ctrl.Tick()
			if r.AfterTick != nil {
				r.AfterTick(r.ctrl)
			}
		case op := <-r.ops:
			op.fn(r.ctrl)
			close(op.done)
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (r *Runner) Do(ctx context.Context, fn func(*Controller)) error {
	op := runnerOp{fn: fn, done: make(chan struct{})}
	select {
	case r.ops <- op:
	case <-r.stopped:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	// Once accepted the op always completes before the loop looks at ctx again.
	<-op.done
	return nil
}

// Snapshot returns a copy of the state taken between ticks.
func (r *Runner) Snapshot(ctx context.Context) (State, error) {
	var s State
	err := r.Do(ctx, func(c *Controller) { s = c.State() })
	return s, err
}
