package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

type steerRequest struct {
	player  core.PlayerID
	heading snake.Heading
}

// Runner drives one match on a timer whose period follows the match's
// current interval. It owns the match exclusively while Run executes.
type Runner struct {
	match    *snake.Match
	sessions []SessionHandle
	logger   *log.Logger
	now      func() time.Time

	inputs   chan steerRequest
	quit     chan struct{}
	quitOnce sync.Once
	stopped  chan struct{}
}

// NewRunner creates a runner for match. Frames go to every session.
func NewRunner(match *snake.Match, logger *log.Logger, sessions ...SessionHandle) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		match:    match,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		inputs:   make(chan steerRequest, 64),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Steer queues a heading request for the next tick.
// Non-blocking, uses a buffered channel.
func (r *Runner) Steer(player core.PlayerID, h snake.Heading) {
	select {
	case r.inputs <- steerRequest{player: player, heading: h}:
	default:
		// Channel full, drop input (rare under normal conditions)
	}
}

// Run ticks the match until it is terminal, ctx is cancelled, Stop is
// called or a session disconnects. onComplete runs only for a match that
// reached its terminal state. No tick runs after Run returns.
func (r *Runner) Run(ctx context.Context, onComplete func(snake.Result)) error {
	defer close(r.stopped)
	defer r.Stop()

	timer := time.NewTimer(r.match.Interval())
	defer timer.Stop()

	// Monitor session disconnects
	go r.monitorSessions()

	r.broadcast(FrameEvent{Snapshot: r.match.Snapshot()})

	for {
		select {
		case <-timer.C:
			select {
			case <-r.quit:
				return nil
			default:
			}
			r.drainInputs()
			tick := r.match.Advance(r.now())
			r.broadcast(FrameEvent{Snapshot: r.match.Snapshot()})

			if tick.Terminal {
				result := r.match.Result()
				r.logger.Debug("match finished", "category", result.Category,
					"ticks", result.Ticks, "winner", int(result.Winner))
				if onComplete != nil {
					onComplete(result)
				}
				return nil
			}
			timer.Reset(tick.Interval)

		case <-ctx.Done():
			return ctx.Err()

		case <-r.quit:
			return nil
		}
	}
}

func (r *Runner) drainInputs() {
	for {
		select {
		case in := <-r.inputs:
			r.match.Steer(in.player, in.heading)
		default:
			return
		}
	}
}

func (r *Runner) broadcast(evt Event) {
	for _, s := range r.sessions {
		s.Send(evt)
	}
}

func (r *Runner) monitorSessions() {
	if len(r.sessions) == 0 {
		return
	}
	// Any session leaving ends the match
	left := make(chan struct{}, len(r.sessions))
	for _, s := range r.sessions {
		go func(s SessionHandle) {
			select {
			case <-s.Done():
				left <- struct{}{}
			case <-r.quit:
			}
		}(s)
	}
	select {
	case <-left:
		r.logger.Debug("session left, stopping match")
		r.Stop()
	case <-r.quit:
	}
}

// Stop asks the match loop to end. Safe to call multiple times.
func (r *Runner) Stop() {
	r.quitOnce.Do(func() {
		close(r.quit)
	})
}

// Done returns a channel that closes once Run has returned.
func (r *Runner) Done() <-chan struct{} {
	return r.stopped
}
