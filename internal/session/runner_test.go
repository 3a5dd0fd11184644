package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestMatch(t *testing.T, initial time.Duration) *snake.Match {
	t.Helper()
	m, err := snake.NewMatch(snake.Options{
		Grid:     core.NewGrid(10, 10),
		Spawns:   []snake.Spawn{{Cell: core.Cell{X: 2, Y: 2}, Heading: snake.HeadingRight}},
		Initial:  initial,
		Floor:    time.Millisecond,
		Category: "normal",
		Seed:     1,
	})
	if err != nil {
		t.Fatalf("NewMatch() failed: %v", err)
	}
	return m
}

func TestRunnerRunsToTerminal(t *testing.T) {
	m := newTestMatch(t, 2*time.Millisecond)
	sess := NewChannelSession("s1", 256)
	r := NewRunner(m, quietLogger(), sess)

	r.Steer(core.Player1, snake.HeadingUp)

	var results []snake.Result
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Run(ctx, func(res snake.Result) { results = append(results, res) }); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("onComplete called %d times, expected 1", len(results))
	}
	// (2,2) -> (2,1) -> (2,0) -> wall
	if results[0].Ticks != 3 {
		t.Errorf("ticks = %d, expected 3", results[0].Ticks)
	}
	if results[0].Actors[0].Cause != "wall" {
		t.Errorf("cause = %q, expected wall", results[0].Actors[0].Cause)
	}

	select {
	case <-r.Done():
	default:
		t.Error("Done() not closed after Run returned")
	}

	frames := 0
	var last FrameEvent
	for len(sess.Events()) > 0 {
		if f, ok := (<-sess.Events()).(FrameEvent); ok {
			frames++
			last = f
		}
	}
	if frames != 4 {
		t.Errorf("got %d frames, expected initial + 3 ticks", frames)
	}
	if !last.Snapshot.Terminal {
		t.Error("last frame should be terminal")
	}
}

func TestRunnerStopCancelsTicks(t *testing.T) {
	m := newTestMatch(t, time.Hour)
	sess := NewChannelSession("s1", 16)
	r := NewRunner(m, quietLogger(), sess)

	errCh := make(chan error, 1)
	completed := false
	go func() {
		errCh <- r.Run(context.Background(), func(snake.Result) { completed = true })
	}()

	r.Stop()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() = %v, expected nil after Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Stop")
	}
	<-r.Done()

	if completed {
		t.Error("onComplete called for a stopped match")
	}
	if m.Ticks() != 0 {
		t.Errorf("match advanced %d ticks after Stop", m.Ticks())
	}
	r.Stop() // idempotent
}

func TestRunnerContextCancel(t *testing.T) {
	r := NewRunner(newTestMatch(t, time.Hour), quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, expected context.Canceled", err)
	}
}

func TestRunnerStopsWhenSessionLeaves(t *testing.T) {
	sess := NewChannelSession("s1", 16)
	r := NewRunner(newTestMatch(t, time.Hour), quietLogger(), sess)

	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(context.Background(), nil) }()

	sess.Close()
	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after the session closed")
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	sess := NewChannelSession("s1", 2)
	for i := range 3 {
		sess.Send(FrameEvent{Snapshot: snake.Snapshot{Tick: uint64(i)}})
	}

	first := (<-sess.Events()).(FrameEvent)
	if first.Snapshot.Tick != 1 {
		t.Errorf("oldest kept tick = %d, expected 1", first.Snapshot.Tick)
	}
	if sess.Dropped() != 1 {
		t.Errorf("Dropped() = %d, expected 1", sess.Dropped())
	}

	sess.Close()
	sess.Close()
	sess.Send(FrameEvent{})
	if len(sess.Events()) != 1 {
		t.Errorf("closed session accepted an event")
	}
}
