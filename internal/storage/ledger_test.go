package storage

import (
	"context"
	"io"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/ledger"
)

// durableStores opens a fresh instance of every persistent backend.
func durableStores(t *testing.T) map[string]func() ledger.Store {
	t.Helper()
	return map[string]func() ledger.Store{
		"file": func() ledger.Store {
			fs, err := OpenFile(filepath.Join(t.TempDir(), "scores.json"), log.New(io.Discard))
			if err != nil {
				t.Fatalf("OpenFile() failed: %v", err)
			}
			return fs
		},
		"sqlite": func() ledger.Store {
			return openTestStore(t)
		},
	}
}

func TestLedgerResubmitIsDiscarded(t *testing.T) {
	ctx := context.Background()
	// Match survivals carry sub-millisecond precision
	e := ledger.Entry{Identity: "alice", Score: 10, Survival: 12345400 * time.Microsecond, Category: "easy"}

	for name, open := range durableStores(t) {
		t.Run(name, func(t *testing.T) {
			l := ledger.New(open(), log.New(io.Discard))

			if out, err := l.Submit(ctx, e); err != nil || out != ledger.Inserted {
				t.Fatalf("first Submit() = %v, %v", out, err)
			}
			first, err := l.Top(ctx, 10, ledger.Filter{})
			if err != nil {
				t.Fatalf("Top() failed: %v", err)
			}

			time.Sleep(2 * time.Millisecond)
			if out, err := l.Submit(ctx, e); err != nil || out != ledger.Discarded {
				t.Fatalf("second Submit() = %v, %v; expected discarded", out, err)
			}
			second, err := l.Top(ctx, 10, ledger.Filter{})
			if err != nil {
				t.Fatalf("Top() failed: %v", err)
			}

			if len(first) != 1 || len(second) != 1 {
				t.Fatalf("entries %d -> %d, expected 1", len(first), len(second))
			}
			a, b := first[0], second[0]
			if a.Score != b.Score || a.Survival != b.Survival || !a.RecordedAt.Equal(b.RecordedAt) {
				t.Errorf("entry changed: %+v -> %+v", a, b)
			}
			if a.Survival != 12345*time.Millisecond {
				t.Errorf("Survival = %v, expected 12.345s", a.Survival)
			}
		})
	}
}

func TestLedgerRetainsBestAcrossSubmissions(t *testing.T) {
	ctx := context.Background()

	for name, open := range durableStores(t) {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))
			for run := range 5 {
				l := ledger.New(open(), log.New(io.Discard))
				var best ledger.Entry
				for i := range 20 {
					survival := time.Duration(rng.Intn(3))*time.Second + time.Duration(rng.Intn(3_000_000))
					e := ledger.Entry{Identity: "dave", Score: rng.Intn(4), Survival: survival, Category: "normal"}
					if _, err := l.Submit(ctx, e); err != nil {
						t.Fatalf("run %d: Submit() failed: %v", run, err)
					}
					e.Survival = e.Survival.Truncate(ledger.SurvivalPrecision)
					if i == 0 || e.Beats(best) {
						best = e
					}
				}

				top, err := l.Top(ctx, 1, ledger.Filter{Category: "normal"})
				if err != nil {
					t.Fatalf("run %d: Top() failed: %v", run, err)
				}
				if len(top) != 1 || top[0].Score != best.Score || top[0].Survival != best.Survival {
					t.Fatalf("run %d: retained %+v, expected score %d survival %v", run, top, best.Score, best.Survival)
				}
			}
		})
	}
}
