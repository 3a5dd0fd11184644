package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestLedger(store Store) *Ledger {
	l := New(store, log.New(io.Discard))
	l.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return l
}

func entry(id string, score int, survival time.Duration, category string) Entry {
	return Entry{Identity: id, Score: score, Survival: survival, Category: category}
}

func TestSubmitKeepsBest(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(NewMemoryStore())

	if out, err := l.Submit(ctx, entry("alice", 10, time.Second, "easy")); err != nil || out != Inserted {
		t.Fatalf("first submit = %v, %v", out, err)
	}
	if out, err := l.Submit(ctx, entry("alice", 8, time.Minute, "easy")); err != nil || out != Discarded {
		t.Fatalf("lower submit = %v, %v", out, err)
	}

	top, err := l.Top(ctx, 1, Filter{Category: "easy"})
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if len(top) != 1 || top[0].Score != 10 || top[0].Survival != time.Second {
		t.Errorf("Top() = %+v, expected the score 10 entry", top)
	}
}

func TestSubmitTieBreaksOnSurvival(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(NewMemoryStore())

	l.Submit(ctx, entry("bob", 5, 10*time.Second, "normal")) //nolint:errcheck
	out, err := l.Submit(ctx, entry("bob", 5, 12*time.Second, "normal"))
	if err != nil || out != Replaced {
		t.Fatalf("longer survival = %v, %v; expected replaced", out, err)
	}
	out, _ = l.Submit(ctx, entry("bob", 5, 12*time.Second, "normal"))
	if out != Discarded {
		t.Errorf("equal result = %v, expected discarded", out)
	}
}

func TestIdentityCaseInsensitiveCategoryExact(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(NewMemoryStore())

	l.Submit(ctx, entry("Alice", 3, 0, "easy")) //nolint:errcheck
	if out, _ := l.Submit(ctx, entry("ALICE", 4, 0, "easy")); out != Replaced {
		t.Errorf("same identity other case = %v, expected replaced", out)
	}
	if out, _ := l.Submit(ctx, entry("alice", 1, 0, "Easy")); out != Inserted {
		t.Errorf("category differing in case = %v, expected inserted", out)
	}

	all, _ := l.Top(ctx, 100, Filter{})
	if len(all) != 2 {
		t.Errorf("Top() = %+v, expected 2 entries", all)
	}
}

func TestSubmitIdempotent(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(NewMemoryStore())
	e := entry("carol", 7, 3*time.Second, "hard")

	l.Submit(ctx, e) //nolint:errcheck
	first, _ := l.Top(ctx, 10, Filter{})
	l.Submit(ctx, e) //nolint:errcheck
	second, _ := l.Top(ctx, 10, Filter{})

	if len(first) != len(second) {
		t.Fatalf("entry count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d changed: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestSubmitTruncatesSurvival(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(NewMemoryStore())

	l.Submit(ctx, entry("erin", 4, 2*time.Second+400*time.Microsecond, "easy")) //nolint:errcheck
	out, err := l.Submit(ctx, entry("erin", 4, 2*time.Second+900*time.Microsecond, "easy"))
	if err != nil || out != Discarded {
		t.Errorf("sub-millisecond gain = %v, %v; expected discarded", out, err)
	}

	top, _ := l.Top(ctx, 1, Filter{})
	if len(top) != 1 || top[0].Survival != 2*time.Second {
		t.Errorf("Top() = %+v, expected survival 2s", top)
	}
}

func TestRankingLaw(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(5))

	for run := range 50 {
		l := newTestLedger(NewMemoryStore())
		var best Entry
		for i := range 30 {
			e := entry("dave", rng.Intn(10), time.Duration(rng.Intn(5))*time.Second, "normal")
			if i == 0 || e.Beats(best) {
				best = e
			}
			if _, err := l.Submit(ctx, e); err != nil {
				t.Fatalf("run %d: Submit() failed: %v", run, err)
			}
		}

		top, _ := l.Top(ctx, 1, Filter{Category: "normal"})
		if len(top) != 1 || top[0].Score != best.Score || top[0].Survival != best.Survival {
			t.Fatalf("run %d: retained %+v, expected score %d survival %v", run, top, best.Score, best.Survival)
		}
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		e    Entry
	}{
		{"empty identity", entry("", 1, 0, "easy")},
		{"blank identity", entry("   ", 1, 0, "easy")},
		{"long identity", entry("abcdefghijklmnopqrstuvwxyz0123456789", 1, 0, "easy")},
		{"empty category", entry("eve", 1, 0, "")},
		{"negative score", entry("eve", -1, 0, "easy")},
		{"negative survival", entry("eve", 1, -time.Second, "easy")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &countingStore{Store: NewMemoryStore()}
			l := newTestLedger(store)
			_, err := l.Submit(context.Background(), tc.e)
			if !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("Submit() = %v, expected ErrInvalidEntry", err)
			}
			if store.loads != 0 || store.puts != 0 {
				t.Error("invalid entry reached the store")
			}
		})
	}
}

func TestTopOrdering(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(NewMemoryStore())
	ranks := map[string]int{"easy": 1, "normal": 2, "hard": 3}

	for _, e := range []Entry{
		entry("a", 50, time.Second, "easy"),
		entry("b", 5, time.Second, "hard"),
		entry("c", 5, 9*time.Second, "hard"),
		entry("d", 20, time.Second, "normal"),
		entry("e", 9, time.Second, "hard"),
	} {
		if _, err := l.Submit(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	top, err := l.Top(ctx, 0, Filter{Ranks: ranks})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"e", "c", "b", "d", "a"}
	if len(top) != len(want) {
		t.Fatalf("Top() returned %d entries, expected %d", len(top), len(want))
	}
	for i, id := range want {
		if top[i].Identity != id {
			t.Errorf("position %d = %s, expected %s", i, top[i].Identity, id)
		}
	}

	limited, _ := l.Top(ctx, 2, Filter{Category: "hard", Ranks: ranks})
	if len(limited) != 2 || limited[0].Identity != "e" || limited[1].Identity != "c" {
		t.Errorf("Top(2, hard) = %+v", limited)
	}
}

func TestConcurrentSubmitsLoseNoUpdate(t *testing.T) {
	ctx := context.Background()
	// slowStore widens the window between load and put
	l := newTestLedger(&slowStore{Store: NewMemoryStore()})

	const workers = 16
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, err := l.Submit(ctx, entry("frank", score, 0, "easy")); err != nil {
				t.Errorf("Submit() failed: %v", err)
			}
			if _, err := l.Submit(ctx, entry(fmt.Sprintf("p%d", score), score, 0, "easy")); err != nil {
				t.Errorf("Submit() failed: %v", err)
			}
		}(w)
	}
	wg.Wait()

	top, err := l.Top(ctx, 100, Filter{Category: "easy"})
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != workers+1 {
		t.Errorf("got %d entries, expected %d", len(top), workers+1)
	}
	for _, e := range top {
		if e.Identity == "frank" && e.Score != workers-1 {
			t.Errorf("frank kept %d, expected %d", e.Score, workers-1)
		}
	}
}

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	t.Run("unreadable store counts as empty", func(t *testing.T) {
		l := newTestLedger(&failingStore{Store: NewMemoryStore(), loadErr: boom})
		out, err := l.Submit(ctx, entry("gina", 1, 0, "easy"))
		if err != nil || out != Inserted {
			t.Errorf("Submit() = %v, %v; expected inserted", out, err)
		}
		if _, err := l.Top(ctx, 5, Filter{}); !errors.Is(err, ErrStorage) {
			t.Errorf("Top() = %v, expected ErrStorage", err)
		}
	})

	t.Run("write failure is reported", func(t *testing.T) {
		l := newTestLedger(&failingStore{Store: NewMemoryStore(), putErr: boom})
		_, err := l.Submit(ctx, entry("gina", 1, 0, "easy"))
		if !errors.Is(err, ErrStorage) || !errors.Is(err, boom) {
			t.Errorf("Submit() = %v, expected ErrStorage wrapping the cause", err)
		}
	})

	t.Run("duplicate keys are fatal", func(t *testing.T) {
		dup := &fixedStore{entries: []Entry{
			entry("Hank", 1, 0, "easy"),
			entry("hank", 2, 0, "easy"),
		}}
		l := newTestLedger(dup)
		if _, err := l.Submit(ctx, entry("ivy", 1, 0, "easy")); !errors.Is(err, ErrCorrupt) {
			t.Errorf("Submit() = %v, expected ErrCorrupt", err)
		}
		if _, err := l.Top(ctx, 5, Filter{}); !errors.Is(err, ErrCorrupt) {
			t.Errorf("Top() = %v, expected ErrCorrupt", err)
		}
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(NewMemoryStore())
	l.Submit(ctx, entry("jo", 1, 0, "easy")) //nolint:errcheck

	if err := l.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if top, _ := l.Top(ctx, 5, Filter{}); len(top) != 0 {
		t.Errorf("Top() after Clear = %+v", top)
	}
}

type countingStore struct {
	Store
	loads, puts int
}

func (s *countingStore) Load(ctx context.Context) ([]Entry, error) {
	s.loads++
	return s.Store.Load(ctx)
}

func (s *countingStore) Put(ctx context.Context, e Entry) error {
	s.puts++
	return s.Store.Put(ctx, e)
}

type slowStore struct {
	Store
}

func (s *slowStore) Load(ctx context.Context) ([]Entry, error) {
	entries, err := s.Store.Load(ctx)
	time.Sleep(time.Millisecond)
	return entries, err
}

type failingStore struct {
	Store
	loadErr, putErr error
}

func (s *failingStore) Load(ctx context.Context) ([]Entry, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.Store.Load(ctx)
}

func (s *failingStore) Put(ctx context.Context, e Entry) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.Store.Put(ctx, e)
}

type fixedStore struct {
	entries []Entry
}

func (s *fixedStore) Load(context.Context) ([]Entry, error) { return s.entries, nil }
func (s *fixedStore) Put(context.Context, Entry) error      { return nil }
func (s *fixedStore) Clear(context.Context) error           { return nil }
