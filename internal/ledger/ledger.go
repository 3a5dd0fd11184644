package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLimit is used by Top when n is not positive.
const DefaultLimit = 10

// SurvivalPrecision is the resolution durable stores keep survival at.
// Submit truncates to it so a reloaded entry compares equal to its source.
const SurvivalPrecision = time.Millisecond

// Filter narrows and orders a Top query.
type Filter struct {
	Category string         // Empty matches every category
	Ranks    map[string]int // Category order, higher first; unknown categories rank 0
}

// Ledger owns the best entry per key.
type Ledger struct {
	mu     sync.RWMutex
	store  Store
	logger *log.Logger
	now    func() time.Time
}

// New creates a ledger over store. A nil logger uses the default logger.
func New(store Store, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.Default()
	}
	return &Ledger{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Submit records e if it beats the stored entry for its key.
// A losing entry is discarded without error. Validation failures wrap
// ErrInvalidEntry and never touch the store; write failures wrap ErrStorage.
func (l *Ledger) Submit(ctx context.Context, e Entry) (Outcome, error) {
	e.Identity = strings.TrimSpace(e.Identity)
	e.Survival = e.Survival.Truncate(SurvivalPrecision)
	if err := e.Validate(); err != nil {
		return Discarded, err
	}
	e.RecordedAt = l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.store.Load(ctx)
	if err != nil {
		l.logger.Warn("ledger unreadable, treating as empty", "error", err)
		entries = nil
	}
	index, err := indexByKey(entries)
	if err != nil {
		l.logger.Error("ledger store is inconsistent", "error", err)
		return Discarded, err
	}

	outcome := Inserted
	if old, ok := index[e.Key()]; ok {
		if !e.Beats(old) {
			l.logger.Debug("submission discarded", "identity", e.Identity, "category", e.Category,
				"score", e.Score, "best", old.Score)
			return Discarded, nil
		}
		outcome = Replaced
	}

	if err := l.store.Put(ctx, e); err != nil {
		return Discarded, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	l.logger.Debug("score recorded", "identity", e.Identity, "category", e.Category,
		"score", e.Score, "outcome", outcome)
	return outcome, nil
}

// Top returns up to n entries ordered by category rank, score and survival,
// all descending. On a store failure it returns an error wrapping ErrStorage
// and callers fall back to an empty list.
func (l *Ledger) Top(ctx context.Context, n int, f Filter) ([]Entry, error) {
	if n <= 0 {
		n = DefaultLimit
	}

	l.mu.RLock()
	entries, err := l.store.Load(ctx)
	l.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if _, err := indexByKey(entries); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Category == "" || e.Category == f.Category {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ra, rb := f.Ranks[a.Category], f.Ranks[b.Category]; ra != rb {
			return ra > rb
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Survival != b.Survival {
			return a.Survival > b.Survival
		}
		// Stable output for equal results
		return a.Key().Identity < b.Key().Identity
	})

	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Clear wipes the ledger.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	l.logger.Info("ledger cleared")
	return nil
}

func indexByKey(entries []Entry) (map[Key]Entry, error) {
	index := make(map[Key]Entry, len(entries))
	for _, e := range entries {
		k := e.Key()
		if _, dup := index[k]; dup {
			return nil, fmt.Errorf("%w: %q in %q", ErrCorrupt, k.Identity, k.Category)
		}
		index[k] = e
	}
	return index, nil
}
