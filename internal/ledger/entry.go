// Package ledger keeps the best score per identity and category and
// answers ranked queries over them. All mutation goes through a single
// lock that covers the whole load-modify-save cycle.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidEntry is returned for entries that fail validation.
	ErrInvalidEntry = errors.New("ledger: invalid entry")
	// ErrStorage wraps failures of the durable store.
	ErrStorage = errors.New("ledger: storage failure")
	// ErrCorrupt means the store holds two entries for one key.
	ErrCorrupt = errors.New("ledger: duplicate key in store")
)

// MaxIdentityLen bounds identity length in runes.
const MaxIdentityLen = 32

// Entry is one recorded result.
type Entry struct {
	Identity   string
	Score      int
	Survival   time.Duration
	Category   string
	RecordedAt time.Time
}

// Key identifies the single entry the ledger keeps per identity and category.
type Key struct {
	Identity string // Lowercased
	Category string
}

// Key returns the uniqueness key; identity compares case-insensitively.
func (e Entry) Key() Key {
	return Key{Identity: strings.ToLower(e.Identity), Category: e.Category}
}

// Validate checks the range constraints of a submission.
func (e Entry) Validate() error {
	switch {
	case strings.TrimSpace(e.Identity) == "":
		return fmt.Errorf("%w: identity is empty", ErrInvalidEntry)
	case len([]rune(e.Identity)) > MaxIdentityLen:
		return fmt.Errorf("%w: identity longer than %d characters", ErrInvalidEntry, MaxIdentityLen)
	case strings.TrimSpace(e.Category) == "":
		return fmt.Errorf("%w: category is empty", ErrInvalidEntry)
	case e.Score < 0:
		return fmt.Errorf("%w: score %d is negative", ErrInvalidEntry, e.Score)
	case e.Survival < 0:
		return fmt.Errorf("%w: survival %v is negative", ErrInvalidEntry, e.Survival)
	}
	return nil
}

// Beats reports whether e should replace old: a higher score, or an equal
// score with a longer survival.
func (e Entry) Beats(old Entry) bool {
	if e.Score != old.Score {
		return e.Score > old.Score
	}
	return e.Survival > old.Survival
}

// Outcome is what Submit did with an entry.
type Outcome int

const (
	Discarded Outcome = iota
	Inserted
	Replaced
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	default:
		return "discarded"
	}
}

// Saved reports whether the entry is now the stored best.
func (o Outcome) Saved() bool {
	return o == Inserted || o == Replaced
}
