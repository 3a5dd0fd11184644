package session

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/ledger"
)

// DuelRecord is the outcome of a two-player match for history storage.
type DuelRecord struct {
	Category string
	Players  [2]string
	Scores   [2]int
	Survival [2]time.Duration
	Winner   int // 0 for a draw
	Ticks    uint64
	EndedAt  time.Time
}

// DuelRecorder stores duel history. Implemented by storage so the session
// layer does not depend on a database.
type DuelRecorder interface {
	RecordDuel(ctx context.Context, rec DuelRecord) error
}

// Submission is the outcome of handing one actor's result to the ledger.
type Submission struct {
	Player   core.PlayerID
	Identity string
	Outcome  ledger.Outcome
	Err      error
}

// Status is the line shown to the player after the match.
func (s Submission) Status() string {
	switch {
	case s.Err != nil:
		return "score not saved"
	case s.Outcome.Saved():
		return "score saved"
	default:
		return "not a new best"
	}
}

// Submitter hands terminal results to the ledger.
type Submitter struct {
	ledger *ledger.Ledger
	duels  DuelRecorder
	logger *log.Logger
	now    func() time.Time
}

// NewSubmitter creates a submitter. duels may be nil.
func NewSubmitter(l *ledger.Ledger, duels DuelRecorder, logger *log.Logger) *Submitter {
	if logger == nil {
		logger = log.Default()
	}
	return &Submitter{ledger: l, duels: duels, logger: logger, now: time.Now}
}

// Submit records one entry per actor that has an identity; identities are
// indexed by player slot. Failures are reported per actor and logged, never
// returned as a single error, so the caller can still show the result.
func (s *Submitter) Submit(ctx context.Context, res snake.Result, identities []string) []Submission {
	var subs []Submission
	for _, a := range res.Actors {
		identity := identityFor(identities, a.Player)
		if identity == "" {
			continue
		}

		sub := Submission{Player: a.Player, Identity: identity}
		sub.Outcome, sub.Err = s.ledger.Submit(ctx, ledger.Entry{
			Identity: identity,
			Score:    a.Score,
			Survival: a.Survival,
			Category: res.Category,
		})
		if sub.Err != nil {
			s.logger.Warn("score not saved", "identity", identity, "category", res.Category, "error", sub.Err)
		} else {
			s.logger.Info("score submitted", "identity", identity, "category", res.Category,
				"score", a.Score, "outcome", sub.Outcome)
		}
		subs = append(subs, sub)
	}

	if res.Duel() && s.duels != nil {
		s.recordDuel(ctx, res, identities)
	}
	return subs
}

func (s *Submitter) recordDuel(ctx context.Context, res snake.Result, identities []string) {
	rec := DuelRecord{
		Category: res.Category,
		Winner:   int(res.Winner),
		Ticks:    res.Ticks,
		EndedAt:  s.now(),
	}
	for i := range 2 {
		player := core.PlayerID(i + 1)
		rec.Players[i] = identityFor(identities, player)
		if rec.Players[i] == "" {
			rec.Players[i] = fmt.Sprintf("P%d", i+1)
		}
		if a, ok := res.Actor(player); ok {
			rec.Scores[i] = a.Score
			rec.Survival[i] = a.Survival
		}
	}

	// Best effort; history is not part of the ledger
	if err := s.duels.RecordDuel(ctx, rec); err != nil {
		s.logger.Warn("duel not recorded", "error", err)
	}
}

func identityFor(identities []string, p core.PlayerID) string {
	i := p.Index()
	if i < 0 || i >= len(identities) {
		return ""
	}
	return identities[i]
}
