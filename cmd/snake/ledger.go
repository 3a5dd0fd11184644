package main

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/ledger"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Ledger backends selectable with --ledger.
const (
	backendSQLite = "sqlite"
	backendFile   = "file"
	backendMemory = "memory"
)

// ledgerHandle bundles the ledger with its backing store.
// db is nil unless the backend is sqlite.
type ledgerHandle struct {
	ledger *ledger.Ledger
	db     *storage.Store
	close  func()
}

// submitter returns a submitter that also records duel history when the
// backend supports it.
func (h ledgerHandle) submitter() *session.Submitter {
	var duels session.DuelRecorder
	if h.db != nil {
		duels = h.db
	}
	return session.NewSubmitter(h.ledger, duels, logger)
}

func openLedger() (ledgerHandle, error) {
	switch flagLedger {
	case backendSQLite:
		path := flagDBPath
		if path == "" {
			path = "~/.snake/scores.db"
		}
		db, err := storage.Open(path)
		if err != nil {
			return ledgerHandle{}, err
		}
		return ledgerHandle{
			ledger: ledger.New(db, logger),
			db:     db,
			close: func() {
				if err := db.Close(); err != nil {
					logger.Warn("closing ledger database", "error", err)
				}
			},
		}, nil

	case backendFile:
		path := flagDBPath
		if path == "" {
			path = "~/.snake/scores.json"
		}
		fs, err := storage.OpenFile(path, logger)
		if err != nil {
			return ledgerHandle{}, err
		}
		return ledgerHandle{ledger: ledger.New(fs, logger), close: func() {}}, nil

	case backendMemory:
		return ledgerHandle{ledger: ledger.New(ledger.NewMemoryStore(), logger), close: func() {}}, nil
	}
	return ledgerHandle{}, fmt.Errorf("unknown --ledger %q (want sqlite, file or memory)", flagLedger)
}

// openLedgerOrMemory falls back to an in-memory ledger so a broken store
// never prevents play.
func openLedgerOrMemory() ledgerHandle {
	h, err := openLedger()
	if err != nil {
		logger.Warn("ledger unavailable, scores will not persist", "backend", flagLedger, "error", err)
		return ledgerHandle{ledger: ledger.New(ledger.NewMemoryStore(), logger), close: func() {}}
	}
	return h
}
