package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/tui-snake/internal/ledger"
)

// ErrCorruptFile is returned by FileStore.Load when the ledger file could
// not be parsed. The raw content is preserved next to it before removal.
var ErrCorruptFile = errors.New("storage: corrupt ledger file")

// fileRecord is the on-disk shape of one entry.
type fileRecord struct {
	Identity   string    `json:"identity"`
	Score      int       `json:"score"`
	SurvivalMs int64     `json:"survival_ms"`
	Category   string    `json:"category"`
	RecordedAt time.Time `json:"recorded_at"`
}

// FileStore keeps ledger entries as a JSON array in one file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
	now    func() time.Time
	read   func(name string) ([]byte, error)

	// blocked is set when corrupt content could not be preserved;
	// writes are refused so the content is not overwritten.
	blocked error
}

// OpenFile prepares a file-backed store at path. The file is created on
// the first write.
func OpenFile(path string, logger *log.Logger) (*FileStore, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FileStore{path: path, logger: logger, now: time.Now, read: os.ReadFile}, nil
}

// Path returns the ledger file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load returns every entry. A missing or empty file is an empty ledger.
func (f *FileStore) Load(_ context.Context) ([]ledger.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.records()
	if err != nil {
		return nil, err
	}
	entries := make([]ledger.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, ledger.Entry{
			Identity:   r.Identity,
			Score:      r.Score,
			Survival:   time.Duration(r.SurvivalMs) * time.Millisecond,
			Category:   r.Category,
			RecordedAt: r.RecordedAt,
		})
	}
	return entries, nil
}

// Put inserts e or replaces the entry with the same key if e beats it.
func (f *FileStore) Put(_ context.Context, e ledger.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.records()
	switch {
	case err == nil:
	case f.blocked != nil:
		return f.blocked
	case errors.Is(err, ErrCorruptFile):
		// Corrupt content was preserved; start over
		records = nil
	default:
		return err
	}

	rec := fileRecord{
		Identity:   e.Identity,
		Score:      e.Score,
		SurvivalMs: e.Survival.Milliseconds(),
		Category:   e.Category,
		RecordedAt: e.RecordedAt.UTC(),
	}

	key := e.Key()
	replaced := false
	for i, r := range records {
		old := r.entry()
		if old.Key() != key {
			continue
		}
		if e.Beats(old) {
			records[i] = rec
		}
		replaced = true
		break
	}
	if !replaced {
		records = append(records, rec)
	}

	return f.write(records)
}

// Clear removes all entries.
func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blocked != nil {
		return f.blocked
	}
	return f.write([]fileRecord{})
}

var _ ledger.Store = (*FileStore)(nil)

func (r fileRecord) entry() ledger.Entry {
	return ledger.Entry{
		Identity: r.Identity,
		Score:    r.Score,
		Survival: time.Duration(r.SurvivalMs) * time.Millisecond,
		Category: r.Category,
	}
}

func (f *FileStore) records() ([]fileRecord, error) {
	data, err := f.read(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		if qerr := f.quarantine(data); qerr != nil {
			f.blocked = fmt.Errorf("%w: %s left in place: %w", ErrCorruptFile, f.path, qerr)
			return nil, f.blocked
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptFile, f.path, err)
	}
	f.blocked = nil
	return records, nil
}

// quarantine writes data to a zstd sidecar, then removes the corrupt file.
func (f *FileStore) quarantine(data []byte) error {
	sidecar := fmt.Sprintf("%s.corrupt-%d.zst", f.path, f.now().Unix())
	out, err := os.OpenFile(sidecar, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", sidecar, err)
	}

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		out.Close()
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		out.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Remove(f.path); err != nil {
		return fmt.Errorf("cannot remove %s: %w", f.path, err)
	}
	f.logger.Warn("corrupt ledger preserved", "path", f.path, "sidecar", sidecar, "bytes", len(data))
	return nil
}

// write replaces the file atomically via a temp file and rename.
func (f *FileStore) write(records []fileRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: cannot encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot write ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("storage: cannot replace ledger: %w", err)
	}
	return nil
}

// ReadQuarantined decompresses a sidecar written for a corrupt ledger file.
func ReadQuarantined(path string) ([]byte, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(dec)
}
