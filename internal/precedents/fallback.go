package precedents

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// FallbackLog is a best-effort JSONL append target used only when the primary
// store is degraded. It exists so a development environment can inspect what
// failed to persist; it is never a durability substitute and a fallback write
// never acknowledges a save.
type FallbackLog struct {
	path string
	mu   sync.Mutex
}

// NewFallbackLog creates a fallback log writing to path.
func NewFallbackLog(path string) *FallbackLog {
	return &FallbackLog{path: path}
}

type fallbackLine struct {
	FailedAt time.Time `json:"failed_at"`
	Reason   string    `json:"reason"`
	Entry    Entry     `json:"entry"`
}

// Append writes one failed entry as a JSON line. The file is locked for the
// duration of the write and synced before release.
func (f *FallbackLog) Append(entry Entry, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create fallback dir: %w", err)
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open fallback log: %w", err)
	}
	defer file.Close()

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("flock fallback log: %w", err)
	}
	defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN)

	line, err := json.Marshal(fallbackLine{
		FailedAt: time.Now().UTC(),
		Reason:   reason,
		Entry:    entry,
	})
	if err != nil {
		return fmt.Errorf("marshal fallback entry: %w", err)
	}

	if _, err := file.Seek(0, 2); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write fallback entry: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync fallback log: %w", err)
	}

	return nil
}
