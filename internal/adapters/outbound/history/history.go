package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

const historyFile = ".a11ykraft/history/audits.json"

// DefaultMaxEntries bounds the history file; the oldest entries are dropped.
const DefaultMaxEntries = 500

// FileHistory implements domain.AuditHistory using JSON file storage.
type FileHistory struct {
	maxEntries int
}

func New() *FileHistory {
	return &FileHistory{maxEntries: DefaultMaxEntries}
}

// NewWithLimit keeps at most n entries. n <= 0 disables the limit.
func NewWithLimit(n int) *FileHistory {
	return &FileHistory{maxEntries: n}
}

// Path returns the history file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, historyFile)
}

func (h *FileHistory) Save(dir string, entry domain.AuditEntry) error {
	entries, err := h.Load(dir)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if h.maxEntries > 0 && len(entries) > h.maxEntries {
		entries = entries[len(entries)-h.maxEntries:]
	}

	fp := Path(dir)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

func (h *FileHistory) Load(dir string) ([]domain.AuditEntry, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}

	return entries, nil
}

// ForDocument filters entries to one document, oldest first.
func ForDocument(entries []domain.AuditEntry, document string) []domain.AuditEntry {
	out := make([]domain.AuditEntry, 0, len(entries))
	for _, e := range entries {
		if e.Document == document {
			out = append(out, e)
		}
	}
	return out
}
