package tempfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager stages uploaded documents on local disk until OCR has read them.
type Manager struct {
	dir    string
	logger *slog.Logger
}

// NewManager picks the first writable candidate: dir (when set), the system
// temp dir, then ./tmp. A probe file is written and removed to prove access.
func NewManager(dir string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var candidates []string
	if dir != "" {
		candidates = append(candidates, dir)
	}
	candidates = append(candidates, filepath.Join(os.TempDir(), "po-ocr"), "tmp")

	var errs []error
	for _, c := range candidates {
		if err := probe(c); err != nil {
			logger.Debug("tempfiles.candidate.rejected", "dir", c, "error", err)
			errs = append(errs, err)
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			abs = c
		}
		logger.Info("tempfiles.dir.selected", "dir", abs)
		return &Manager{dir: abs, logger: logger}, nil
	}
	return nil, fmt.Errorf("no writable temp directory: %w", errors.Join(errs...))
}

func probe(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if _, err := f.WriteString("ok"); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Remove(name)
}

func (m *Manager) Dir() string { return m.dir }

// Save writes data to <uuid>_<base name> and returns the full path.
func (m *Manager) Save(name string, data []byte) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	path := filepath.Join(m.dir, uuid.NewString()+"_"+base)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		m.logger.Error("tempfiles.save.failed", "path", path, "error", err)
		return "", fmt.Errorf("save temp file: %w", err)
	}
	m.logger.Debug("tempfiles.saved", "path", path, "bytes", len(data))
	return path, nil
}

// Remove deletes path; a file that is already gone is not an error.
func (m *Manager) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("tempfiles.remove.failed", "path", path, "error", err)
		return
	}
	m.logger.Debug("tempfiles.removed", "path", path)
}

// Sweep deletes regular files older than maxAge and reports how many went.
func (m *Manager) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		p := filepath.Join(m.dir, e.Name())
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("tempfiles.sweep.remove_failed", "path", p, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		m.logger.Info("tempfiles.swept", "removed", removed, "max_age", maxAge.String())
	}
	return removed, nil
}
