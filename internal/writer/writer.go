// Package writer persists rendered pages.
package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	perrors "github.com/pstuifzand/opml-pages/internal/errors"
)

// Policy decides what happens when a run writes the same path twice.
type Policy string

const (
	// Overwrite lets the last write win and logs a warning.
	Overwrite Policy = "overwrite"
	// Fail makes the second write an error.
	Fail Policy = "error"
)

// ParsePolicy converts a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", Overwrite:
		return Overwrite, nil
	case Fail:
		return Fail, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q", s)
	}
}

// tracker remembers the paths written during one run.
type tracker struct {
	mu      sync.Mutex
	policy  Policy
	written map[string]int
	log     *slog.Logger
}

func newTracker(policy Policy, logger *slog.Logger) *tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = Overwrite
	}
	return &tracker{policy: policy, written: make(map[string]int), log: logger}
}

// claim records a write to rel and enforces the policy.
func (t *tracker) claim(rel string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.written[rel]
	if n > 0 {
		if t.policy == Fail {
			return perrors.Collision(rel)
		}
		t.log.Warn("Overwriting page written earlier in this run", "path", rel, "writes", n+1)
	}
	t.written[rel] = n + 1
	return nil
}

// collisions returns the paths written more than once, sorted.
func (t *tracker) collisions() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for p, n := range t.written {
		if n > 1 {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// FileWriter writes pages below a root directory.
type FileWriter struct {
	Root string
	*tracker
}

// NewFileWriter creates a writer rooted at root.
func NewFileWriter(root string, policy Policy, logger *slog.Logger) *FileWriter {
	return &FileWriter{Root: root, tracker: newTracker(policy, logger)}
}

// Write stores data at rel below the root, creating parent directories.
func (w *FileWriter) Write(rel string, data []byte) error {
	clean, err := cleanRel(rel)
	if err != nil {
		return perrors.Write(rel, err)
	}
	if err := w.claim(clean); err != nil {
		return err
	}

	target := filepath.Join(w.Root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return perrors.Write(clean, fmt.Errorf("failed to create directory: %w", err)).
			WithContext("file", target)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return perrors.Write(clean, fmt.Errorf("failed to write file: %w", err)).
			WithContext("file", target)
	}
	return nil
}

// Collisions returns the paths written more than once in this run.
func (w *FileWriter) Collisions() []string {
	return w.collisions()
}

// MemoryWriter keeps pages in memory. It is safe for concurrent use.
type MemoryWriter struct {
	*tracker
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewMemoryWriter creates an empty in-memory writer.
func NewMemoryWriter(policy Policy) *MemoryWriter {
	return &MemoryWriter{tracker: newTracker(policy, nil), files: make(map[string][]byte)}
}

func (w *MemoryWriter) Write(rel string, data []byte) error {
	clean, err := cleanRel(rel)
	if err != nil {
		return perrors.Write(rel, err)
	}
	if err := w.claim(clean); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[clean] = append([]byte(nil), data...)
	w.order = append(w.order, clean)
	return nil
}

// File returns the content last written at rel.
func (w *MemoryWriter) File(rel string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.files[rel]
	return data, ok
}

// Paths returns every write in order, including repeated paths.
func (w *MemoryWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.order...)
}

// Collisions returns the paths written more than once.
func (w *MemoryWriter) Collisions() []string {
	return w.collisions()
}

func cleanRel(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty path")
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path %q escapes the output directory", rel)
	}
	return clean, nil
}
