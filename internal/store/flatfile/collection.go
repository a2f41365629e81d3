package flatfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Collection is one pretty-printed JSON array file. Reads degrade to an
// empty slice when the file is missing or unparsable so one corrupt
// category never takes down the rest. The mutex serializes the
// read-modify-write cycle within this process; cross-process writers are
// not coordinated.
type Collection[T any] struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewCollection[T any](path string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{path: path, logger: logger}
}

func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readLocked(), nil
}

func (c *Collection[T]) Append(ctx context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.readLocked()
	records = append(records, rec)
	return c.writeLocked(records)
}

// Update applies fn to the current records under the collection lock and
// rewrites the file when fn reports a change. fn may return a shortened or
// extended slice.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, bool)) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, changed := fn(c.readLocked())
	if !changed {
		return false, nil
	}
	if err := c.writeLocked(records); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(records)
}

func (c *Collection[T]) readLocked() []T {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("flatfile: read failed, treating as empty", "path", c.path, "err", err)
		}
		return nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.Warn("flatfile: parse failed, treating as empty", "path", c.path, "err", err)
		return nil
	}
	return records
}

func (c *Collection[T]) writeLocked(records []T) error {
	if records == nil {
		records = []T{}
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(c.path), err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(c.path), err)
	}
	return nil
}
