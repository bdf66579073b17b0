package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileCollection stores a collection as a pretty-printed JSON array file
type FileCollection[T any] struct {
	name     string
	filename string
	mu       sync.RWMutex
	logger   *logrus.Logger
}

// NewFileCollection creates a new file-backed collection
func NewFileCollection[T any](name, filename string, logger *logrus.Logger) *FileCollection[T] {
	return &FileCollection[T]{
		name:     name,
		filename: filename,
		logger:   logger,
	}
}

// Name returns the collection name
func (c *FileCollection[T]) Name() string {
	return c.name
}

// Path returns the backing file path
func (c *FileCollection[T]) Path() string {
	return c.filename
}

// All reads the whole collection. A missing file is an empty collection.
func (c *FileCollection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.filename)
	if os.IsNotExist(err) {
		c.logger.Debugf("Storage file %s does not exist, starting with empty %s", c.filename, c.name)
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.filename, err)
	}

	items := make([]T, 0)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", c.filename, err)
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}

// ReplaceAll writes the whole collection atomically
func (c *FileCollection[T]) ReplaceAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if items == nil {
		items = []T{}
	}

	if err := c.save(items); err != nil {
		return err
	}

	c.logger.Debugf("Saved %d %s to %s", len(items), c.name, c.filename)
	return nil
}

// Ensure creates an empty collection file if none exists
func (c *FileCollection[T]) Ensure(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.filename); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if err := c.save([]T{}); err != nil {
		return false, err
	}
	return true, nil
}

// save is an internal method that assumes the mutex is already locked
func (c *FileCollection[T]) save(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}

	if dir := filepath.Dir(c.filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmpFile := c.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpFile, err)
	}

	return os.Rename(tmpFile, c.filename)
}
