// Package assets locates and reads asset files from a list of search roots.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/logger"
)

// ErrNotFound is returned when no root contains the requested asset.
var ErrNotFound = errors.New("asset not found")

// Manager resolves asset names against search roots and caches file contents.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a manager searching the given roots.
// Roots that do not exist are skipped.
func NewManager(roots ...string) *Manager {
	m := &Manager{
		cache: NewCache(),
	}
	for _, root := range roots {
		if err := m.AddRoot(root); err != nil {
			logger.Debug("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}
	return m
}

// AddRoot adds a search directory.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding asset root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding asset root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
	return nil
}

// Roots returns the search roots in the order they were added.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.roots...)
}

// Resolve returns the path of the file named name. Absolute paths and paths
// that exist relative to the working directory are used as is.
func (m *Manager) Resolve(name string) (string, error) {
	if fileExists(name) {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		path := filepath.Join(m.roots[i], name)
		if fileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load returns the contents of the named asset.
func (m *Manager) Load(name string) ([]byte, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset %s: %w", name, err)
	}
	m.cache.Set(path, data)
	logger.Debug("asset loaded", zap.String("path", path), zap.Int("bytes", len(data)))
	return data, nil
}

// Stats returns cache hits and misses.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops every root and cached file.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
