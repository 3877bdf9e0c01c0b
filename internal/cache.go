package internal

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	tt "github.com/gnolang/jcleanup/internal/types"
)

const (
	cacheFileName = "rewrite_cache.gob"

	// DefaultCacheMaxAge bounds how long an entry stays valid.
	DefaultCacheMaxAge = 24 * time.Hour
)

type fileMetadata struct {
	Hash         string
	LastModified time.Time
}

type CacheEntry struct {
	Metadata     fileMetadata
	Dependencies string
	Settings     string
	Issues       []tt.Issue
	Changed      bool
	Updated      string
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache remembers results per file until the file, the dependency files
// (typically the configuration and cleanup profile), the engine settings or
// the entry age say otherwise. Entries are kept in memory; Save writes them
// to CacheDir.
type Cache struct {
	CacheDir string
	entries  map[string]CacheEntry
	mutex    sync.RWMutex
	maxAge   time.Duration

	dependencyFiles []string
	dependencyHash  string
}

// NewCache opens the cache stored in cacheDir, creating the directory if needed.
func NewCache(cacheDir string, dependencyFiles ...string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir:        cacheDir,
		entries:         make(map[string]CacheEntry),
		maxAge:          DefaultCacheMaxAge,
		dependencyFiles: dependencyFiles,
	}

	hash, err := cache.hashDependencies()
	if err != nil {
		return nil, err
	}
	cache.dependencyHash = hash

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) load() error {
	cacheFile := filepath.Join(c.CacheDir, cacheFileName)
	file, err := os.Open(cacheFile)
	if os.IsNotExist(err) {
		return nil // cache file doesn't exist yet. This is fine.
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}

	return nil
}

// Save writes the entries to disk.
func (c *Cache) Save() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	cacheFile := filepath.Join(c.CacheDir, cacheFileName)
	file, err := os.Create(cacheFile)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	return nil
}

// Set records the result for filename, computed by an engine whose
// configuration is summarized by settings.
func (c *Cache) Set(filename, settings string, res *Result) error {
	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	entry := CacheEntry{
		Metadata:     metadata,
		Dependencies: c.dependencyHash,
		Settings:     settings,
		Issues:       res.Issues,
		Changed:      res.Changed,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}
	if res.Changed {
		entry.Updated = res.Updated
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[filename] = entry
	return nil
}

// Get returns the entry for filename if it is still valid and was computed
// with the same settings.
func (c *Cache) Get(filename, settings string) (CacheEntry, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return CacheEntry{}, false
	}

	if entry.Settings != settings || c.isEntryInvalid(filename, entry) {
		delete(c.entries, filename)
		return CacheEntry{}, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry, true
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *Cache) isEntryInvalid(filename string, entry CacheEntry) bool {
	// too old
	if time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	if entry.Dependencies != c.dependencyHash {
		return true
	}

	currentMetadata, err := getFileMetadata(filename)
	if err != nil || !currentMetadata.equal(entry.Metadata) {
		return true
	}

	return false
}

// hashDependencies combines the hashes of the dependency files. A missing
// file contributes its name only.
func (c *Cache) hashDependencies() (string, error) {
	files := append([]string(nil), c.dependencyFiles...)
	sort.Strings(files)

	hash := md5.New()
	for _, file := range files {
		fmt.Fprintf(hash, "%s\x00", file)
		h, err := getFileHash(file)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to get hash for %s: %w", file, err)
		}
		fmt.Fprintf(hash, "%s\x00", h)
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	c.entries = make(map[string]CacheEntry)
	c.mutex.Unlock()

	_ = c.Save() // ignore error as this is a manual operation
}

func (m fileMetadata) equal(other fileMetadata) bool {
	return m.Hash == other.Hash && m.LastModified.Equal(other.LastModified)
}

func getFileMetadata(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{
		Hash:         fmt.Sprintf("%x", hash.Sum(nil)),
		LastModified: info.ModTime(),
	}, nil
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
