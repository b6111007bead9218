package draft

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Backend is a string key-value store in the style of browser local storage.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryBackend keeps entries in process memory.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]string)}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryBackend) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// FileBackend stores each key as a JSON file under a directory of an afero
// filesystem. Writes go through a temp file and rename so a crash never
// leaves a half-written draft behind.
type FileBackend struct {
	fs  afero.Fs
	dir string
}

// NewFileBackend returns a backend rooted at dir. A nil fs selects the OS
// filesystem.
func NewFileBackend(fsys afero.Fs, dir string) *FileBackend {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileBackend{fs: fsys, dir: dir}
}

// Path returns the file used for key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, url.PathEscape(strings.TrimSpace(key))+".json")
}

func (b *FileBackend) Get(key string) (string, bool, error) {
	data, err := afero.ReadFile(b.fs, b.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("draft: read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (b *FileBackend) Set(key, value string) error {
	return writeFileAtomic(b.fs, b.Path(key), []byte(value))
}

func (b *FileBackend) Remove(key string) error {
	err := b.fs.Remove(b.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
		return fmt.Errorf("draft: remove %s: %w", key, err)
	}
	return nil
}

func writeFileAtomic(fsys afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("draft: create directory %s: %w", dir, err)
	}

	tmpFile, err := afero.TempFile(fsys, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("draft: create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = fsys.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("draft: write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("draft: sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("draft: close temp file: %w", err)
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("draft: rename temp file to %s: %w", path, err)
	}
	return nil
}
