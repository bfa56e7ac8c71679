// Package filestore keeps one layout blob per file in a directory and can
// watch the directory for edits made outside the process.
package filestore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const ext = ".json"

var ErrInvalidKey = errors.New("filestore: invalid key")

// Store implements layout.Store with files named <key>.json.
type Store struct {
	dir     string
	logger  *zap.Logger
	mu      sync.RWMutex
	// written holds the digest of the last value Set wrote per key.
	written map[string][sha256.Size]byte
}

// New creates the directory when needed and returns a store rooted at it.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger, written: map[string][sha256.Size]byte{}}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+ext), nil
}

// Get reads the file for key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("filestore: read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes the value through a temp file and rename.
func (s *Store) Set(_ context.Context, key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	s.written[key] = sha256.Sum256([]byte(value))
	return nil
}

// Keys lists the keys that have a file in the directory, sorted.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("filestore: list %s: %w", s.dir, err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ext))
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch calls fn with the key of every layout file created, written or
// removed by another process until ctx is cancelled. Events whose file
// content matches the last value this store wrote are skipped. It blocks.
func (s *Store) Watch(ctx context.Context, fn func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("filestore: watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("filestore: watch %s: %w", s.dir, err)
	}
	s.logger.Debug("filestore watching", zap.String("dir", s.dir))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			key, relevant := keyForEvent(event)
			if !relevant || s.ownWrite(key, event) {
				continue
			}
			s.logger.Debug("filestore change", zap.String("key", key), zap.String("op", event.Op.String()))
			fn(key)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("filestore watch error", zap.Error(err))
		}
	}
}

// ownWrite reports whether the file behind event still holds what Set last
// wrote for key.
func (s *Store) ownWrite(key string, event fsnotify.Event) bool {
	if event.Has(fsnotify.Remove) {
		s.mu.Lock()
		delete(s.written, key)
		s.mu.Unlock()
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	want, ok := s.written[key]
	if !ok {
		return false
	}
	data, err := os.ReadFile(filepath.Join(s.dir, key+ext))
	if err != nil {
		return false
	}
	return sha256.Sum256(data) == want
}

func keyForEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ext) {
		return "", false
	}
	return strings.TrimSuffix(base, ext), true
}
