package sessions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"sync"

	"github.com/Jacobbrewer1/oav/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/natefinch/atomic"
)

// ErrMalformedState is returned by Load when the session file exists but is not a JSON object.
var ErrMalformedState = errors.New("malformed session state")

// Document is a gate session. Its shape belongs to whoever writes it.
type Document map[string]any

// Store holds every gate session in memory. Load reads the whole file once, and every flush rewrites the whole
// file. All mutations and flushes are serialised under a single lock, so the file on disk is always one complete
// snapshot.
type Store struct {
	// l is the logger.
	l *slog.Logger

	// path is the location of the session file.
	path string

	// mu guards sessions and the file.
	mu sync.RWMutex

	// sessions are the loaded gate sessions.
	sessions map[string]Document
}

// NewStore creates a new session store for the file at path. Load must be called before use.
func NewStore(l *slog.Logger, path string) *Store {
	return &Store{
		l:        l.With(slog.String("session_file", path)),
		path:     path,
		sessions: make(map[string]Document),
	}
}

// Load reads the session file into memory, creating it with an empty mapping if it does not exist. A copy of the
// loaded mapping is returned.
func (s *Store) Load() (map[string]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		s.l.Info("Session file does not exist, creating it")
		if err := atomic.WriteFile(s.path, bytes.NewReader([]byte("{}"))); err != nil {
			return nil, fmt.Errorf("error creating session file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("error checking session file: %w", err)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening session file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading session file: %w", err)
	}

	var loaded map[string]Document
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedState, s.path, err)
	}

	// A bare "null" decodes without error, but is not a mapping.
	if loaded == nil {
		return nil, fmt.Errorf("%w: %s: not an object", ErrMalformedState, s.path)
	}

	s.sessions = loaded
	s.l.Debug("Loaded gate sessions", slog.Int("count", len(loaded)))
	return cloneSessions(loaded), nil
}

// Get returns the session stored under key.
func (s *Store) Get(key string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	return maps.Clone(doc), true
}

// Put stores doc under key in memory. Call Flush to persist it, or use Update to do both.
func (s *Store) Put(key string, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = maps.Clone(doc)
}

// Delete removes the session stored under key from memory.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
}

// Len returns the number of sessions held in memory.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// Update stores doc under key and flushes the whole mapping to disk.
func (s *Store) Update(key string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = maps.Clone(doc)
	return s.flushLocked()
}

// Remove deletes the session stored under key and flushes the whole mapping to disk.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	return s.flushLocked()
}

// Flush writes the whole mapping to disk.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	b, err := json.MarshalIndent(s.sessions, "", "    ")
	if err != nil {
		monitoring.SessionFlushes.WithLabelValues("error").Inc()
		return fmt.Errorf("error encoding sessions: %w", err)
	}

	// atomic.WriteFile writes to a temporary file and renames it over the target, so readers never see a
	// truncated file.
	if err := atomic.WriteFile(s.path, bytes.NewReader(b)); err != nil {
		monitoring.SessionFlushes.WithLabelValues("error").Inc()
		s.l.Error("Error writing session file", slog.String(logging.KeyError, err.Error()))
		return fmt.Errorf("error writing session file: %w", err)
	}

	monitoring.SessionFlushes.WithLabelValues("ok").Inc()
	return nil
}

func cloneSessions(in map[string]Document) map[string]Document {
	out := make(map[string]Document, len(in))
	for k, v := range in {
		out[k] = maps.Clone(v)
	}
	return out
}
