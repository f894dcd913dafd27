package nudge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// HistoryEntry is one recorded nudge send.
type HistoryEntry struct {
	Level  int       `json:"level"`
	SentAt time.Time `json:"sent_at"`
}

// Record is the persisted escalation state for one recipient. History is
// append-only and the record is never deleted.
type Record struct {
	StudentName  string         `json:"student_name"`
	CurrentLevel int            `json:"current_level"`
	LastSentAt   time.Time      `json:"last_sent_at"`
	History      []HistoryEntry `json:"history"`
}

// Store persists nudge records in a single JSON file keyed by recipient
// email. Every update reads and rewrites the whole file; the mutex
// serializes in-process callers. Deployments with concurrent sender
// processes must serialize updates externally.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store backed by the JSON file at path. The file is
// created lazily on first Record.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the record for a recipient, or ok=false if none exists.
func (s *Store) Get(email string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load()
	if err != nil {
		return Record{}, false, err
	}

	rec, ok := history[email]
	return rec, ok, nil
}

// Record appends a nudge send for a recipient and persists the updated
// history. Call this only after a confirmed successful send. The stored
// level never decreases.
func (s *Store) Record(email, name string, level int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load()
	if err != nil {
		return err
	}

	rec := history[email]
	if level < rec.CurrentLevel {
		level = rec.CurrentLevel
	}
	rec.StudentName = name
	rec.CurrentLevel = level
	rec.LastSentAt = now
	rec.History = append(rec.History, HistoryEntry{Level: level, SentAt: now})
	history[email] = rec

	if err := s.save(history); err != nil {
		return err
	}

	zap.L().Debug("nudge: recorded send",
		zap.String("email", email),
		zap.Int("level", level),
	)
	return nil
}

// All returns a copy of every record keyed by recipient email.
func (s *Store) All() (map[string]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]Record), nil
		}
		return nil, eris.Wrap(err, "nudge: read history file")
	}

	history := make(map[string]Record)
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, eris.Wrap(err, "nudge: parse history file")
	}
	return history, nil
}

// save rewrites the whole history atomically via a temp file rename, so a
// crash mid-write never leaves a truncated file behind.
func (s *Store) save(history map[string]Record) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return eris.Wrap(err, "nudge: marshal history")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".nudge-*.json")
	if err != nil {
		return eris.Wrap(err, "nudge: create temp file")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return eris.Wrap(err, "nudge: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return eris.Wrap(err, "nudge: close temp file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return eris.Wrap(err, "nudge: replace history file")
	}
	return nil
}
