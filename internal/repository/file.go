package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"fortnite-stats-bot/internal/model"
)

// FileStore keeps saved searches in a JSON document keyed by user id.
// Every mutation rewrites the whole document through a temp file and rename.
type FileStore struct {
	path  string
	mu    sync.RWMutex
	users map[int64][]model.Query
}

// fileDocument is the on-disk layout. JSON object keys must be strings.
type fileDocument struct {
	Users map[string][]model.Query `json:"users"`
}

// NewFileStore opens path, creating it on the first write if it does not exist.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, users: make(map[int64][]model.Query)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", path).Msg("Saved searches file not found, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read saved searches: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}

	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode saved searches: %w", err)
	}
	for key, list := range doc.Users {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q in saved searches: %w", key, err)
		}
		s.users[userID] = list
	}

	log.Info().Str("path", path).Int("users", len(s.users)).Msg("Loaded saved searches")
	return s, nil
}

func (s *FileStore) Save(_ context.Context, userID int64, q model.Query) (bool, error) {
	if !q.Valid() {
		return false, ErrInvalidQuery
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.users[userID]
	if indexOf(prev, q) >= 0 {
		return false, nil
	}
	s.users[userID] = append(slices.Clone(prev), q)
	if err := s.flush(); err != nil {
		s.users[userID] = prev
		return false, err
	}
	return true, nil
}

func (s *FileStore) List(_ context.Context, userID int64) ([]model.Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.users[userID])
	if out == nil {
		out = []model.Query{}
	}
	return out, nil
}

func (s *FileStore) RemoveAt(_ context.Context, userID int64, index int) (model.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.users[userID]
	if index < 0 || index >= len(prev) {
		return model.Query{}, ErrOutOfRange
	}
	removed := prev[index]
	next := slices.Delete(slices.Clone(prev), index, index+1)
	if len(next) == 0 {
		delete(s.users, userID)
	} else {
		s.users[userID] = next
	}
	if err := s.flush(); err != nil {
		s.users[userID] = prev
		return model.Query{}, err
	}
	return removed, nil
}

func (s *FileStore) Contains(_ context.Context, userID int64, q model.Query) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.users[userID], q) >= 0, nil
}

// flush writes the document atomically. Callers hold s.mu.
func (s *FileStore) flush() error {
	doc := fileDocument{Users: make(map[string][]model.Query, len(s.users))}
	for userID, list := range s.users {
		doc.Users[strconv.FormatInt(userID, 10)] = list
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode saved searches: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create saved searches dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write saved searches: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync saved searches: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace saved searches: %w", err)
	}
	return nil
}
