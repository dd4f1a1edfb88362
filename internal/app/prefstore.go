package app

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Persisted preference keys. Plain strings, no schema versioning.
const (
	PrefKeyTheme       = "dashboard-theme"
	PrefKeyView        = "dashboard-view"
	PrefKeyLayout      = "dashboard-layout"
	PrefKeyRefreshRate = "dashboard-refresh-rate"
)

// PrefStore is key/value storage for user preferences. Callers own semantic
// correctness of the values; the store does no validation.
type PrefStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// FilePrefStore persists preferences as a JSON object in a single file,
// written through on every Set. A missing or unreadable file reads as "no
// saved preferences"; write failures are logged and swallowed. Storage
// problems never fail the caller.
type FilePrefStore struct {
	logger *zap.Logger
	path   string

	mu     sync.Mutex
	values map[string]string
}

func NewFilePrefStore(logger *zap.Logger, path string) *FilePrefStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &FilePrefStore{
		logger: logger,
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("preference store unreadable, starting empty",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		logger.Warn("preference store corrupt, starting empty",
			zap.String("path", path),
			zap.Error(err),
		)
		s.values = make(map[string]string)
	}

	return s
}

func (s *FilePrefStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok
}

func (s *FilePrefStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		s.logger.Warn("failed to encode preferences", zap.Error(err))
		return
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("failed to write preferences",
			zap.String("path", s.path),
			zap.Error(err),
		)
	}
}
