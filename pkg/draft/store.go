package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-formdraft/pkg/model"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "predictionFormData"

// Store loads, saves and clears the snapshot of one form.
type Store struct {
	backend Backend
	key     string
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes diagnostics (corrupt drafts, backend failures) to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore scopes backend to key. An empty key selects DefaultKey.
func NewStore(backend Backend, key string, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("draft: backend is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		backend: backend,
		key:     key,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Key reports the storage key.
func (s *Store) Key() string {
	return s.key
}

// Load returns the non-empty entries of the stored snapshot. Missing,
// unreadable or corrupt data yields an empty snapshot.
func (s *Store) Load() model.Snapshot {
	raw, ok, err := s.backend.Get(s.key)
	if err != nil {
		s.logger.Warn("draft load failed", "key", s.key, "err", err)
		return model.Snapshot{}
	}
	if !ok {
		return model.Snapshot{}
	}
	snapshot, err := Decode(raw)
	if err != nil {
		s.logger.Debug("discarding corrupt draft", "key", s.key, "err", err)
		return model.Snapshot{}
	}
	return snapshot
}

// Save overwrites the stored snapshot with values, empty entries included.
func (s *Store) Save(values model.Snapshot) error {
	data, err := Encode(values)
	if err != nil {
		return err
	}
	if err := s.backend.Set(s.key, data); err != nil {
		return fmt.Errorf("draft: save %s: %w", s.key, err)
	}
	return nil
}

// Clear removes the stored snapshot.
func (s *Store) Clear() error {
	if err := s.backend.Remove(s.key); err != nil {
		return fmt.Errorf("draft: clear %s: %w", s.key, err)
	}
	return nil
}

// Encode serialises a snapshot as a JSON object with sorted keys.
func Encode(values model.Snapshot) (string, error) {
	if values == nil {
		values = model.Snapshot{}
	}
	data, err := json.Marshal(map[string]string(values))
	if err != nil {
		return "", fmt.Errorf("draft: encode snapshot: %w", err)
	}
	return string(data), nil
}

// ErrCorrupt reports stored data that is not a JSON object.
var ErrCorrupt = errors.New("draft: stored value is not a JSON object")

// Decode parses a stored snapshot keeping non-empty string and numeric
// entries. Other value kinds are ignored.
func Decode(raw string) (model.Snapshot, error) {
	if strings.TrimSpace(raw) == "" {
		return model.Snapshot{}, nil
	}
	if !gjson.Valid(raw) {
		return nil, ErrCorrupt
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, ErrCorrupt
	}
	out := model.Snapshot{}
	parsed.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String, gjson.Number:
			if v := value.String(); v != "" {
				out[key.String()] = v
			}
		}
		return true
	})
	return out, nil
}
