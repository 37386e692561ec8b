package rotation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"autoposter/internal/domain"
	"autoposter/internal/jsonfile"
)

// State maps a normalized asset path to its raw last-posted timestamp.
type State map[string]string

// LastPosted returns the parsed timestamp for path. An absent or unparsable
// value reports ok=false.
func (s State) LastPosted(path string) (time.Time, bool) {
	raw, ok := s[path]
	if !ok {
		return time.Time{}, false
	}
	t, err := domain.ParseTimestamp(raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// entry accepts both the plain timestamp string and the older
// {"last_posted": "..."} object.
type entry string

func (e *entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = entry(s)
		return nil
	}

	var legacy struct {
		LastPosted string `json:"last_posted"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("unrecognized rotation entry: %s", data)
	}
	*e = entry(legacy.LastPosted)
	return nil
}

// FileStore keeps the rotation state in a single JSON object file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the state. A missing file is an empty state; an unreadable or
// corrupt file is treated the same way and logged.
func (s *FileStore) Load() State {
	var raw map[string]entry
	err := jsonfile.Read(s.path, &raw)
	if jsonfile.IsNotExist(err) {
		return State{}
	}
	if err != nil {
		s.logger.Warn("rotation state unreadable, starting empty", "path", s.path, "error", err)
		return State{}
	}

	state := make(State, len(raw))
	for k, v := range raw {
		state[k] = string(v)
	}
	return state
}

// Save rewrites the whole file atomically.
func (s *FileStore) Save(state State) error {
	if err := jsonfile.Write(s.path, state); err != nil {
		return domain.NewError(domain.KindPersistence, "save rotation state", err)
	}
	return nil
}
