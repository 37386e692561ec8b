package scheduler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"autoposter/internal/domain"
	"autoposter/internal/jsonfile"
)

// JobStore reads and writes the schedule file. The file is re-read on every
// Load so edits made while the scheduler runs are picked up.
type JobStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

func NewJobStore(path string, logger *slog.Logger) *JobStore {
	return &JobStore{path: path, logger: logger}
}

// Load returns the jobs in file order. A missing file is created from
// DefaultJobs. A corrupt file yields no jobs and is left untouched.
func (s *JobStore) Load() []domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if jsonfile.IsNotExist(err) {
		jobs := DefaultJobs()
		s.logger.Info("schedule file not found, writing default template", "path", s.path, "jobs", len(jobs))
		if err := jsonfile.Write(s.path, jobs); err != nil {
			s.logger.Error("failed to write default schedule", "path", s.path, "error", err)
		}
		return jobs
	}
	if err != nil {
		s.logger.Error("failed to read schedule file", "path", s.path, "error", err)
		return nil
	}

	jobs, err := decodeJobs(data)
	if err != nil {
		s.logger.Error("invalid schedule file, no jobs loaded", "path", s.path, "error", err)
		return nil
	}

	s.logger.Debug("schedule loaded", "jobs", len(jobs))
	return jobs
}

// Save replaces the schedule file with jobs as a bare JSON array.
func (s *JobStore) Save(jobs []domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if jobs == nil {
		jobs = []domain.Job{}
	}
	if err := jsonfile.Write(s.path, jobs); err != nil {
		return domain.NewError(domain.KindPersistence, "save schedule", err)
	}
	return nil
}

// decodeJobs accepts the canonical array and the older {"jobs": [...]} form.
func decodeJobs(data []byte) ([]domain.Job, error) {
	var jobs []domain.Job
	arrErr := json.Unmarshal(data, &jobs)
	if arrErr == nil {
		return jobs, nil
	}

	var wrapped struct {
		Jobs *[]domain.Job `json:"jobs"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Jobs == nil {
		return nil, fmt.Errorf("decode schedule: %w", arrErr)
	}
	return *wrapped.Jobs, nil
}

// DefaultJobs is the template written when no schedule file exists.
func DefaultJobs() []domain.Job {
	executed := false
	return []domain.Job{
		{
			Type:        domain.JobDaily,
			Time:        "09:00",
			Task:        "autopost",
			Args:        []string{"rotate", "--count", "1"},
			Enabled:     true,
			Description: "Daily Facebook post",
		},
		{
			Type:         domain.JobInterval,
			EveryMinutes: 180,
			Task:         "autopost",
			Args:         []string{"generate", "--template", "facebook_post", "--var", "topic=our latest news"},
			Enabled:      false,
			Description:  "Generate content every 3 hours",
		},
		{
			Type:        domain.JobOnce,
			RunAt:       "2025-10-26T12:00:00",
			Task:        "backup",
			Enabled:     true,
			Executed:    &executed,
			Description: "One-time backup",
		},
	}
}
