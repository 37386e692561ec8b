package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"autoposter/internal/domain"
)

// JobRunEntry is one row of job_runs.
type JobRunEntry struct {
	ID         string    `db:"id"`
	JobIndex   int       `db:"job_index"`
	Task       string    `db:"task"`
	Outcome    string    `db:"outcome"`
	ExitCode   int       `db:"exit_code"`
	Stdout     string    `db:"stdout"`
	Stderr     string    `db:"stderr"`
	Error      string    `db:"error"`
	StartedAt  time.Time `db:"started_at"`
	DurationMs int64     `db:"duration_ms"`
}

type JobRunStore struct {
	db *sqlx.DB
}

func NewJobRunStore(db *sqlx.DB) *JobRunStore {
	return &JobRunStore{db: db}
}

func (s *JobRunStore) Insert(ctx context.Context, run *domain.JobRun) error {
	query := `
		INSERT INTO job_runs (
			id, job_index, task, outcome, exit_code, stdout, stderr, error, started_at, duration_ms
		) VALUES (
			:id, :job_index, :task, :outcome, :exit_code, :stdout, :stderr, :error, :started_at, :duration_ms
		)
		ON CONFLICT (id) DO NOTHING`

	entry := JobRunEntry{
		ID:         run.ID,
		JobIndex:   run.JobIndex,
		Task:       run.Task,
		Outcome:    string(run.Outcome),
		ExitCode:   run.ExitCode,
		Stdout:     run.Stdout,
		Stderr:     run.Stderr,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		DurationMs: run.Duration.Milliseconds(),
	}

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, entry)
	return err
}

// LatestByTask returns up to limit runs of task, newest first.
func (s *JobRunStore) LatestByTask(ctx context.Context, task string, limit int) ([]JobRunEntry, error) {
	query := `
		SELECT id, job_index, task, outcome, exit_code,
			COALESCE(stdout, '') AS stdout, COALESCE(stderr, '') AS stderr, COALESCE(error, '') AS error,
			started_at, duration_ms
		FROM job_runs
		WHERE task = $1
		ORDER BY started_at DESC
		LIMIT $2`

	var runs []JobRunEntry
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &runs, query, task, limit); err != nil {
		return nil, err
	}
	return runs, nil
}
