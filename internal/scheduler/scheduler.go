// Package scheduler runs the jobs of the schedule file when they fall due.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"autoposter/internal/domain"
)

// jobKey identifies a job across reloads of the schedule file.
type jobKey struct {
	index int
	task  string
	typ   domain.JobType
}

// attempt is a run whose state has not reached the schedule file yet.
type attempt struct {
	at       time.Time
	lastRun  string
	executed bool
}

type Scheduler struct {
	store    JobSource
	runner   Runner
	history  RunRecorder
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// unsaved holds attempts the schedule file may not show yet. They are
	// applied over every reload until a Save succeeds.
	unsaved map[jobKey]attempt
}

// NewScheduler creates a scheduler. history may be nil.
func NewScheduler(store JobSource, runner Runner, history RunRecorder, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	return &Scheduler{
		store:    store,
		runner:   runner,
		history:  history,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
		now:      time.Now,
		unsaved:  make(map[jobKey]attempt),
	}
}

// Start checks for due jobs immediately and then on every tick until ctx is
// cancelled. Cancellation is observed between jobs; a running job is left
// to finish or time out.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.RunDue(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.RunDue(ctx)
		}
	}
}

// RunDue runs every due job once, sequentially in file order, and returns
// how many ran. No further job is started once ctx is done.
func (s *Scheduler) RunDue(ctx context.Context) int {
	jobs := s.store.Load()
	s.applyUnsaved(jobs)
	ran := 0

	for i := range jobs {
		if ctx.Err() != nil {
			s.logger.Info("stop requested, skipping remaining jobs", "remaining", len(jobs)-i)
			break
		}

		job := &jobs[i]
		now := s.now()

		due, err := IsDue(*job, now)
		if err != nil {
			s.logger.Warn("skipping invalid job", "index", i, "task", job.Task, "type", job.Type, "error", err)
			continue
		}
		if !due {
			continue
		}

		run := s.runner.Run(context.WithoutCancel(ctx), *job)
		run.JobIndex = i
		ran++

		finished := s.now()
		lastRun := domain.FormatTimestamp(finished)
		job.LastRun = &lastRun
		if job.Type == domain.JobOnce {
			executed := true
			job.Executed = &executed
		}
		s.unsaved[keyOf(i, *job)] = attempt{at: finished, lastRun: lastRun, executed: job.Type == domain.JobOnce}

		if err := s.store.Save(jobs); err != nil {
			s.logger.Error("failed to persist job state, keeping it in memory", "index", i, "task", job.Task, "error", err)
		} else {
			clear(s.unsaved)
		}

		s.logger.Info("job finished",
			"index", i,
			"task", job.Task,
			"type", job.Type,
			"outcome", run.Outcome,
			"exit_code", run.ExitCode,
			"duration", run.Duration,
		)

		if s.history != nil {
			if err := s.history.RecordRun(ctx, &run); err != nil {
				s.logger.Warn("failed to record job run", "task", job.Task, "error", err)
			}
		}
	}

	return ran
}

// applyUnsaved brings reloaded jobs up to date with attempts the file does
// not show yet. A newer last_run in the file wins.
func (s *Scheduler) applyUnsaved(jobs []domain.Job) {
	if len(s.unsaved) == 0 {
		return
	}

	for i := range jobs {
		a, ok := s.unsaved[keyOf(i, jobs[i])]
		if !ok {
			continue
		}

		last, err := parseLastRun(jobs[i], time.Local)
		if err != nil || last == nil || last.Before(a.at) {
			lastRun := a.lastRun
			jobs[i].LastRun = &lastRun
		}
		if a.executed {
			executed := true
			jobs[i].Executed = &executed
		}
	}
}

func keyOf(index int, job domain.Job) jobKey {
	return jobKey{index: index, task: job.Task, typ: job.Type}
}
