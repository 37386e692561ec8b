package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"autoposter/internal/domain"
)

const outputExcerpt = 200

type RunnerConfig struct {
	TaskDir     string
	WorkDir     string
	Timeout     time.Duration
	DefaultArgs map[string][]string
}

// ProcessRunner executes a job's task as a child process.
type ProcessRunner struct {
	taskDir     string
	workDir     string
	timeout     time.Duration
	defaultArgs map[string][]string
	logger      *slog.Logger
	now         func() time.Time
}

func NewProcessRunner(cfg RunnerConfig, logger *slog.Logger) *ProcessRunner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 300 * time.Second
	}
	return &ProcessRunner{
		taskDir:     cfg.TaskDir,
		workDir:     cfg.WorkDir,
		timeout:     cfg.Timeout,
		defaultArgs: cfg.DefaultArgs,
		logger:      logger.With("component", "runner"),
		now:         time.Now,
	}
}

// Run starts the task and waits for it to exit or time out. The outcome is
// always reported in the returned JobRun, never as an error.
func (r *ProcessRunner) Run(ctx context.Context, job domain.Job) domain.JobRun {
	run := domain.JobRun{
		ID:        uuid.NewString(),
		Task:      job.Task,
		StartedAt: r.now(),
		ExitCode:  -1,
	}

	path, err := r.resolve(job.Task)
	if err != nil {
		run.Outcome = domain.RunFailed
		run.Error = err.Error()
		r.logger.Error("task not runnable", "task", job.Task, "error", err)
		return run
	}

	args := append([]string{}, r.defaultArgs[job.Task]...)
	args = append(args, job.Args...)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.Dir = r.workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second

	r.logger.Info("running task", "task", job.Task, "args", args, "description", job.Description)

	err = cmd.Run()
	run.Duration = time.Since(run.StartedAt)
	run.Stdout = excerpt(stdout.String())
	run.Stderr = excerpt(stderr.String())
	if cmd.ProcessState != nil {
		run.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		run.Outcome = domain.RunTimedOut
		run.Error = fmt.Sprintf("task timed out after %s", r.timeout)
		r.logger.Error("task timed out", "task", job.Task, "timeout", r.timeout)
	case err == nil:
		run.Outcome = domain.RunSucceeded
		r.logger.Info("task succeeded", "task", job.Task, "duration", run.Duration, "stdout", run.Stdout)
	case errors.As(err, &exitErr):
		run.Outcome = domain.RunFailed
		run.Error = fmt.Sprintf("exit code %d", run.ExitCode)
		r.logger.Error("task failed",
			"task", job.Task,
			"exit_code", run.ExitCode,
			"duration", run.Duration,
			"stderr", run.Stderr,
		)
	default:
		run.Outcome = domain.RunFailed
		run.Error = err.Error()
		r.logger.Error("task could not be started", "task", job.Task, "error", err)
	}

	return run
}

func (r *ProcessRunner) resolve(task string) (string, error) {
	if task == "" {
		return "", fmt.Errorf("%w: empty task", ErrInvalidJob)
	}
	if filepath.IsAbs(task) || filepath.Base(task) != task {
		return "", fmt.Errorf("%w: task %q must be a file name inside the task directory", ErrInvalidJob, task)
	}

	dir := r.taskDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.workDir, dir)
	}
	path := filepath.Join(dir, task)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("task not found: %s", path)
	}
	return path, nil
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= outputExcerpt {
		return s
	}
	return string(r[:outputExcerpt]) + "..."
}
