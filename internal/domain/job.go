package domain

import "time"

// JobType selects how a job's next fire time is computed.
type JobType string

const (
	JobDaily    JobType = "daily"
	JobWeekly   JobType = "weekly"
	JobInterval JobType = "interval"
	JobOnce     JobType = "once"
)

// Job is one entry of the schedule file.
type Job struct {
	Type         JobType  `json:"type"`
	Time         string   `json:"time,omitempty"`
	Day          string   `json:"day,omitempty"`
	EveryMinutes int      `json:"every_minutes,omitempty"`
	RunAt        string   `json:"run_at_datetime,omitempty"`
	Task         string   `json:"task"`
	Args         []string `json:"args,omitempty"`
	Description  string   `json:"description,omitempty"`
	Enabled      bool     `json:"enabled"`
	LastRun      *string  `json:"last_run"`
	Executed     *bool    `json:"executed,omitempty"`
}

// RunOutcome is the terminal state of one job run.
type RunOutcome string

const (
	RunSucceeded RunOutcome = "succeeded"
	RunFailed    RunOutcome = "failed"
	RunTimedOut  RunOutcome = "timed_out"
)

// JobRun records one execution attempt of a job.
type JobRun struct {
	ID        string
	JobIndex  int
	Task      string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   RunOutcome
	ExitCode  int
	Stdout    string
	Stderr    string
	Error     string
}
