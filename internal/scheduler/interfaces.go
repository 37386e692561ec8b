package scheduler

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"autoposter/internal/domain"
)

// JobSource is the persistent list of jobs. *JobStore implements it.
type JobSource interface {
	Load() []domain.Job
	Save(jobs []domain.Job) error
}

type Runner interface {
	Run(ctx context.Context, job domain.Job) domain.JobRun
}

type RunRecorder interface {
	RecordRun(ctx context.Context, run *domain.JobRun) error
}
