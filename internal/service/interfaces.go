package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"autoposter/internal/domain"
	"autoposter/internal/upload"
)

type Destination interface {
	PostText(ctx context.Context, message string) (string, error)
	PostImage(ctx context.Context, message, path string) (string, error)
}

type VideoUploader interface {
	Upload(ctx context.Context, path, description string) (*upload.Outcome, error)
}

type Tracker interface {
	Select(n int) ([]domain.Asset, error)
	MarkPosted(path string, at time.Time) error
	IsTracked(path string) bool
}

type CaptionGenerator interface {
	GenerateCaption(ctx context.Context, imagePath, topic string) string
	GenerateText(ctx context.Context, prompt string) string
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.PublishEvent) error
}

type HistoryStore interface {
	RecordPublish(ctx context.Context, result *domain.PublishResult) error
}
