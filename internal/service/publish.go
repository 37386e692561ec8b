package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"autoposter/internal/domain"
	"autoposter/internal/retry"
)

const ActionPublished = "published"

// PublishingService validates publish requests, dispatches them to the
// destination or the upload engine, and records the outcome.
type PublishingService struct {
	destination Destination
	videos      VideoUploader
	tracker     Tracker
	captions    CaptionGenerator
	publisher   Publisher
	history     HistoryStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewPublishingService wires the service. captions, publisher and history
// may be nil.
func NewPublishingService(
	destination Destination,
	videos VideoUploader,
	tracker Tracker,
	captions CaptionGenerator,
	publisher Publisher,
	history HistoryStore,
	logger *slog.Logger,
) *PublishingService {
	return &PublishingService{
		destination: destination,
		videos:      videos,
		tracker:     tracker,
		captions:    captions,
		publisher:   publisher,
		history:     history,
		logger:      logger.With("component", "publishing"),
		now:         time.Now,
	}
}

func (s *PublishingService) PublishText(ctx context.Context, message string) domain.PublishResult {
	result := domain.PublishResult{Kind: domain.PostText}

	if err := validateMessage("publish text", message); err != nil {
		return s.fail(ctx, result, err)
	}

	ctx, stats := retry.WithStats(ctx)
	id, err := s.destination.PostText(ctx, message)
	result.RetryCount = stats.Retries()
	if err != nil {
		return s.fail(ctx, result, err)
	}

	result.RemoteID = id
	return s.succeed(ctx, result)
}

func (s *PublishingService) PublishImage(ctx context.Context, message, path string) domain.PublishResult {
	result := domain.PublishResult{Kind: domain.PostImage, Path: path}

	if err := validateMessage("publish image", message); err != nil {
		return s.fail(ctx, result, err)
	}
	size, err := validateFile("publish image", path, domain.MediaImage)
	if err != nil {
		return s.fail(ctx, result, err)
	}
	result.FileSize = size

	ctx, stats := retry.WithStats(ctx)
	id, err := s.destination.PostImage(ctx, message, path)
	result.RetryCount = stats.Retries()
	if err != nil {
		return s.fail(ctx, result, err)
	}

	result.RemoteID = id
	return s.succeed(ctx, result)
}

func (s *PublishingService) PublishVideo(ctx context.Context, message, path string) domain.PublishResult {
	result := domain.PublishResult{Kind: domain.PostVideo, Path: path}

	if err := validateMessage("publish video", message); err != nil {
		return s.fail(ctx, result, err)
	}
	size, err := validateFile("publish video", path, domain.MediaVideo)
	if err != nil {
		return s.fail(ctx, result, err)
	}
	result.FileSize = size

	ctx, stats := retry.WithStats(ctx)
	out, err := s.videos.Upload(ctx, path, message)
	result.RetryCount = stats.Retries()
	if out != nil {
		result.RemoteID = out.VideoID
		result.ProcessingStatus = out.Status
	}
	if err != nil {
		return s.fail(ctx, result, err)
	}
	if out.Status == domain.ProcessingFailed {
		return s.fail(ctx, result, &domain.Error{
			Kind: domain.KindServer,
			Op:   "publish video",
			Err:  fmt.Errorf("video %s processing failed", out.VideoID),
		})
	}

	return s.succeed(ctx, result)
}

// PublishSelected publishes each path in order, dispatching on its
// extension. A failed item does not stop the batch. An empty message asks
// the caption generator for one per asset.
func (s *PublishingService) PublishSelected(ctx context.Context, paths []string, message string) []domain.PublishResult {
	results := make([]domain.PublishResult, 0, len(paths))

	for _, path := range paths {
		kind, err := domain.KindForPath(path)
		if err != nil {
			results = append(results, s.fail(ctx, domain.PublishResult{Path: path}, err))
			continue
		}
		results = append(results, s.PublishAsset(ctx, kind, path, message))
	}

	s.logBatch("selected", results)
	return results
}

// PublishRotated publishes the next count assets chosen by the tracker.
// Nothing to publish is not an error.
func (s *PublishingService) PublishRotated(ctx context.Context, count int, message string) ([]domain.PublishResult, error) {
	assets, err := s.tracker.Select(count)
	if err != nil {
		return nil, fmt.Errorf("select assets: %w", err)
	}
	if len(assets) == 0 {
		s.logger.Info("no assets to publish", "requested", count)
		return []domain.PublishResult{}, nil
	}

	results := make([]domain.PublishResult, 0, len(assets))
	for _, a := range assets {
		results = append(results, s.PublishAsset(ctx, a.Kind, a.AbsPath, message))
	}

	s.logBatch("rotated", results)
	return results, nil
}

// PublishAsset publishes an image or a video. An empty message is generated
// only after the file has passed validation.
func (s *PublishingService) PublishAsset(ctx context.Context, kind domain.MediaKind, path, message string) domain.PublishResult {
	var publish func(ctx context.Context, message, path string) domain.PublishResult
	result := domain.PublishResult{Path: path}

	switch kind {
	case domain.MediaImage:
		publish, result.Kind = s.PublishImage, domain.PostImage
	case domain.MediaVideo:
		publish, result.Kind = s.PublishVideo, domain.PostVideo
	default:
		return s.fail(ctx, result, domain.UnsupportedFormat("publish asset", kind, path))
	}

	if strings.TrimSpace(message) == "" && s.captions != nil {
		if _, err := validateFile("publish "+string(result.Kind), path, kind); err != nil {
			return s.fail(ctx, result, err)
		}
		message = s.describe(ctx, kind, path)
	}
	return publish(ctx, message, path)
}

// describe generates a caption for an image or a description for a video.
func (s *PublishingService) describe(ctx context.Context, kind domain.MediaKind, path string) string {
	if kind == domain.MediaVideo {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return s.captions.GenerateText(ctx, fmt.Sprintf("Write a short, engaging Facebook video description for a video titled %q.", name))
	}
	return s.captions.GenerateCaption(ctx, path, "")
}

func (s *PublishingService) succeed(ctx context.Context, result domain.PublishResult) domain.PublishResult {
	result.Success = true
	result.PublishedAt = s.now()

	if result.Path != "" && s.tracker != nil && s.tracker.IsTracked(result.Path) {
		result.Tracked = true
		if err := s.tracker.MarkPosted(result.Path, result.PublishedAt); err != nil {
			s.logger.Warn("failed to update rotation state", "path", result.Path, "error", err)
		}
	}

	s.logger.Info("published",
		"kind", result.Kind,
		"path", result.Path,
		"remote_id", result.RemoteID,
		"retries", result.RetryCount,
		"processing_status", result.ProcessingStatus,
		"tracked", result.Tracked,
	)
	s.record(ctx, &result)
	return result
}

func (s *PublishingService) fail(ctx context.Context, result domain.PublishResult, err error) domain.PublishResult {
	result.Success = false
	result.Err = err
	result.ErrorKind = domain.KindOf(err)

	s.logger.Error("publish failed",
		"kind", result.Kind,
		"path", result.Path,
		"error_kind", result.ErrorKind,
		"actionable", result.ErrorKind.Actionable(),
		"retries", result.RetryCount,
		"error", err,
	)
	s.record(ctx, &result)
	return result
}

// record forwards the result to the event bus and the history store.
// Neither can fail the publish.
func (s *PublishingService) record(ctx context.Context, result *domain.PublishResult) {
	if result.EventID == "" {
		result.EventID = uuid.NewString()
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, newEvent(result, s.now())); err != nil {
			s.logger.Warn("failed to publish event", "path", result.Path, "error", err)
		}
	}
	if s.history != nil {
		if err := s.history.RecordPublish(ctx, result); err != nil {
			s.logger.Warn("failed to record publish history", "path", result.Path, "error", err)
		}
	}
}

func (s *PublishingService) logBatch(source string, results []domain.PublishResult) {
	var ok int
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	s.logger.Info("batch completed",
		"source", source,
		"total", len(results),
		"succeeded", ok,
		"failed", len(results)-ok,
	)
}

func newEvent(r *domain.PublishResult, at time.Time) *domain.PublishEvent {
	return &domain.PublishEvent{
		ID:               r.EventID,
		Action:           ActionPublished,
		Kind:             r.Kind,
		Path:             r.Path,
		Success:          r.Success,
		RemoteID:         r.RemoteID,
		ErrorKind:        r.ErrorKind,
		Error:            r.Error(),
		RetryCount:       r.RetryCount,
		ProcessingStatus: r.ProcessingStatus,
		Timestamp:        at,
	}
}

func validateMessage(op, message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.NewError(domain.KindValidation, op, domain.ErrEmptyMessage)
	}
	return nil
}

// validateFile checks that path is an existing regular file whose extension
// belongs to want, and returns its size.
func validateFile(op, path string, want domain.MediaKind) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, domain.NewError(domain.KindValidation, op, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path))
		}
		return 0, domain.NewError(domain.KindValidation, op, err)
	}
	if !info.Mode().IsRegular() {
		return 0, domain.NewError(domain.KindValidation, op, fmt.Errorf("%w: %s is not a regular file", domain.ErrFileNotFound, path))
	}

	kind, err := domain.KindForPath(path)
	if err != nil || kind != want {
		return 0, domain.UnsupportedFormat(op, want, path)
	}
	return info.Size(), nil
}
