// Package upload drives the resumable start/transfer/finish video upload
// protocol and polls the remote side until the video is processed.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"autoposter/internal/destination/facebook"
	"autoposter/internal/domain"
	"autoposter/internal/retry"
)

// ChunkSize is the fixed transfer chunk size.
const ChunkSize int64 = 4 << 20

// SessionAPI is the remote side of the upload protocol.
type SessionAPI interface {
	StartUpload(ctx context.Context, fileSize int64) (*facebook.StartResponse, error)
	TransferChunk(ctx context.Context, sessionID string, offset int64, chunk []byte) (*facebook.TransferResponse, error)
	FinishUpload(ctx context.Context, sessionID, description string, allowRetry bool) (*facebook.FinishResponse, error)
	VideoStatus(ctx context.Context, videoID string) (string, error)
}

// Config holds engine settings.
type Config struct {
	ChunkSize    int64
	PollAttempts int
	PollInterval time.Duration
	// RetryFinish allows the finish commit to be retried. Off by default
	// because a repeated commit can publish the video twice.
	RetryFinish bool
	Sleep       retry.SleepFunc
}

// Outcome describes a finished upload.
type Outcome struct {
	Session domain.UploadSession
	VideoID string
	Status  domain.ProcessingStatus
}

// Engine runs one upload at a time per call. Sessions are not persisted, so
// an interrupted upload cannot be resumed after a restart.
type Engine struct {
	api          SessionAPI
	chunkSize    int64
	pollAttempts int
	pollInterval time.Duration
	retryFinish  bool
	sleep        retry.SleepFunc
	logger       *slog.Logger
}

func NewEngine(api SessionAPI, cfg Config, logger *slog.Logger) *Engine {
	e := &Engine{
		api:          api,
		chunkSize:    cfg.ChunkSize,
		pollAttempts: cfg.PollAttempts,
		pollInterval: cfg.PollInterval,
		retryFinish:  cfg.RetryFinish,
		sleep:        cfg.Sleep,
		logger:       logger.With("component", "upload"),
	}
	if e.chunkSize <= 0 {
		e.chunkSize = ChunkSize
	}
	if e.pollAttempts <= 0 {
		e.pollAttempts = 10
	}
	if e.pollInterval <= 0 {
		e.pollInterval = 5 * time.Second
	}
	if e.sleep == nil {
		e.sleep = retry.Sleep
	}
	return e
}

// Upload sends the file at path and returns once the session is finished
// and polling has settled. The returned Outcome is non-nil even on error and
// reports the stage the session reached.
func (e *Engine) Upload(ctx context.Context, path, description string) (*Outcome, error) {
	out := &Outcome{Session: domain.UploadSession{Stage: domain.StageInit}}
	session := &out.Session

	fail := func(err error) (*Outcome, error) {
		session.Stage = domain.StageFailed
		e.logger.Error("upload failed",
			"path", path,
			"session_id", session.SessionID,
			"transferred", session.TransferredBytes,
			"total", session.TotalBytes,
			"error", err,
		)
		return out, err
	}

	f, err := os.Open(path)
	if err != nil {
		return fail(domain.NewError(domain.KindValidation, "open video", fmt.Errorf("%w: %v", domain.ErrFileNotFound, err)))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fail(domain.NewError(domain.KindValidation, "stat video", err))
	}
	if info.Size() == 0 {
		return fail(domain.NewError(domain.KindValidation, "open video", domain.ErrEmptyFile))
	}
	session.TotalBytes = info.Size()

	start, err := e.api.StartUpload(ctx, session.TotalBytes)
	if err != nil {
		return fail(err)
	}
	session.SessionID = start.UploadSessionID
	session.VideoID = start.VideoID
	out.VideoID = start.VideoID
	session.Stage = domain.StageStarted

	e.logger.Info("upload session started",
		"path", path,
		"session_id", session.SessionID,
		"video_id", session.VideoID,
		"total", session.TotalBytes,
	)

	session.Stage = domain.StageTransferring
	if err := e.transfer(ctx, f, session); err != nil {
		return fail(err)
	}

	if _, err := e.api.FinishUpload(ctx, session.SessionID, description, e.retryFinish); err != nil {
		return fail(err)
	}
	session.Stage = domain.StageFinished

	e.logger.Info("upload session finished", "session_id", session.SessionID, "video_id", out.VideoID)

	out.Status = e.poll(ctx, out.VideoID)
	return out, nil
}

func (e *Engine) transfer(ctx context.Context, r io.Reader, session *domain.UploadSession) error {
	buf := make([]byte, e.chunkSize)

	for session.TransferredBytes < session.TotalBytes {
		n, err := io.ReadFull(r, buf)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return domain.NewError(domain.KindValidation, "read video", err)
		}
		if n == 0 {
			return domain.NewError(domain.KindProtocol, "read video",
				fmt.Errorf("source ended at %d of %d bytes", session.TransferredBytes, session.TotalBytes))
		}

		offset := session.TransferredBytes
		ack, err := e.api.TransferChunk(ctx, session.SessionID, offset, buf[:n])
		if err != nil {
			return err
		}

		next := offset + int64(n)
		if int64(ack.StartOffset) != next {
			return domain.NewError(domain.KindProtocol, "transfer chunk",
				fmt.Errorf("server acknowledged offset %d, expected %d", ack.StartOffset, next))
		}
		session.TransferredBytes = next

		e.logger.Debug("chunk transferred",
			"session_id", session.SessionID,
			"offset", offset,
			"size", n,
			"transferred", session.TransferredBytes,
		)
	}

	return nil
}

func (e *Engine) poll(ctx context.Context, videoID string) domain.ProcessingStatus {
	for attempt := 1; attempt <= e.pollAttempts; attempt++ {
		if err := e.sleep(ctx, e.pollInterval); err != nil {
			e.logger.Warn("status polling interrupted", "video_id", videoID, "error", err)
			return domain.ProcessingTimeout
		}

		status, err := e.api.VideoStatus(ctx, videoID)
		if err != nil {
			e.logger.Warn("status poll failed", "video_id", videoID, "attempt", attempt, "error", err)
			continue
		}

		switch strings.ToLower(status) {
		case "ready":
			e.logger.Info("video processed", "video_id", videoID, "polls", attempt)
			return domain.ProcessingReady
		case "failed", "error":
			e.logger.Error("video processing failed", "video_id", videoID, "polls", attempt)
			return domain.ProcessingFailed
		default:
			e.logger.Debug("video still processing", "video_id", videoID, "status", status, "attempt", attempt)
		}
	}

	e.logger.Warn("video processing timeout", "video_id", videoID, "polls", e.pollAttempts)
	return domain.ProcessingTimeout
}
