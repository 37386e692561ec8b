package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"autoposter/internal/domain"
	"autoposter/internal/retry"
	"autoposter/internal/service/mocks"
	"autoposter/internal/upload"
)

type PublishingServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	destination *mocks.MockDestination
	videos      *mocks.MockVideoUploader
	tracker     *mocks.MockTracker
	captions    *mocks.MockCaptionGenerator
	publisher   *mocks.MockPublisher
	history     *mocks.MockHistoryStore

	service *PublishingService
	now     time.Time
	dir     string
}

func (s *PublishingServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.destination = mocks.NewMockDestination(s.ctrl)
	s.videos = mocks.NewMockVideoUploader(s.ctrl)
	s.tracker = mocks.NewMockTracker(s.ctrl)
	s.captions = mocks.NewMockCaptionGenerator(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.history = mocks.NewMockHistoryStore(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewPublishingService(
		s.destination,
		s.videos,
		s.tracker,
		s.captions,
		s.publisher,
		s.history,
		logger,
	)

	s.now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.service.now = func() time.Time { return s.now }
	s.dir = s.T().TempDir()
}

func (s *PublishingServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPublishingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PublishingServiceTestSuite))
}

func (s *PublishingServiceTestSuite) file(name string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte("media"), 0o644))
	return path
}

// expectRecorded expects every outcome to reach the event bus and the
// history store.
func (s *PublishingServiceTestSuite) expectRecorded(times int) {
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(times)
	s.history.EXPECT().RecordPublish(gomock.Any(), gomock.Any()).Return(nil).Times(times)
}

func (s *PublishingServiceTestSuite) TestPublishText_Success() {
	s.destination.EXPECT().PostText(gomock.Any(), "Hello page").Return("123_456", nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.PublishEvent) error {
			s.Equal(ActionPublished, e.Action)
			s.Equal(domain.PostText, e.Kind)
			s.True(e.Success)
			s.Equal("123_456", e.RemoteID)
			s.NotEmpty(e.ID)
			s.Equal(s.now, e.Timestamp)
			return nil
		},
	)
	s.history.EXPECT().RecordPublish(gomock.Any(), gomock.Any()).Return(nil)

	result := s.service.PublishText(context.Background(), "Hello page")

	s.True(result.Success)
	s.Equal(domain.PostText, result.Kind)
	s.Equal("123_456", result.RemoteID)
	s.Equal(s.now, result.PublishedAt)
	s.Zero(result.RetryCount)
}

func (s *PublishingServiceTestSuite) TestPublishText_EmptyMessage() {
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.PublishEvent) error {
			s.False(e.Success)
			s.Equal(domain.KindValidation, e.ErrorKind)
			s.Contains(e.Error, "message cannot be empty")
			return nil
		},
	)
	s.history.EXPECT().RecordPublish(gomock.Any(), gomock.Any()).Return(nil)

	result := s.service.PublishText(context.Background(), "   ")

	s.False(result.Success)
	s.Equal(domain.KindValidation, result.ErrorKind)
	s.ErrorIs(result.Err, domain.ErrEmptyMessage)
	s.True(result.ErrorKind.Actionable())
}

func (s *PublishingServiceTestSuite) TestPublishText_CountsRetries() {
	retrier := retry.NewRetrier(retry.Config{
		MaxAttempts: 3,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.destination.EXPECT().PostText(gomock.Any(), "Hello").DoAndReturn(
		func(ctx context.Context, _ string) (string, error) {
			calls := 0
			err := retrier.Do(ctx, "post text", func(context.Context) error {
				calls++
				if calls < 3 {
					return &domain.Error{Kind: domain.KindServer, StatusCode: 503, Err: errors.New("unavailable")}
				}
				return nil
			})
			return "1_2", err
		},
	)
	s.expectRecorded(1)

	result := s.service.PublishText(context.Background(), "Hello")

	s.True(result.Success)
	s.Equal(2, result.RetryCount)
}

func (s *PublishingServiceTestSuite) TestPublishText_ClientError() {
	apiErr := &domain.Error{Kind: domain.KindClient, StatusCode: 401, Err: errors.New("Invalid OAuth access token")}
	s.destination.EXPECT().PostText(gomock.Any(), "Hello").Return("", apiErr)
	s.expectRecorded(1)

	result := s.service.PublishText(context.Background(), "Hello")

	s.False(result.Success)
	s.Equal(domain.KindClient, result.ErrorKind)
	s.Contains(result.Error(), "Invalid OAuth access token")
}

func (s *PublishingServiceTestSuite) TestPublishImage_TrackedAssetMarksPosted() {
	path := s.file("a.jpg")

	s.destination.EXPECT().PostImage(gomock.Any(), "Caption", path).Return("photo_1", nil)
	s.tracker.EXPECT().IsTracked(path).Return(true)
	s.tracker.EXPECT().MarkPosted(path, s.now).Return(nil)
	s.expectRecorded(1)

	result := s.service.PublishImage(context.Background(), "Caption", path)

	s.True(result.Success)
	s.True(result.Tracked)
	s.Equal(int64(5), result.FileSize)
	s.Equal("photo_1", result.RemoteID)
}

// Ad-hoc publishes of untracked files must not add them to rotation.
func (s *PublishingServiceTestSuite) TestPublishImage_UntrackedPathDoesNotJoinRotation() {
	path := s.file("adhoc.png")

	s.destination.EXPECT().PostImage(gomock.Any(), "Caption", path).Return("photo_2", nil)
	s.tracker.EXPECT().IsTracked(path).Return(false)
	s.tracker.EXPECT().MarkPosted(gomock.Any(), gomock.Any()).Times(0)
	s.expectRecorded(1)

	result := s.service.PublishImage(context.Background(), "Caption", path)

	s.True(result.Success)
	s.False(result.Tracked)
}

func (s *PublishingServiceTestSuite) TestPublishImage_TrackerWriteFailureKeepsSuccess() {
	path := s.file("a.jpg")

	s.destination.EXPECT().PostImage(gomock.Any(), "Caption", path).Return("photo_3", nil)
	s.tracker.EXPECT().IsTracked(path).Return(true)
	s.tracker.EXPECT().MarkPosted(path, s.now).Return(domain.NewError(domain.KindPersistence, "save", errors.New("disk full")))
	s.expectRecorded(1)

	result := s.service.PublishImage(context.Background(), "Caption", path)

	s.True(result.Success)
	s.Nil(result.Err)
}

func (s *PublishingServiceTestSuite) TestPublishImage_UnsupportedFormat() {
	path := s.file("photo.xyz")
	s.expectRecorded(1)

	result := s.service.PublishImage(context.Background(), "Caption", path)

	s.False(result.Success)
	s.Equal(domain.KindUnsupportedFormat, result.ErrorKind)
	s.Contains(result.Error(), "unsupported image format: .xyz")
}

func (s *PublishingServiceTestSuite) TestPublishImage_VideoExtensionRejected() {
	path := s.file("clip.mp4")
	s.expectRecorded(1)

	result := s.service.PublishImage(context.Background(), "Caption", path)

	s.Equal(domain.KindUnsupportedFormat, result.ErrorKind)
	s.Contains(result.Error(), "unsupported image format: .mp4")
}

func (s *PublishingServiceTestSuite) TestPublishImage_MissingFile() {
	s.expectRecorded(1)

	result := s.service.PublishImage(context.Background(), "Caption", filepath.Join(s.dir, "missing.jpg"))

	s.False(result.Success)
	s.Equal(domain.KindValidation, result.ErrorKind)
	s.ErrorIs(result.Err, domain.ErrFileNotFound)
}

func (s *PublishingServiceTestSuite) TestPublishImage_DirectoryIsNotAFile() {
	dir := filepath.Join(s.dir, "folder.jpg")
	s.Require().NoError(os.Mkdir(dir, 0o755))
	s.expectRecorded(1)

	result := s.service.PublishImage(context.Background(), "Caption", dir)

	s.ErrorIs(result.Err, domain.ErrFileNotFound)
}

func (s *PublishingServiceTestSuite) TestPublishVideo_Ready() {
	path := s.file("clip.mp4")

	s.videos.EXPECT().Upload(gomock.Any(), path, "Watch this").Return(&upload.Outcome{
		VideoID: "vid_1",
		Status:  domain.ProcessingReady,
		Session: domain.UploadSession{Stage: domain.StageFinished, TotalBytes: 5, TransferredBytes: 5},
	}, nil)
	s.tracker.EXPECT().IsTracked(path).Return(false)
	s.expectRecorded(1)

	result := s.service.PublishVideo(context.Background(), "Watch this", path)

	s.True(result.Success)
	s.Equal(domain.PostVideo, result.Kind)
	s.Equal("vid_1", result.RemoteID)
	s.Equal(domain.ProcessingReady, result.ProcessingStatus)
}

func (s *PublishingServiceTestSuite) TestPublishVideo_ProcessingTimeoutIsSuccess() {
	path := s.file("clip.mov")

	s.videos.EXPECT().Upload(gomock.Any(), path, "Watch").Return(&upload.Outcome{
		VideoID: "vid_2",
		Status:  domain.ProcessingTimeout,
	}, nil)
	s.tracker.EXPECT().IsTracked(path).Return(false)
	s.expectRecorded(1)

	result := s.service.PublishVideo(context.Background(), "Watch", path)

	s.True(result.Success)
	s.Equal(domain.ProcessingTimeout, result.ProcessingStatus)
}

func (s *PublishingServiceTestSuite) TestPublishVideo_ProcessingFailed() {
	path := s.file("clip.mp4")

	s.videos.EXPECT().Upload(gomock.Any(), path, "Watch").Return(&upload.Outcome{
		VideoID: "vid_3",
		Status:  domain.ProcessingFailed,
	}, nil)
	s.expectRecorded(1)

	result := s.service.PublishVideo(context.Background(), "Watch", path)

	s.False(result.Success)
	s.Equal(domain.KindServer, result.ErrorKind)
	s.Equal(domain.ProcessingFailed, result.ProcessingStatus)
	s.Equal("vid_3", result.RemoteID)
}

func (s *PublishingServiceTestSuite) TestPublishVideo_UploadError() {
	path := s.file("clip.mp4")

	s.videos.EXPECT().Upload(gomock.Any(), path, "Watch").Return(
		&upload.Outcome{Session: domain.UploadSession{Stage: domain.StageFailed}},
		errors.New("start upload failed: connection refused"),
	)
	s.expectRecorded(1)

	result := s.service.PublishVideo(context.Background(), "Watch", path)

	s.False(result.Success)
	s.Equal(domain.KindNetwork, result.ErrorKind)
	s.Contains(result.Error(), "start upload failed")
}

func (s *PublishingServiceTestSuite) TestPublishVideo_UnsupportedFormat() {
	path := s.file("notes.txt")
	s.expectRecorded(1)

	result := s.service.PublishVideo(context.Background(), "Watch", path)

	s.Equal(domain.KindUnsupportedFormat, result.ErrorKind)
	s.Contains(result.Error(), "unsupported video format: .txt")
}

func (s *PublishingServiceTestSuite) TestPublishSelected_DispatchesByExtension() {
	img := s.file("a.jpg")
	vid := s.file("b.mp4")
	gif := s.file("c.gif")

	s.destination.EXPECT().PostImage(gomock.Any(), "Batch", img).Return("", errors.New("connection reset"))
	s.videos.EXPECT().Upload(gomock.Any(), vid, "Batch").Return(&upload.Outcome{VideoID: "vid_4", Status: domain.ProcessingReady}, nil)
	s.tracker.EXPECT().IsTracked(vid).Return(true)
	s.tracker.EXPECT().MarkPosted(vid, s.now).Return(nil)
	s.expectRecorded(3)

	results := s.service.PublishSelected(context.Background(), []string{img, vid, gif}, "Batch")

	s.Require().Len(results, 3)
	s.False(results[0].Success)
	s.Equal(domain.KindNetwork, results[0].ErrorKind)
	s.True(results[1].Success)
	s.Equal(domain.KindUnsupportedFormat, results[2].ErrorKind)
}

func (s *PublishingServiceTestSuite) TestPublishSelected_EmptyMessageAsksForCaption() {
	img := s.file("a.png")

	s.captions.EXPECT().GenerateCaption(gomock.Any(), img, "").Return("Sunny day")
	s.destination.EXPECT().PostImage(gomock.Any(), "Sunny day", img).Return("photo_5", nil)
	s.tracker.EXPECT().IsTracked(img).Return(false)
	s.expectRecorded(1)

	results := s.service.PublishSelected(context.Background(), []string{img}, "")

	s.Require().Len(results, 1)
	s.True(results[0].Success)
}

func (s *PublishingServiceTestSuite) TestPublishSelected_Empty() {
	results := s.service.PublishSelected(context.Background(), nil, "Batch")

	s.Empty(results)
}

func (s *PublishingServiceTestSuite) TestPublishRotated() {
	a := s.file("a.jpg")
	b := s.file("b.mov")

	s.tracker.EXPECT().Select(2).Return([]domain.Asset{
		{Path: "Assets/Images/a.jpg", Kind: domain.MediaImage, AbsPath: a},
		{Path: "Assets/Videos/b.mov", Kind: domain.MediaVideo, AbsPath: b},
	}, nil)

	gomock.InOrder(
		s.destination.EXPECT().PostImage(gomock.Any(), "Rotation", a).Return("photo_6", nil),
		s.videos.EXPECT().Upload(gomock.Any(), b, "Rotation").Return(&upload.Outcome{VideoID: "vid_5", Status: domain.ProcessingReady}, nil),
	)
	s.tracker.EXPECT().IsTracked(gomock.Any()).Return(true).Times(2)
	s.tracker.EXPECT().MarkPosted(a, s.now).Return(nil)
	s.tracker.EXPECT().MarkPosted(b, s.now).Return(nil)
	s.expectRecorded(2)

	results, err := s.service.PublishRotated(context.Background(), 2, "Rotation")

	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.True(results[0].Success)
	s.True(results[1].Success)
}

func (s *PublishingServiceTestSuite) TestPublishRotated_NothingToPublish() {
	s.tracker.EXPECT().Select(3).Return([]domain.Asset{}, nil)

	results, err := s.service.PublishRotated(context.Background(), 3, "Rotation")

	s.NoError(err)
	s.NotNil(results)
	s.Empty(results)
}

func (s *PublishingServiceTestSuite) TestPublishRotated_SelectError() {
	s.tracker.EXPECT().Select(1).Return(nil, errors.New("permission denied"))

	_, err := s.service.PublishRotated(context.Background(), 1, "Rotation")

	s.Error(err)
	s.Contains(err.Error(), "select assets")
}

func (s *PublishingServiceTestSuite) TestRecordFailuresDoNotFailPublish() {
	s.destination.EXPECT().PostText(gomock.Any(), "Hello").Return("1_1", nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("channel closed"))
	s.history.EXPECT().RecordPublish(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	result := s.service.PublishText(context.Background(), "Hello")

	s.True(result.Success)
}

func (s *PublishingServiceTestSuite) TestOptionalCollaboratorsMayBeNil() {
	svc := NewPublishingService(s.destination, s.videos, s.tracker, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	img := s.file("a.jpg")

	s.destination.EXPECT().PostImage(gomock.Any(), "", img).Times(0)

	results := svc.PublishSelected(context.Background(), []string{img}, "")

	s.Require().Len(results, 1)
	s.Equal(domain.KindValidation, results[0].ErrorKind)
}

func (s *PublishingServiceTestSuite) TestPublishAsset_ValidatesBeforeCaption() {
	gif := s.file("c.gif")
	missing := filepath.Join(s.dir, "gone.jpg")
	s.expectRecorded(2)

	unsupported := s.service.PublishAsset(context.Background(), domain.MediaImage, gif, "")
	notFound := s.service.PublishAsset(context.Background(), domain.MediaImage, missing, "")

	s.False(unsupported.Success)
	s.Equal(domain.PostImage, unsupported.Kind)
	s.Equal(domain.KindUnsupportedFormat, unsupported.ErrorKind)
	s.ErrorIs(unsupported.Err, domain.ErrUnsupportedFormat)

	s.False(notFound.Success)
	s.Equal(domain.KindValidation, notFound.ErrorKind)
	s.ErrorIs(notFound.Err, domain.ErrFileNotFound)
}

func (s *PublishingServiceTestSuite) TestPublishAsset_VideoGetsGeneratedDescription() {
	vid := s.file("launch_day.mp4")

	s.captions.EXPECT().GenerateText(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, prompt string) string {
			s.Contains(prompt, `"launch_day"`)
			return "Watch our launch day"
		},
	)
	s.videos.EXPECT().Upload(gomock.Any(), vid, "Watch our launch day").Return(&upload.Outcome{VideoID: "vid_9", Status: domain.ProcessingReady}, nil)
	s.tracker.EXPECT().IsTracked(vid).Return(false)
	s.expectRecorded(1)

	result := s.service.PublishAsset(context.Background(), domain.MediaVideo, vid, "")

	s.True(result.Success)
	s.Equal(domain.PostVideo, result.Kind)
}

func (s *PublishingServiceTestSuite) TestPublishRotated_EmptyMessageCaptionsByKind() {
	a := s.file("a.jpg")
	b := s.file("b.mov")

	s.tracker.EXPECT().Select(2).Return([]domain.Asset{
		{Path: "Assets/Images/a.jpg", Kind: domain.MediaImage, AbsPath: a},
		{Path: "Assets/Videos/b.mov", Kind: domain.MediaVideo, AbsPath: b},
	}, nil)
	s.captions.EXPECT().GenerateCaption(gomock.Any(), a, "").Return("Bright morning")
	s.captions.EXPECT().GenerateText(gomock.Any(), gomock.Any()).Return("Behind the scenes")
	s.destination.EXPECT().PostImage(gomock.Any(), "Bright morning", a).Return("photo_7", nil)
	s.videos.EXPECT().Upload(gomock.Any(), b, "Behind the scenes").Return(&upload.Outcome{VideoID: "vid_6", Status: domain.ProcessingReady}, nil)
	s.tracker.EXPECT().IsTracked(gomock.Any()).Return(true).Times(2)
	s.tracker.EXPECT().MarkPosted(gomock.Any(), s.now).Return(nil).Times(2)
	s.expectRecorded(2)

	results, err := s.service.PublishRotated(context.Background(), 2, "")

	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.True(results[0].Success)
	s.True(results[1].Success)
}

func (s *PublishingServiceTestSuite) TestEventAndHistoryShareID() {
	var eventID string

	s.destination.EXPECT().PostText(gomock.Any(), "Hello").Return("1_9", nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.PublishEvent) error {
			eventID = e.ID
			return nil
		},
	)
	s.history.EXPECT().RecordPublish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *domain.PublishResult) error {
			s.NotEmpty(r.EventID)
			s.Equal(eventID, r.EventID)
			return nil
		},
	)

	result := s.service.PublishText(context.Background(), "Hello")

	s.True(result.Success)
	s.Equal(eventID, result.EventID)
}
