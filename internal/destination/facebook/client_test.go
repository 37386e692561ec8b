package facebook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoposter/internal/domain"
	"autoposter/internal/retry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	retrier := retry.NewRetrier(retry.Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		Sleep:          func(ctx context.Context, d time.Duration) error { return nil },
	}, logger)

	c, err := New(Config{BaseURL: srv.URL, PageID: "page_1", PageToken: "token_1"},
		retry.NewClient(srv.Client(), retrier, logger), logger)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RequiresCredentials(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(Config{BaseURL: "http://x", PageID: "p"}, nil, logger)

	assert.Equal(t, domain.KindClient, domain.KindOf(err))
}

func TestClient_PostText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/page_1/feed", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Hello World", r.PostForm.Get("message"))
		assert.Equal(t, "token_1", r.PostForm.Get("access_token"))
		writeJSON(w, http.StatusOK, map[string]string{"id": "12345_67890"})
	})

	id, err := c.PostText(context.Background(), "Hello World")
	require.NoError(t, err)
	assert.Equal(t, "12345_67890", id)
}

func TestClient_PostText_MissingIDIsProtocolError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	})

	_, err := c.PostText(context.Background(), "Hello")
	assert.Equal(t, domain.KindProtocol, domain.KindOf(err))
}

func TestClient_PostImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake image data"), 0o644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page_1/photos", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Caption", r.FormValue("message"))
		assert.Equal(t, "token_1", r.FormValue("access_token"))

		f, hdr, err := r.FormFile("source")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "photo.jpg", hdr.Filename)
		assert.Equal(t, "fake image data", string(data))

		writeJSON(w, http.StatusOK, map[string]string{"id": "photo_1", "post_id": "12345_67890"})
	})

	id, err := c.PostImage(context.Background(), "Caption", path)
	require.NoError(t, err)
	assert.Equal(t, "12345_67890", id)
}

func TestClient_UploadPhases(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			assert.Equal(t, "/vid_1", r.URL.Path)
			assert.Equal(t, "status", r.URL.Query().Get("fields"))
			writeJSON(w, http.StatusOK, map[string]any{"id": "vid_1", "status": map[string]string{"video_status": "ready"}})
			return
		}

		switch r.FormValue("upload_phase") {
		case "start":
			assert.Equal(t, "2048", r.FormValue("file_size"))
			writeJSON(w, http.StatusOK, map[string]string{"video_id": "vid_1", "upload_session_id": "sess_1", "start_offset": "0", "end_offset": "1024"})
		case "transfer":
			assert.Equal(t, "sess_1", r.FormValue("upload_session_id"))
			assert.Equal(t, "0", r.FormValue("start_offset"))
			writeJSON(w, http.StatusOK, map[string]string{"start_offset": "4", "end_offset": "4"})
		case "finish":
			assert.Equal(t, "a description", r.FormValue("description"))
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		default:
			t.Errorf("unexpected upload phase %q", r.FormValue("upload_phase"))
		}
	})

	ctx := context.Background()

	start, err := c.StartUpload(ctx, 2048)
	require.NoError(t, err)
	assert.Equal(t, "sess_1", start.UploadSessionID)
	assert.Equal(t, Offset(1024), start.EndOffset)

	transfer, err := c.TransferChunk(ctx, "sess_1", 0, []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, Offset(4), transfer.StartOffset)

	_, err = c.FinishUpload(ctx, "sess_1", "a description", false)
	require.NoError(t, err)

	status, err := c.VideoStatus(ctx, "vid_1")
	require.NoError(t, err)
	assert.Equal(t, "ready", status)
}

func TestClient_StartUploadClientError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": "Invalid video format"}})
	})

	_, err := c.StartUpload(context.Background(), 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start upload failed")
	assert.Contains(t, err.Error(), "Invalid video format")
	assert.Equal(t, domain.KindClient, domain.KindOf(err))
}

func TestClient_FinishUploadRetryNeedsConsent(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": map[string]string{"message": "try later"}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	_, err := c.FinishUpload(context.Background(), "sess_1", "d", false)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	atomic.StoreInt32(&calls, 0)
	_, err = c.FinishUpload(context.Background(), "sess_1", "d", true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestVideoStatus_AcceptsBothShapes(t *testing.T) {
	var nested StatusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status": {"video_status": "processing"}}`), &nested))
	assert.Equal(t, "processing", nested.Status.VideoStatus)

	var plain StatusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status": "ready"}`), &plain))
	assert.Equal(t, "ready", plain.Status.VideoStatus)
}

func TestOffset_AcceptsStringsAndNumbers(t *testing.T) {
	var r TransferResponse
	require.NoError(t, json.Unmarshal([]byte(`{"start_offset": 1024, "end_offset": "2048"}`), &r))
	assert.Equal(t, Offset(1024), r.StartOffset)
	assert.Equal(t, Offset(2048), r.EndOffset)
}
