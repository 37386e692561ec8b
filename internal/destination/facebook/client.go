package facebook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"autoposter/internal/domain"
	"autoposter/internal/retry"
)

const DestinationID = "facebook"

// Config holds Graph API settings for one page.
type Config struct {
	BaseURL   string
	PageID    string
	PageToken string
}

// Client talks to the Graph API. Every call goes through the retrying
// HTTP client.
type Client struct {
	http    *retry.Client
	baseURL string
	pageID  string
	token   string
	logger  *slog.Logger
}

// New creates a Graph API client.
func New(cfg Config, httpClient *retry.Client, logger *slog.Logger) (*Client, error) {
	if cfg.PageID == "" || cfg.PageToken == "" {
		return nil, domain.NewError(domain.KindClient, "configure facebook", errors.New("page id and page token are required"))
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		pageID:  cfg.PageID,
		token:   cfg.PageToken,
		logger:  logger.With("destination", DestinationID),
	}, nil
}

// PostText publishes a text post on the page feed.
func (c *Client) PostText(ctx context.Context, message string) (string, error) {
	form := url.Values{}
	form.Set("message", message)

	resp, err := c.http.Execute(ctx, "post text", c.formRequest(http.MethodPost, c.pageURL("feed"), form))
	if err != nil {
		return "", err
	}

	var post PostResponse
	if err := resp.DecodeJSON(&post); err != nil {
		return "", err
	}
	if post.ID == "" {
		return "", domain.NewError(domain.KindProtocol, "post text", errors.New("response has no post id"))
	}

	c.logger.Debug("text posted", "post_id", post.ID)
	return post.ID, nil
}

// PostImage publishes a photo with a caption.
func (c *Client) PostImage(ctx context.Context, message, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewError(domain.KindValidation, "post image", fmt.Errorf("%w: %v", domain.ErrFileNotFound, err))
	}

	fields := map[string]string{"message": message}
	file := &filePart{field: "source", name: filepath.Base(path), data: data}

	resp, err := c.http.Execute(ctx, "post image", c.multipartRequest(c.pageURL("photos"), fields, file))
	if err != nil {
		return "", err
	}

	var post PostResponse
	if err := resp.DecodeJSON(&post); err != nil {
		return "", err
	}
	id := post.PostID
	if id == "" {
		id = post.ID
	}
	if id == "" {
		return "", domain.NewError(domain.KindProtocol, "post image", errors.New("response has no post id"))
	}

	c.logger.Debug("image posted", "post_id", id, "path", path)
	return id, nil
}

// StartUpload opens a resumable video upload session.
func (c *Client) StartUpload(ctx context.Context, fileSize int64) (*StartResponse, error) {
	form := url.Values{}
	form.Set("upload_phase", "start")
	form.Set("file_size", strconv.FormatInt(fileSize, 10))

	resp, err := c.http.Execute(ctx, "start upload", c.formRequest(http.MethodPost, c.pageURL("videos"), form))
	if err != nil {
		return nil, fmt.Errorf("start upload failed: %w", err)
	}

	var start StartResponse
	if err := resp.DecodeJSON(&start); err != nil {
		return nil, err
	}
	if start.UploadSessionID == "" || start.VideoID == "" {
		return nil, domain.NewError(domain.KindProtocol, "start upload", errors.New("response has no upload session"))
	}
	return &start, nil
}

// TransferChunk sends one chunk at offset.
func (c *Client) TransferChunk(ctx context.Context, sessionID string, offset int64, chunk []byte) (*TransferResponse, error) {
	fields := map[string]string{
		"upload_phase":      "transfer",
		"upload_session_id": sessionID,
		"start_offset":      strconv.FormatInt(offset, 10),
	}
	file := &filePart{field: "video_file_chunk", name: "chunk", data: chunk}

	resp, err := c.http.Execute(ctx, "transfer chunk", c.multipartRequest(c.pageURL("videos"), fields, file))
	if err != nil {
		return nil, fmt.Errorf("transfer failed at offset %d: %w", offset, err)
	}

	var transfer TransferResponse
	if err := resp.DecodeJSON(&transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

// FinishUpload commits the session. The commit is sent once unless
// allowRetry is set, since repeating it can publish the video twice.
func (c *Client) FinishUpload(ctx context.Context, sessionID, description string, allowRetry bool) (*FinishResponse, error) {
	form := url.Values{}
	form.Set("upload_phase", "finish")
	form.Set("upload_session_id", sessionID)
	form.Set("description", description)

	newRequest := c.formRequest(http.MethodPost, c.pageURL("videos"), form)

	var (
		resp *retry.Response
		err  error
	)
	if allowRetry {
		resp, err = c.http.Execute(ctx, "finish upload", newRequest)
	} else {
		resp, err = c.http.ExecuteOnce(ctx, "finish upload", newRequest)
	}
	if err != nil {
		return nil, fmt.Errorf("finish upload failed: %w", err)
	}

	var finish FinishResponse
	if err := resp.DecodeJSON(&finish); err != nil {
		return nil, err
	}
	if !finish.Success {
		return nil, domain.NewError(domain.KindProtocol, "finish upload", errors.New("server did not confirm the upload"))
	}
	return &finish, nil
}

// VideoStatus returns the processing status of an uploaded video.
func (c *Client) VideoStatus(ctx context.Context, videoID string) (string, error) {
	u := fmt.Sprintf("%s/%s?fields=status&access_token=%s", c.baseURL, url.PathEscape(videoID), url.QueryEscape(c.token))

	resp, err := c.http.Execute(ctx, "video status", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return "", err
	}

	var status StatusResponse
	if err := resp.DecodeJSON(&status); err != nil {
		return "", err
	}
	return status.Status.VideoStatus, nil
}

func (c *Client) pageURL(edge string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.pageID), edge)
}

func (c *Client) formRequest(method, u string, form url.Values) retry.RequestFunc {
	form.Set("access_token", c.token)
	body := form.Encode()

	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, u, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "Autoposter/1.0")
		return req, nil
	}
}

type filePart struct {
	field string
	name  string
	data  []byte
}

func (c *Client) multipartRequest(u string, fields map[string]string, file *filePart) retry.RequestFunc {
	return func(ctx context.Context) (*http.Request, error) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)

		for k, v := range fields {
			if err := writer.WriteField(k, v); err != nil {
				return nil, fmt.Errorf("write field %s: %w", k, err)
			}
		}
		if err := writer.WriteField("access_token", c.token); err != nil {
			return nil, fmt.Errorf("write field access_token: %w", err)
		}

		part, err := writer.CreateFormFile(file.field, file.name)
		if err != nil {
			return nil, fmt.Errorf("create file field: %w", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(file.data)); err != nil {
			return nil, fmt.Errorf("copy file content: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("close multipart writer: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "Autoposter/1.0")
		return req, nil
	}
}
