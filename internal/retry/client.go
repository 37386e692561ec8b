package retry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"autoposter/internal/domain"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestFunc builds a fresh request for every attempt, so bodies can be
// replayed.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the body into v. A malformed body is a protocol error.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &domain.Error{
			Kind:       domain.KindProtocol,
			Op:         "decode response",
			StatusCode: r.StatusCode,
			Err:        err,
		}
	}
	return nil
}

// Client executes HTTP calls through a Retrier.
type Client struct {
	doer    Doer
	retrier *Retrier
	logger  *slog.Logger
}

func NewClient(doer Doer, retrier *Retrier, logger *slog.Logger) *Client {
	return &Client{
		doer:    doer,
		retrier: retrier,
		logger:  logger,
	}
}

// Execute performs the call with retries on transient failures.
func (c *Client) Execute(ctx context.Context, name string, newRequest RequestFunc) (*Response, error) {
	var resp *Response
	attempt := 0

	err := c.retrier.Do(ctx, name, func(ctx context.Context) error {
		attempt++
		r, err := c.do(ctx, name, attempt, newRequest)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("request succeeded", "call", name, "attempts", attempt, "status", resp.StatusCode)
	return resp, nil
}

// ExecuteOnce performs a single attempt. It is meant for non-idempotent
// commit calls that must not be repeated without the caller's consent.
func (c *Client) ExecuteOnce(ctx context.Context, name string, newRequest RequestFunc) (*Response, error) {
	resp, err := c.do(ctx, name, 1, newRequest)
	if err != nil {
		c.logger.Error("request failed", "call", name, "attempts", 1, "error", err)
		return nil, err
	}
	c.logger.Info("request succeeded", "call", name, "attempts", 1, "status", resp.StatusCode)
	return resp, nil
}

func (c *Client) do(ctx context.Context, name string, attempt int, newRequest RequestFunc) (*Response, error) {
	req, err := newRequest(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindValidation, name, fmt.Errorf("create request: %w", err))
	}

	c.logger.Debug("sending request",
		"call", name,
		"attempt", attempt,
		"method", req.Method,
		"path", req.URL.Path,
	)

	httpResp, err := c.doer.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, domain.NewError(domain.KindNetwork, name, fmt.Errorf("request timed out: %w", err))
		}
		return nil, domain.NewError(domain.KindNetwork, name, fmt.Errorf("execute request: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, name, fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		return &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       body,
		}, nil
	}

	return nil, &domain.Error{
		Kind:       ClassifyStatus(httpResp.StatusCode),
		Op:         name,
		StatusCode: httpResp.StatusCode,
		Err:        errors.New(apiErrorMessage(body)),
	}
}

// ClassifyStatus maps a non-2xx status code to an error kind.
func ClassifyStatus(code int) domain.ErrorKind {
	switch {
	case code == http.StatusTooManyRequests:
		return domain.KindRateLimited
	case code >= 500:
		return domain.KindServer
	case code >= 400:
		return domain.KindClient
	default:
		return domain.KindProtocol
	}
}

type apiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func apiErrorMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if r := []rune(msg); len(r) > 200 {
		msg = string(r[:200])
	}
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}
