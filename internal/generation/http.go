package generation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"autoposter/internal/domain"
	"autoposter/internal/retry"
)

// HTTPBackend posts requests to a JSON endpoint that answers {"text": "..."}.
type HTTPBackend struct {
	http     *retry.Client
	endpoint string
	apiKey   string
}

func NewHTTPBackend(client *retry.Client, endpoint, apiKey string) (*HTTPBackend, error) {
	if endpoint == "" {
		return nil, domain.NewError(domain.KindClient, "configure generation endpoint", errors.New("endpoint is required"))
	}
	return &HTTPBackend{http: client, endpoint: endpoint, apiKey: apiKey}, nil
}

type httpRequest struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	Image       string  `json:"image,omitempty"`
	MIMEType    string  `json:"mime_type,omitempty"`
	MaxTokens   int32   `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

type httpResponse struct {
	Text string `json:"text"`
}

func (b *HTTPBackend) Generate(ctx context.Context, req Request) (string, error) {
	body := httpRequest{
		System:      req.System,
		Prompt:      req.Prompt,
		MIMEType:    req.MIMEType,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if len(req.Image) > 0 {
		body.Image = base64.StdEncoding.EncodeToString(req.Image)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", domain.NewError(domain.KindValidation, "encode generation request", err)
	}

	resp, err := b.http.Execute(ctx, "generate content", func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		if b.apiKey != "" {
			r.Header.Set("Authorization", "Bearer "+b.apiKey)
		}
		return r, nil
	})
	if err != nil {
		return "", err
	}

	var out httpResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return "", err
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", domain.NewError(domain.KindProtocol, "generate content", errors.New("empty response"))
	}
	return text, nil
}
