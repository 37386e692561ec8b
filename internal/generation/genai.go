package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"autoposter/internal/domain"
	"autoposter/internal/retry"
)

// GenAIBackend calls the Gemini API.
type GenAIBackend struct {
	client  *genai.Client
	model   string
	retrier *retry.Retrier
}

func NewGenAIBackend(ctx context.Context, apiKey, model string, retrier *retry.Retrier) (*GenAIBackend, error) {
	if apiKey == "" {
		return nil, domain.NewError(domain.KindClient, "configure genai", errors.New("api key is required"))
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GenAIBackend{client: client, model: model, retrier: retrier}, nil
}

func (b *GenAIBackend) Generate(ctx context.Context, req Request) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := req.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	var text string
	err := b.retrier.Do(ctx, "generate content", func(ctx context.Context) error {
		resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, cfg)
		if err != nil {
			return classifyGenAIError(err)
		}
		text = strings.TrimSpace(resp.Text())
		if text == "" {
			return domain.NewError(domain.KindProtocol, "generate content", errors.New("empty response"))
		}
		return nil
	})
	return text, err
}

// Ping looks up the configured model.
func (b *GenAIBackend) Ping(ctx context.Context) error {
	if _, err := b.client.Models.Get(ctx, b.model, nil); err != nil {
		return classifyGenAIError(err)
	}
	return nil
}

func classifyGenAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domain.Error{
			Kind:       retry.ClassifyStatus(apiErr.Code),
			Op:         "generate content",
			StatusCode: apiErr.Code,
			Err:        errors.New(apiErr.Message),
		}
	}
	return domain.NewError(domain.KindNetwork, "generate content", err)
}
