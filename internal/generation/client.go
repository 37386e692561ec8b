package generation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Local text used when generation is not possible.
const (
	FallbackText        = "✨ Something wonderful is brewing! Stay tuned for something special."
	FallbackMissingFile = "📸 Capturing the perfect moment..."
	FallbackUnsupported = "🎨 Creating beautiful visuals..."
	FallbackCaption     = "📝 Crafting the perfect words..."
	FallbackNoBackend   = "🌟 Exciting content coming soon!"
)

const (
	textSystemPrompt    = "You are a social media copywriter. Write engaging, friendly Facebook posts."
	captionSystemPrompt = "You write short, engaging captions for social media images."
)

// DefaultHashtags are returned by GenerateHashtags.
var DefaultHashtags = []string{"#SocialBoost", "#FacebookMarketing", "#AI", "#Automation", "#Content"}

var captionMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type Options struct {
	MaxTokens        int32
	CaptionMaxTokens int32
	Temperature      float32
}

// Client never returns an error: every failure degrades to a fallback text.
type Client struct {
	backend Backend
	opts    Options
	logger  *slog.Logger
}

// NewClient creates a client. backend may be nil, in which case every call
// returns a fallback.
func NewClient(backend Backend, opts Options, logger *slog.Logger) *Client {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 500
	}
	if opts.CaptionMaxTokens <= 0 {
		opts.CaptionMaxTokens = 300
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 0.7
	}
	return &Client{
		backend: backend,
		opts:    opts,
		logger:  logger.With("component", "generation"),
	}
}

func (c *Client) GenerateText(ctx context.Context, prompt string) string {
	if c.backend == nil {
		return FallbackNoBackend
	}

	text, err := c.backend.Generate(ctx, Request{
		System:      textSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		c.logger.Warn("text generation failed, using fallback", "error", err)
		return FallbackText
	}

	c.logger.Info("text generated", "prompt", truncate(prompt, 50), "length", len(text))
	return text
}

// GenerateCaption describes the image at imagePath. topic is optional extra
// context for the model.
func (c *Client) GenerateCaption(ctx context.Context, imagePath, topic string) string {
	info, err := os.Stat(imagePath)
	if err != nil || !info.Mode().IsRegular() {
		c.logger.Warn("caption image not found", "path", imagePath)
		return FallbackMissingFile
	}

	mimeType, ok := captionMIMETypes[strings.ToLower(filepath.Ext(imagePath))]
	if !ok {
		c.logger.Warn("caption image format not supported", "path", imagePath)
		return FallbackUnsupported
	}

	if c.backend == nil {
		return FallbackNoBackend
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		c.logger.Warn("caption image unreadable", "path", imagePath, "error", err)
		if errors.Is(err, fs.ErrNotExist) {
			return FallbackMissingFile
		}
		return FallbackCaption
	}

	prompt := "Write an engaging caption for this image."
	if topic != "" {
		prompt = fmt.Sprintf("%s Context: %s", prompt, topic)
	}

	text, err := c.backend.Generate(ctx, Request{
		System:      captionSystemPrompt,
		Prompt:      prompt,
		Image:       data,
		MIMEType:    mimeType,
		MaxTokens:   c.opts.CaptionMaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		c.logger.Warn("caption generation failed, using fallback", "path", imagePath, "error", err)
		return FallbackCaption
	}
	return text
}

// ImproveText asks the model to polish existing copy. On failure the
// original text is returned unchanged.
func (c *Client) ImproveText(ctx context.Context, text string) string {
	if c.backend == nil {
		return text
	}

	improved, err := c.backend.Generate(ctx, Request{
		System:      textSystemPrompt,
		Prompt:      "Improve and optimize this Facebook post while keeping its meaning:\n\n" + text,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		c.logger.Warn("text improvement failed, keeping original", "error", err)
		return text
	}
	return improved
}

// GenerateHashtags returns up to count hashtags for content.
func (c *Client) GenerateHashtags(content string, count int) []string {
	if count <= 0 {
		return []string{}
	}
	n := min(count, len(DefaultHashtags))
	out := make([]string, n)
	copy(out, DefaultHashtags[:n])
	return out
}

// GenerateVariations returns count rewrites of base. A variation that
// cannot be generated is replaced by a marked copy of base.
func (c *Client) GenerateVariations(ctx context.Context, base string, count int) []string {
	variations := make([]string, 0, max(count, 0))

	for i := 1; i <= count; i++ {
		if c.backend != nil {
			text, err := c.backend.Generate(ctx, Request{
				System:      textSystemPrompt,
				Prompt:      fmt.Sprintf("Write variation %d of this Facebook post with a different tone:\n\n%s", i, base),
				MaxTokens:   c.opts.MaxTokens,
				Temperature: c.opts.Temperature,
			})
			if err == nil {
				variations = append(variations, text)
				continue
			}
			c.logger.Warn("variation generation failed, using fallback", "variation", i, "error", err)
		}
		variations = append(variations, fmt.Sprintf("[Variation %d: %s...]", i, truncate(base, 20)))
	}

	return variations
}

// GeneratePost renders a prompt template and generates text from it.
func (c *Client) GeneratePost(ctx context.Context, t Template, vars map[string]string) (string, error) {
	prompt, err := Render(t, vars)
	if err != nil {
		return "", err
	}
	return c.GenerateText(ctx, prompt), nil
}

// CheckStatus reports whether a backend is configured and, when it can
// tell, reachable.
func (c *Client) CheckStatus(ctx context.Context) bool {
	if c.backend == nil {
		return false
	}
	p, ok := c.backend.(Pinger)
	if !ok {
		return true
	}
	if err := p.Ping(ctx); err != nil {
		c.logger.Warn("generation backend unavailable", "error", err)
		return false
	}
	return true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
