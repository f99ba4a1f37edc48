package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/topherjaynes/Screenshot-Holmes/pkg/imgutil"
)

const (
	describePrompt = "Describe the content of this image concisely."
	namerSystem    = "You are a helpful assistant that generates concise, descriptive filenames based on image content."

	maxDescribeTokens = 300
)

// Options tunes the OpenAI adapter. Zero values get filled by defaults().
type Options struct {
	VisionModel string        // default gpt-4o-mini
	NamingModel string        // default gpt-3.5-turbo
	Attempts    int           // retry budget per call, default 3
	BaseDelay   time.Duration // first backoff step, default 500ms
	CallTimeout time.Duration // per-attempt timeout, default 60s
}

func (o *Options) defaults() {
	if o.VisionModel == "" {
		o.VisionModel = openai.GPT4oMini
	}
	if o.NamingModel == "" {
		o.NamingModel = openai.GPT3Dot5Turbo
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 500 * time.Millisecond
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 60 * time.Second
	}
}

// OpenAIClient implements ContentExtractor and Namer against the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
	opts   Options
}

// NewOpenAIClient builds an adapter for the given API key.
func NewOpenAIClient(apiKey string, opts Options) *OpenAIClient {
	opts.defaults()
	return &OpenAIClient{client: openai.NewClient(apiKey), opts: opts}
}

// ExtractContent asks the vision model to describe the image. With resize
// set, the image is downscaled to half its dimensions before submission to
// cut the per-tile bill.
func (c *OpenAIClient) ExtractContent(ctx context.Context, imageBytes []byte, resize bool) (Extraction, error) {
	if resize {
		halved, err := imgutil.HalvePNG(imageBytes)
		if err != nil {
			slog.Debug("holmes: resize failed, submitting full size", "error", err)
		} else {
			imageBytes = halved
		}
	}

	dataURL := fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(imageBytes))

	req := openai.ChatCompletionRequest{
		Model:     c.opts.VisionModel,
		MaxTokens: maxDescribeTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: describePrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
	}

	var out Extraction
	err := c.withRetry(ctx, "extract_content", func(ctx context.Context) *Error {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return wrapCallError("extract_content", err)
		}
		if len(resp.Choices) == 0 {
			return malformed("extract_content", fmt.Errorf("no choices in response"))
		}
		description := strings.TrimSpace(resp.Choices[0].Message.Content)
		if description == "" {
			return malformed("extract_content", fmt.Errorf("empty description"))
		}
		out = Extraction{
			Description:      description,
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		return nil
	})
	if err != nil {
		return Extraction{}, err
	}
	return out, nil
}

// GenerateName asks the text model for a filename candidate (no extension)
// matching the description.
func (c *OpenAIClient) GenerateName(ctx context.Context, description string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.opts.NamingModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: namerSystem},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Generate a concise filename (without extension) for an image with this content: %s", description),
			},
		},
	}

	var name string
	err := c.withRetry(ctx, "generate_name", func(ctx context.Context) *Error {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return wrapCallError("generate_name", err)
		}
		if len(resp.Choices) == 0 {
			return malformed("generate_name", fmt.Errorf("no choices in response"))
		}
		name = strings.TrimSpace(resp.Choices[0].Message.Content)
		if name == "" {
			return malformed("generate_name", fmt.Errorf("empty name"))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// withRetry runs fn up to Attempts times with exponential backoff between
// transient failures. Permanent failures and context cancellation return
// immediately; a canceled batch never issues a fresh attempt.
func (c *OpenAIClient) withRetry(ctx context.Context, op string, fn func(ctx context.Context) *Error) error {
	var last *Error
	delay := c.opts.BaseDelay

	for attempt := 1; attempt <= c.opts.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return wrapCallError(op, err)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.opts.CallTimeout)
		last = fn(callCtx)
		cancel()

		if last == nil {
			return nil
		}
		if !last.Transient() || attempt == c.opts.Attempts {
			return last
		}

		slog.Debug("holmes: retrying vision call", "op", op, "attempt", attempt, "kind", string(last.Kind), "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return wrapCallError(op, ctx.Err())
		}
		delay *= 2
	}

	return last
}
