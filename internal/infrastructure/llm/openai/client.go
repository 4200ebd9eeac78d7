package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ekovalenko/skincheck/internal/core/domain"
	"github.com/ekovalenko/skincheck/internal/infrastructure/resilience"
)

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 500
	defaultTimeout   = 60 * time.Second
)

// Analyzer talks to an OpenAI-compatible chat completions endpoint with
// the lesion image inlined as a base64 data URL. One best-effort call
// per request unless an executor with a larger attempts budget is
// supplied.
type Analyzer struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	limiter   *rate.Limiter
	executor  *resilience.Executor
}

type Options struct {
	BaseURL      string
	Timeout      time.Duration
	RateLimitRPM int
	Executor     *resilience.Executor
}

func New(apiKey, model string, maxTokens int, options Options) *Analyzer {
	cfg := openai.DefaultConfig(apiKey)
	if options.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(options.BaseURL, "/")
	}

	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var limiter *rate.Limiter
	if options.RateLimitRPM > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(options.RateLimitRPM)/60.0), 1)
	}

	return &Analyzer{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		limiter:   limiter,
		executor:  options.Executor,
	}
}

// Analyze sends the image with the fixed assessment instruction and maps
// the reply text onto a risk level. Every transport or API failure comes
// back as ErrAPIUnavailable; a reply without a usable keyword is not an
// error and degrades inside ParseRiskReply.
func (a *Analyzer) Analyze(ctx context.Context, asset *domain.ImageAsset) (domain.AssessmentResult, error) {
	if asset == nil || len(asset.Data) == 0 {
		return domain.AssessmentResult{}, domain.WrapError(domain.ErrInvalidImage, "chat completion", errors.New("empty image asset"))
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return domain.AssessmentResult{}, domain.WrapError(domain.ErrAPIUnavailable, "rate limit wait", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var reply string
	call := func(ctx context.Context) error {
		text, err := a.complete(ctx, asset)
		if err != nil {
			return err
		}
		reply = text
		return nil
	}

	var err error
	if a.executor != nil {
		err = a.executor.Execute(callCtx, "openai.chat", call, classifyAPIError)
	} else {
		err = call(callCtx)
	}
	if err != nil {
		return domain.AssessmentResult{}, domain.WrapError(domain.ErrAPIUnavailable, "chat completion", err)
	}

	result := domain.ParseRiskReply(reply)
	result.Model = a.model
	return result, nil
}

func (a *Analyzer) complete(ctx context.Context, asset *domain.ImageAsset) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: userInstruction,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageDataURL(asset.MimeType, asset.Data),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices in completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
