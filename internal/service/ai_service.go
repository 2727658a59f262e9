package service

import (
	"context"
	"studyforge_backend/internal/config"
	"studyforge_backend/internal/util"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// TextCompleter is the single capability the generation worker needs from an
// AI provider: prompt in, text out, may fail.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AIService calls an OpenAI-compatible chat completion endpoint. One attempt
// per call, bounded by the configured timeout; retries are deliberately the
// caller's problem (the worker makes none).
type AIService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewAIService(cfg config.AIConfig) *AIService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &AIService{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

func (s *AIService) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", util.ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
