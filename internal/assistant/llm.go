package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/arialabs/aria/config"
)

// NewChatModel builds the analysis-service chat model from configuration.
// Providers mirror the config switch: openai-compatible or deepseek.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		baseURL := cfg.BackendURL
		if baseURL == "" {
			baseURL = "https://api.deepseek.com/v1"
		}
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			BaseURL:     baseURL,
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek chat model: %w", err)
		}
		return chatModel, nil
	case "", "openai":
		maxTokens := cfg.MaxTokens
		temperature := float32(cfg.Temperature)
		conf := &openai.ChatModelConfig{
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		}
		if cfg.BackendURL != "" {
			conf.BaseURL = cfg.BackendURL
		}
		chatModel, err := openai.NewChatModel(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		return chatModel, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}
