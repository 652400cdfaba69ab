package rewriter

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultModel = "gpt-4o-mini"

type OpenAIConfig struct {
	APIKey string
	Model  string
	// Пустой - api.openai.com
	BaseURL   string
	MaxTokens int
}

// Генератор текста поверх OpenAI chat completions
type OpenAIGenerator struct {
	// sdk для openai
	client    *openai.Client
	model     string
	maxTokens int
	// Флаг вкл/выкл генератора
	enabled bool
	mu      sync.Mutex
}

func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	g := &OpenAIGenerator{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		enabled:   cfg.APIKey != "",
	}

	if g.model == "" {
		g.model = defaultModel
	}

	zap.S().Infof("openai generator enabled: %v", g.enabled)

	return g
}

// Generate возвращает ответ модели; пустая строка значит что ответа нет
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	// Запросы к API идут строго по одному, это бережет rate limit
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.enabled {
		return "", nil
	}

	var messages []openai.ChatCompletionMessage
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.User,
	})

	request := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
		TopP:        1,
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}

	// openai может прислать несколько вариантов, берем первый
	if len(resp.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
