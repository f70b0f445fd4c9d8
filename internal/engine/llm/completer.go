package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/orderchat-poc/server/internal/engine/model"
	logx "github.com/orderchat-poc/server/pkg/logger"
)

// Completer is the text-completion capability the extractor depends on. The
// returned text is always treated as untrusted.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// GeminiCompleter runs completions through a Gemini chat model with
// temperature and token budget fixed at construction time.
type GeminiCompleter struct {
	chatModel *gemini.ChatModel
	modelName string
}

func NewGeminiCompleter(ctx context.Context, client *genai.Client, cfg *model.ExtractorModelConfig) (*GeminiCompleter, error) {
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Str("model", cfg.Model).Msg("error creating extractor model")
		return nil, fmt.Errorf("error creating extractor model: %w", err)
	}
	return &GeminiCompleter{chatModel: cm, modelName: cfg.Model}, nil
}

func (c *GeminiCompleter) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	out, err := c.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userText),
	})
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

var _ Completer = (*GeminiCompleter)(nil)
