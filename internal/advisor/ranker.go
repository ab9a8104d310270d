package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"ge-flip-tracker/internal/config"
)

const systemPrompt = `You rank items for a Grand Exchange flipper. You are given the
trader's profile and per-item statistics from their own completed flips.
Pick the 5 items they should flip again, best first. Reply with ONLY a JSON
array of objects: [{"item_name": "...", "reason": "..."}]. item_name must be
copied exactly from the supplied list. Keep each reason under 25 words.`

// LLMRanker orders candidate items through an OpenAI-compatible chat API.
type LLMRanker struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLMRanker creates a ranker, or nil when the service is disabled so the
// advisor silently uses its fallback.
func NewLLMRanker(cfg *config.Ranker, logger *zap.Logger) *LLMRanker {
	if !cfg.Enabled || cfg.ApiKey == "" {
		return nil
	}

	ocfg := openai.DefaultConfig(cfg.ApiKey)
	if cfg.BaseURL != "" {
		ocfg.BaseURL = cfg.BaseURL
	}

	return &LLMRanker{
		client:  openai.NewClientWithConfig(ocfg),
		model:   cfg.Model,
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

// Rank asks the model to order the candidates. The reply is parsed leniently
// but the advisor still validates every returned name against the candidates.
func (r *LLMRanker) Rank(ctx context.Context, profile *TradingProfile, items []ItemStats) ([]RankedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload, err := json.Marshal(struct {
		Profile *TradingProfile `json:"profile"`
		Items   []ItemStats     `json:"items"`
	}{profile, items})
	if err != nil {
		return nil, fmt.Errorf("marshal ranking payload: %w", err)
	}

	r.logger.Info("sending ranking request", zap.Int("candidates", len(items)))

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ranking API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("ranking API returned no choices")
	}

	ranked, err := ParseRanking(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parse ranking response: %w", err)
	}
	return ranked, nil
}
