package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "trade-advisor/internal/errors"
	"trade-advisor/internal/models"
)

// LLMClient abstracts the chat-completion backend so the generator can be
// tested with a stub and swapped to another provider.
type LLMClient interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient implements LLMClient using the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI LLM client.
func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// CompleteWithSystem sends a prompt with system message to the LLM.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

const strategySystemPrompt = `You are a trading strategy assistant. Given factor
scores and a technical snapshot for a stock, propose a single trade as JSON
matching this schema exactly, with no surrounding prose:

{
  "side": "long" | "short",
  "entry": number,
  "targets": [number, ...],
  "stop_loss_price": number,
  "recommended_position_pct": number,
  "thesis": string,
  "technical_basis": string,
  "fundamental_basis": string,
  "sentiment_basis": string
}

The stop must be on the losing side of the entry and targets on the winning
side. Position size is a percent of portfolio between 0.5 and 10.`

// llmStrategy is the JSON shape the model is asked to produce.
type llmStrategy struct {
	Side                   string    `json:"side"`
	Entry                  float64   `json:"entry"`
	Targets                []float64 `json:"targets"`
	StopLossPrice          float64   `json:"stop_loss_price"`
	RecommendedPositionPct float64   `json:"recommended_position_pct"`
	Thesis                 string    `json:"thesis"`
	TechnicalBasis         string    `json:"technical_basis"`
	FundamentalBasis       string    `json:"fundamental_basis"`
	SentimentBasis         string    `json:"sentiment_basis"`
}

// LLMGenerator asks an injected LLM client for a strategy, validates the
// response, and falls back to the template generator when the response is
// missing or malformed.
type LLMGenerator struct {
	client   LLMClient
	fallback *TemplateGenerator
	maxPos   float64
}

// NewLLMGenerator creates an LLM-backed generator. client may not be nil;
// use TemplateGenerator directly when no LLM is configured.
func NewLLMGenerator(client LLMClient) *LLMGenerator {
	return &LLMGenerator{
		client:   client,
		fallback: NewTemplateGenerator(),
		maxPos:   DefaultTemplateConfig().MaxPositionPct,
	}
}

// Generate prompts the LLM with the factor scores and snapshot. Any error
// or invalid payload degrades to the deterministic template strategy.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*models.TradingStrategy, error) {
	raw, err := g.client.CompleteWithSystem(ctx, strategySystemPrompt, buildUserPrompt(req))
	if err != nil {
		return g.fallback.Generate(ctx, req)
	}

	s, err := g.parse(raw, req)
	if err != nil {
		return g.fallback.Generate(ctx, req)
	}
	return s, nil
}

func buildUserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\nPrice: %.2f\n", req.Symbol, req.Price)
	if req.Scores != nil {
		fmt.Fprintf(&b, "Composite: %.1f (%s)\n", req.Scores.Composite, ratingLabel(req.Scores.Rating))
		fmt.Fprintf(&b, "Fundamental: %.1f Technical: %.1f Sentiment: %.1f Pattern: %.1f\n",
			req.Scores.Fundamental.Score, req.Scores.Technical.Score,
			req.Scores.Sentiment.Score, req.Scores.Pattern.Score)
	}
	if req.Technical != nil {
		fmt.Fprintf(&b, "RSI: %.1f MACD histogram: %.3f ADX: %.1f (%s) ATR: %.2f\n",
			req.Technical.RSI, req.Technical.MACD.Histogram,
			req.Technical.ADX.Value, req.Technical.ADX.Strength, req.Technical.ATR)
	}
	return b.String()
}

// parse extracts and validates the strategy JSON. Models routinely wrap
// JSON in markdown fences, so those are stripped first.
func (g *LLMGenerator) parse(raw string, req Request) (*models.TradingStrategy, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed llmStrategy
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: unparseable llm payload: %v", apperrors.ErrStrategyInvalid, err)
	}

	side := models.StrategySide(strings.ToUpper(parsed.Side))
	if side != models.SideLong && side != models.SideShort {
		return nil, fmt.Errorf("%w: unknown side %q", apperrors.ErrStrategyInvalid, parsed.Side)
	}
	if parsed.Entry <= 0 || parsed.StopLossPrice <= 0 || len(parsed.Targets) == 0 {
		return nil, fmt.Errorf("%w: missing price levels", apperrors.ErrStrategyInvalid)
	}
	if side == models.SideLong && parsed.StopLossPrice >= parsed.Entry {
		return nil, fmt.Errorf("%w: long stop above entry", apperrors.ErrStrategyInvalid)
	}
	if side == models.SideShort && parsed.StopLossPrice <= parsed.Entry {
		return nil, fmt.Errorf("%w: short stop below entry", apperrors.ErrStrategyInvalid)
	}
	position := parsed.RecommendedPositionPct
	if position <= 0 {
		return nil, fmt.Errorf("%w: non-positive position size", apperrors.ErrStrategyInvalid)
	}
	if position > g.maxPos {
		position = g.maxPos
	}

	stopDistance := parsed.Entry - parsed.StopLossPrice
	if side == models.SideShort {
		stopDistance = parsed.StopLossPrice - parsed.Entry
	}
	reward := parsed.Targets[0] - parsed.Entry
	if side == models.SideShort {
		reward = parsed.Entry - parsed.Targets[0]
	}
	riskReward := 0.0
	if stopDistance > 0 {
		riskReward = reward / stopDistance
	}

	confidence := 50.0
	if req.Scores != nil {
		confidence = req.Scores.Composite
		if side == models.SideShort {
			confidence = 100 - confidence
		}
	}

	return &models.TradingStrategy{
		Symbol:  req.Symbol,
		Side:    side,
		Entry:   parsed.Entry,
		Targets: append([]float64(nil), parsed.Targets...),
		StopLoss: models.StopLoss{
			Price:      parsed.StopLossPrice,
			Percentage: stopDistance / parsed.Entry * 100,
		},
		Sizing: models.PositionSizing{
			RecommendedPosition: position,
			MaxPosition:         g.maxPos,
		},
		RiskReward:       riskReward,
		Confidence:       confidence,
		Thesis:           parsed.Thesis,
		TechnicalBasis:   parsed.TechnicalBasis,
		FundamentalBasis: parsed.FundamentalBasis,
		SentimentBasis:   parsed.SentimentBasis,
		GeneratedAt:      time.Now(),
	}, nil
}
