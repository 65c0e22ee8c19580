package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type JSONProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts *GenerateOptions) (ProviderResult, error)
	Ping(ctx context.Context) bool
}

// GeminiProvider wraps the Gemini client.
type GeminiProvider struct {
	client       *genai.Client
	defaultModel string
	logger       *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, defaultModel string, logger *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if defaultModel == "" {
		defaultModel = constants.LLMConfig.GeminiModel
	}
	return &GeminiProvider{
		client:       client,
		defaultModel: defaultModel,
		logger:       logger,
	}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts *GenerateOptions) (ProviderResult, error) {
	if g.client == nil {
		return ProviderResult{}, fmt.Errorf("gemini client not initialized")
	}

	modelName := g.defaultModel
	temperature := constants.LLMConfig.Temperature
	maxTokens := int32(constants.LLMConfig.InsightMaxTokens)
	mimeType := ""
	if opts != nil {
		if opts.Model != "" {
			modelName = opts.Model
		}
		if opts.Temperature > 0 {
			temperature = opts.Temperature
		}
		if opts.MaxOutputTokens > 0 {
			maxTokens = int32(opts.MaxOutputTokens)
		}
		if opts.JSONMode {
			mimeType = "application/json"
		}
	}

	g.logger.Debug("Generating with Gemini",
		zap.String("model", modelName),
		zap.Bool("json_mode", mimeType != ""),
	)

	genConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  maxTokens,
		ResponseMIMEType: mimeType,
	}

	callCtx, cancel := context.WithTimeout(ctx, constants.LLMConfig.RequestTimeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(callCtx, modelName, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}, genConfig)
	if err != nil {
		g.logger.Error("Gemini generation failed", zap.Error(err))
		return ProviderResult{}, err
	}

	text := extractTextFromGeminiResponse(resp)
	if text == "" {
		return ProviderResult{}, fmt.Errorf("empty response from Gemini")
	}

	return ProviderResult{Text: text, Model: modelName}, nil
}

func (g *GeminiProvider) Ping(ctx context.Context) bool {
	if g.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 10,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.defaultModel, []*genai.Content{
		{Parts: []*genai.Part{{Text: "ping"}}},
	}, config)
	if err != nil {
		return false
	}
	return extractTextFromGeminiResponse(resp) != ""
}

// GroqProvider runs chat completions against Groq's OpenAI-compatible
// endpoint, rotating through its own key pool on auth and quota failures.
type GroqProvider struct {
	keyPool      *KeyPool
	defaultModel string
	logger       *zap.Logger
}

func NewGroqProvider(apiKeys []string, defaultModel string, logger *zap.Logger) (*GroqProvider, error) {
	if len(apiKeys) == 0 {
		return nil, nil
	}
	keyPool, err := NewKeyPool("groq", apiKeys, classifyGroqError, logger)
	if err != nil {
		return nil, err
	}
	if defaultModel == "" {
		defaultModel = constants.LLMConfig.GroqModel
	}
	return &GroqProvider{
		keyPool:      keyPool,
		defaultModel: defaultModel,
		logger:       logger,
	}, nil
}

func classifyGroqError(err error) bool {
	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403, 429:
			return true
		}
	}
	return false
}

func (o *GroqProvider) Name() string {
	return "Groq"
}

func (o *GroqProvider) Generate(ctx context.Context, prompt string, opts *GenerateOptions) (ProviderResult, error) {
	modelName := o.defaultModel
	temperature := constants.LLMConfig.Temperature
	maxTokens := constants.LLMConfig.InsightMaxTokens
	jsonMode := false
	if opts != nil {
		if opts.Model != "" {
			modelName = opts.Model
		}
		if opts.Temperature > 0 {
			temperature = opts.Temperature
		}
		if opts.MaxOutputTokens > 0 {
			maxTokens = opts.MaxOutputTokens
		}
		jsonMode = opts.JSONMode
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	}
	if jsonMode {
		messages = []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You must respond with valid JSON only. Do not include any text outside the JSON object."),
			openai.UserMessage(prompt),
		}
	}

	var result ProviderResult
	err := o.keyPool.Execute(ctx, "chat.completions", func(ctx context.Context, apiKey string) error {
		client := openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(constants.LLMConfig.GroqBaseURL),
		)

		callCtx, cancel := context.WithTimeout(ctx, constants.LLMConfig.RequestTimeout)
		defer cancel()

		resp, err := client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
			Model:               openai.ChatModel(modelName),
			Messages:            messages,
			MaxCompletionTokens: openai.Int(int64(maxTokens)),
			Temperature:         openai.Float(float64(temperature)),
		})
		if err != nil {
			o.logger.Error("Groq generation failed", zap.Error(err))
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in Groq response")
		}

		result = ProviderResult{
			Text:  resp.Choices[0].Message.Content,
			Model: modelName,
		}
		return nil
	})
	if err != nil {
		return ProviderResult{}, err
	}

	o.logger.Debug("Groq response received", zap.Int("length", len(result.Text)))
	return result, nil
}

func (o *GroqProvider) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := o.keyPool.Execute(ctx, "ping", func(ctx context.Context, apiKey string) error {
		client := openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(constants.LLMConfig.GroqBaseURL),
		)
		resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(o.defaultModel),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage("ping"),
			},
			MaxCompletionTokens: openai.Int(10),
			Temperature:         openai.Float(0),
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices")
		}
		return nil
	})
	return err == nil
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}
