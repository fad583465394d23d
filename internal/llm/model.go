package llm

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/datapigeon/fixity/internal/config"
	"github.com/datapigeon/fixity/internal/metrics"
)

// Model wraps a langchaingo LLM for text generation.
type Model struct {
	llm       llms.Model
	modelName string
	collector *metrics.Collector
}

// NewModel creates an LLM model based on configuration. The collector may
// be nil.
func NewModel(ctx context.Context, cfg config.Config, collector *metrics.Collector) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx)
		if awsErr != nil {
			return nil, fmt.Errorf("load aws config: %w", awsErr)
		}
		model, err = bedrock.New(
			bedrock.WithModel(cfg.BedrockModelID),
			bedrock.WithClient(bedrockruntime.NewFromConfig(awsCfg)),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
		collector: collector,
	}, nil
}

// GenerateWithSystem generates text with a system prompt.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	start := time.Now()
	response, err := m.llm.GenerateContent(ctx, messages)
	m.collector.RecordTiming(metrics.OpLLMGenerate, time.Since(start))

	if err != nil {
		return "", fmt.Errorf("generate with system: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return response.Choices[0].Content, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}
