package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIAnalyzer runs analysis through an OpenAI-compatible chat
// completion endpoint. Chat completions take text only, so this
// backend rejects binary documents; PDF uploads need the Gemini
// backend.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyzer builds an analyzer from the environment
// (OPENAI_API_KEY, OPENAI_MODEL).
func NewOpenAIAnalyzer() (*OpenAIAnalyzer, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_MODEL")

	if apiKey == "" {
		secretPath := "/run/secrets/openai_api_key"
		if content, err := os.ReadFile(secretPath); err == nil {
			apiKey = strings.TrimSpace(string(content))
			slog.Info("Read the OpenAI API Key from Podman Secrets")
		} else {
			slog.Error("OPENAI_API_KEY environment variable not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}

	slog.Info("Initializing OpenAI analyzer", "model", model)
	return &OpenAIAnalyzer{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Analyze implements the Analyzer interface.
func (o *OpenAIAnalyzer) Analyze(ctx context.Context, document []byte, mimeType string, current []RuleContext) (*Result, error) {
	if mimeType == "application/pdf" {
		return nil, fmt.Errorf("the openai backend only supports text documents; use the gemini backend for PDF")
	}

	slog.Debug("Analyzing document via OpenAI", "model", o.model, "bytes", len(document), "context_rules", len(current))

	prompt, err := buildPrompt(current)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: string(document)},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("OpenAI returned no choices or empty content")
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	return parseResult(resp.Choices[0].Message.Content)
}
