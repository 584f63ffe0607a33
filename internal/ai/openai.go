package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = openai.GPT4oMini

// chatClient is the slice of the OpenAI client the generator uses,
// separated out so tests can fake completions.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator generates replies through the OpenAI chat completion API.
type OpenAIGenerator struct {
	client        chatClient
	model         string
	temperature   float32
	systemPrompt  string
	targetingSpec string
}

// NewOpenAIGenerator creates a generator. Model and systemPrompt fall back
// to defaults when empty; targetingSpec is woven into every prompt.
func NewOpenAIGenerator(apiKey, model, systemPrompt, targetingSpec string, temperature float32) *OpenAIGenerator {
	if model == "" {
		model = defaultModel
	}
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &OpenAIGenerator{
		client:        openai.NewClient(apiKey),
		model:         model,
		temperature:   temperature,
		systemPrompt:  systemPrompt,
		targetingSpec: targetingSpec,
	}
}

// GenerateReply asks the model for a reply to the mention.
func (g *OpenAIGenerator) GenerateReply(ctx context.Context, author, mentionText string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   100,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(g.targetingSpec, author, mentionText)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("chat completion returned empty reply")
	}
	return reply, nil
}
