package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestTemplateReply(t *testing.T) {
	tests := []struct {
		mention string
		want    string
	}{
		{"thanks so much for the fix", "You're very welcome! Glad I could help!"},
		{"how do I install this?", "Happy to help! Feel free to DM me if you need more details."},
		{"this app is awesome", "Thank you so much! Really appreciate the kind words!"},
		{"found a bug in the export", "Sorry to hear that! Can you DM me more details so I can look into it?"},
		{"just saying hi", templateDefault},
	}

	for _, tt := range tests {
		if got := TemplateReply(tt.mention); got != tt.want {
			t.Errorf("TemplateReply(%q) = %q, want %q", tt.mention, got, tt.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("pizza delivery app", "alice", "love the new menu")
	for _, part := range []string{"@alice", "love the new menu", "pizza delivery app"} {
		if !strings.Contains(p, part) {
			t.Errorf("prompt missing %q:\n%s", part, p)
		}
	}

	p = BuildPrompt("", "bob", "hi")
	if strings.Contains(p, "Context about your account") {
		t.Error("empty targeting spec should not add a context section")
	}
}

type fakeChat struct {
	content string
	err     error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestOpenAIGeneratorTrimsReply(t *testing.T) {
	g := NewOpenAIGenerator("key", "", "", "", 0.7)
	g.client = &fakeChat{content: "  Nice to hear from you!  \n"}

	reply, err := g.GenerateReply(context.Background(), "alice", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Nice to hear from you!" {
		t.Errorf("reply = %q", reply)
	}
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	g := NewOpenAIGenerator("key", "", "", "", 0.7)

	g.client = &fakeChat{err: errors.New("rate limited")}
	if _, err := g.GenerateReply(context.Background(), "a", "b"); err == nil {
		t.Error("expected error from failed completion")
	}

	g.client = &fakeChat{content: "   "}
	if _, err := g.GenerateReply(context.Background(), "a", "b"); err == nil {
		t.Error("expected error for empty completion")
	}
}
