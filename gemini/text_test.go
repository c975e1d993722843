package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestGenerateTextConcatenatesAllParts(t *testing.T) {
	// The content must equal the concatenation of all text parts of the
	// first candidate, never a single top-level text field.
	api := &mockAPI{generateResponse: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Hello"},
				{Text: ", "},
				{Text: "world"},
			}}},
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "second candidate must be ignored"},
			}}},
		},
	}}
	client := newTestClient(api)

	result, err := client.GenerateText(context.Background(), "Say hello", GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "Hello, world" {
		t.Errorf("content = %q, want %q", result.Content, "Hello, world")
	}
	if api.lastModel != DefaultTextModel {
		t.Errorf("model = %q, want default %q", api.lastModel, DefaultTextModel)
	}
}

func TestGenerateTextSkipsThoughtParts(t *testing.T) {
	api := &mockAPI{generateResponse: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "internal reasoning", Thought: true},
				{Text: "answer"},
			}},
		}},
	}}
	client := newTestClient(api)

	result, err := client.GenerateText(context.Background(), "q", GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "answer" {
		t.Errorf("content = %q, want %q", result.Content, "answer")
	}

	result, err = client.GenerateText(context.Background(), "q", GenerateOptions{IncludeThoughts: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "internal reasoninganswer" {
		t.Errorf("content with thoughts = %q", result.Content)
	}
}

func TestGenerateTextSamplingConfig(t *testing.T) {
	api := &mockAPI{generateResponse: textResponse("ok")}
	client := newTestClient(api)

	temp := float32(1.5)
	topP := float32(0.9)
	_, err := client.GenerateText(context.Background(), "q", GenerateOptions{
		Model:         "gemini-custom",
		Instructions:  "be terse",
		Temperature:   &temp,
		TopP:          &topP,
		MaxTokens:     256,
		ThinkingLevel: "high",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if api.lastModel != "gemini-custom" {
		t.Errorf("model = %q", api.lastModel)
	}
	cfg := api.lastConfig
	if cfg.Temperature == nil || *cfg.Temperature != 1.5 {
		t.Errorf("temperature not forwarded: %v", cfg.Temperature)
	}
	if cfg.TopP == nil || *cfg.TopP != 0.9 {
		t.Errorf("top_p not forwarded: %v", cfg.TopP)
	}
	if cfg.MaxOutputTokens != 256 {
		t.Errorf("max tokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.SystemInstruction == nil {
		t.Error("system instruction not set")
	}
	if cfg.ThinkingConfig == nil || cfg.ThinkingConfig.ThinkingLevel != genai.ThinkingLevelHigh {
		t.Errorf("thinking config = %+v", cfg.ThinkingConfig)
	}
}

func TestGenerateTextUsage(t *testing.T) {
	t.Run("copied through", func(t *testing.T) {
		resp := textResponse("ok")
		resp.UsageMetadata = &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 34,
			TotalTokenCount:      46,
		}
		client := newTestClient(&mockAPI{generateResponse: resp})

		result, err := client.GenerateText(context.Background(), "q", GenerateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Usage == nil {
			t.Fatal("usage missing")
		}
		if result.Usage.PromptTokens != 12 || result.Usage.CompletionTokens != 34 || result.Usage.TotalTokens != 46 {
			t.Errorf("usage = %+v", result.Usage)
		}
	})

	t.Run("absent metadata", func(t *testing.T) {
		client := newTestClient(&mockAPI{generateResponse: textResponse("ok")})
		result, err := client.GenerateText(context.Background(), "q", GenerateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Usage != nil {
			t.Errorf("usage = %+v, want nil", result.Usage)
		}
	})

	t.Run("absent fields default to zero", func(t *testing.T) {
		resp := textResponse("ok")
		resp.UsageMetadata = &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 5}
		client := newTestClient(&mockAPI{generateResponse: resp})
		result, _ := client.GenerateText(context.Background(), "q", GenerateOptions{})
		if result.Usage.CompletionTokens != 0 || result.Usage.TotalTokens != 0 {
			t.Errorf("usage = %+v", result.Usage)
		}
	})
}

func TestGenerateTextUpstreamError(t *testing.T) {
	upstream := errors.New("quota exceeded")
	client := newTestClient(&mockAPI{generateErr: upstream})

	_, err := client.GenerateText(context.Background(), "q", GenerateOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, upstream) {
		t.Errorf("upstream error not wrapped: %v", err)
	}
}

func TestGenerateFromMessages(t *testing.T) {
	t.Run("system message becomes instruction", func(t *testing.T) {
		api := &mockAPI{generateResponse: textResponse("ok")}
		client := newTestClient(api)

		_, err := client.GenerateFromMessages(context.Background(), []ChatMessage{
			{Role: "system", Content: "speak like a pirate"},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "ahoy"},
			{Role: "user", Content: "bye"},
		}, GenerateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if api.lastConfig.SystemInstruction == nil {
			t.Fatal("system instruction not set from system message")
		}
		if got := api.lastConfig.SystemInstruction.Parts[0].Text; got != "speak like a pirate" {
			t.Errorf("instruction = %q", got)
		}
		if len(api.lastContents) != 3 {
			t.Errorf("contents = %d, want 3 (system excluded)", len(api.lastContents))
		}
	})

	t.Run("explicit instructions override system message", func(t *testing.T) {
		api := &mockAPI{generateResponse: textResponse("ok")}
		client := newTestClient(api)

		_, err := client.GenerateFromMessages(context.Background(), []ChatMessage{
			{Role: "system", Content: "from conversation"},
			{Role: "user", Content: "hi"},
		}, GenerateOptions{Instructions: "explicit override"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := api.lastConfig.SystemInstruction.Parts[0].Text; got != "explicit override" {
			t.Errorf("instruction = %q", got)
		}
	})

	t.Run("only system messages is an error", func(t *testing.T) {
		client := newTestClient(&mockAPI{generateResponse: textResponse("ok")})
		_, err := client.GenerateFromMessages(context.Background(), []ChatMessage{
			{Role: "system", Content: "alone"},
		}, GenerateOptions{})
		if err == nil {
			t.Fatal("expected error for conversation without user messages")
		}
	})
}
