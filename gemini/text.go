package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenerateText sends a single-prompt text generation request.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (TextResult, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return c.generate(ctx, contents, opts)
}

// GenerateFromMessages sends a multi-turn conversation. A system-role
// message becomes the system instruction unless the options carry an
// explicit instruction override.
func (c *Client) GenerateFromMessages(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (TextResult, error) {
	contents, systemInstruction := convertMessages(messages)
	if len(contents) == 0 {
		return TextResult{}, fmt.Errorf("conversation contains no user or assistant messages")
	}
	if opts.Instructions == "" {
		opts.Instructions = systemInstruction
	}
	return c.generate(ctx, contents, opts)
}

func (c *Client) generate(ctx context.Context, contents []*genai.Content, opts GenerateOptions) (TextResult, error) {
	config := &genai.GenerateContentConfig{}
	if opts.Temperature != nil {
		config.Temperature = opts.Temperature
	}
	if opts.TopP != nil {
		config.TopP = opts.TopP
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = opts.MaxTokens
	}
	if opts.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.Instructions, genai.RoleUser)
	}
	if opts.ThinkingLevel != "" || opts.IncludeThoughts {
		config.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: opts.IncludeThoughts,
			ThinkingLevel:   thinkingLevel(opts.ThinkingLevel),
		}
	}

	model := opts.Model
	if model == "" {
		model = c.models.Text
	}

	response, err := c.api.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return TextResult{}, fmt.Errorf("text generation failed: %w", err)
	}

	return TextResult{
		Content: candidateText(response, opts.IncludeThoughts),
		Usage:   usageFrom(response),
	}, nil
}

// convertMessages converts chat messages to Gemini format.
// Extracts the system message and returns it separately.
func convertMessages(messages []ChatMessage) ([]*genai.Content, string) {
	var contents []*genai.Content
	var systemInstruction string

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			systemInstruction = msg.Content
		case "user":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		}
	}

	return contents, systemInstruction
}

func thinkingLevel(level string) genai.ThinkingLevel {
	switch level {
	case "low":
		return genai.ThinkingLevelLow
	case "high":
		return genai.ThinkingLevelHigh
	default:
		return ""
	}
}
