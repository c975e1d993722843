package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// generativeAPI is the slice of the genai SDK the client depends on.
// *genai.Models satisfies it; tests substitute a mock.
type generativeAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	UpscaleImage(ctx context.Context, model string, image *genai.Image, upscaleFactor string, config *genai.UpscaleImageConfig) (*genai.UpscaleImageResponse, error)
	EditImage(ctx context.Context, model string, prompt string, referenceImages []genai.ReferenceImage, config *genai.EditImageConfig) (*genai.EditImageResponse, error)
}

// Client wraps the official genai SDK for the Gemini API.
type Client struct {
	api    generativeAPI
	models ModelConfig
}

// NewClient creates a Gemini client authenticated with the given API key.
func NewClient(ctx context.Context, apiKey string, models ModelConfig) (*Client, error) {
	cc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	return &Client{
		api:    cc.Models,
		models: models,
	}, nil
}

// usageFrom copies the upstream usage counters through verbatim.
// Absent metadata yields nil; absent fields stay zero.
func usageFrom(resp *genai.GenerateContentResponse) *Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &Usage{
		PromptTokens:     resp.UsageMetadata.PromptTokenCount,
		CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      resp.UsageMetadata.TotalTokenCount,
	}
}

// candidateText concatenates all textual parts of the first candidate.
// The response's top-level Text() accessor is unreliable for some model
// variants and must not be used as the sole source. Thought parts are
// skipped unless includeThoughts is set.
func candidateText(resp *genai.GenerateContentResponse, includeThoughts bool) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var content string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought && !includeThoughts {
			continue
		}
		content += part.Text
	}
	return content
}
