// Package tools implements the tool dispatcher: schema declarations,
// argument validation, file-system side effects, and the mapping from tool
// invocations to upstream calls.
package tools

import (
	"context"
	"log/slog"

	"github.com/richinex/gemini-mcp/config"
	"github.com/richinex/gemini-mcp/gemini"
)

// Generator is the slice of the upstream call layer the dispatcher needs.
// *gemini.Client satisfies it; tests substitute a mock.
type Generator interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.GenerateOptions) (gemini.TextResult, error)
	GenerateFromMessages(ctx context.Context, messages []gemini.ChatMessage, opts gemini.GenerateOptions) (gemini.TextResult, error)
	GenerateImage(ctx context.Context, prompt string, opts gemini.ImageOptions) (gemini.ImageResult, error)
	Upscale(ctx context.Context, image gemini.Asset, opts gemini.UpscaleOptions) (gemini.ImageResult, error)
	Edit(ctx context.Context, prompt string, image gemini.Asset, opts gemini.EditOptions) (gemini.ImageResult, error)
	GenerateSVG(ctx context.Context, prompt string, opts gemini.SVGOptions) (gemini.SVGResult, error)
	Segment(ctx context.Context, image gemini.Asset, instructions string) (gemini.SegmentResult, error)
}

// Registry holds the advertised tool set and dispatches invocations.
// The configuration gate is fixed at construction and never re-checked.
type Registry struct {
	client   Generator
	settings config.Settings
	logger   *slog.Logger
}

// NewRegistry creates a dispatcher. The client may be nil when the
// settings are unconfigured; only the setup tool is reachable then.
func NewRegistry(client Generator, settings config.Settings, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		client:   client,
		settings: settings,
		logger:   logger,
	}
}

// Definition describes one advertised tool.
type Definition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Supported aspect ratios for image generation.
var aspectRatios = []string{"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9"}

// Definitions returns the advertised tool set. Without a credential only
// the setup tool is exposed.
func (r *Registry) Definitions() []Definition {
	if !r.settings.Configured() {
		return []Definition{setupDefinition()}
	}
	return capabilityDefinitions()
}

func setupDefinition() Definition {
	return Definition{
		Name:        "setup",
		Description: "Explains how to configure Gemini API access for this server.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}

func capabilityDefinitions() []Definition {
	generationProperties := map[string]interface{}{
		"model": map[string]interface{}{
			"type":        "string",
			"description": "Model identifier override",
		},
		"instructions": map[string]interface{}{
			"type":        "string",
			"description": "System instructions",
		},
		"thinking_level": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"low", "high"},
			"description": "Reasoning effort",
		},
		"include_thoughts": map[string]interface{}{
			"type":        "boolean",
			"description": "Include thought summaries in the output",
		},
		"max_tokens": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum output tokens",
		},
		"temperature": map[string]interface{}{
			"type":        "number",
			"description": "Sampling temperature (0-2)",
		},
		"top_p": map[string]interface{}{
			"type":        "number",
			"description": "Nucleus sampling threshold (0-1)",
		},
	}

	generateSchema := map[string]interface{}{
		"type": "object",
		"properties": mergeProperties(generationProperties, map[string]interface{}{
			"prompt": map[string]interface{}{
				"type":        "string",
				"description": "Text prompt",
			},
		}),
		"required": []string{"prompt"},
	}

	messagesSchema := map[string]interface{}{
		"type": "object",
		"properties": mergeProperties(generationProperties, map[string]interface{}{
			"messages": map[string]interface{}{
				"type":        "array",
				"description": "Conversation history in order",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"role": map[string]interface{}{
							"type": "string",
							"enum": []string{"user", "assistant", "system"},
						},
						"content": map[string]interface{}{"type": "string"},
					},
					"required": []string{"role", "content"},
				},
			},
		}),
		"required": []string{"messages"},
	}

	outputImageProperties := map[string]interface{}{
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Path to save results; the extension is derived from the image format. Omit to return images inline.",
		},
		"output_format": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"png", "jpeg", "webp"},
			"description": "Requested output image format",
		},
		"jpeg_quality": map[string]interface{}{
			"type":        "integer",
			"description": "JPEG compression quality (0-100, default 75)",
			"default":     75,
		},
	}

	return []Definition{
		{
			Name:        "generate",
			Description: "Generate text from a single prompt with Gemini.",
			InputSchema: generateSchema,
		},
		{
			Name:        "messages",
			Description: "Generate text from a multi-turn conversation with Gemini.",
			InputSchema: messagesSchema,
		},
		{
			Name:        "image",
			Description: "Generate one or more images from a prompt, optionally conditioned on a reference image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "Image description",
					},
					"input_image_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional reference image to condition the generation",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to save generated images; omit to return them inline",
					},
					"size": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"1K", "2K", "4K"},
						"description": "Output resolution tier (default 1K)",
						"default":     "1K",
					},
					"aspect_ratio": map[string]interface{}{
						"type": "string",
						"enum": aspectRatios,
					},
					"negative_prompt": map[string]interface{}{
						"type":        "string",
						"description": "Elements to avoid",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of images (1-4)",
						"default":     1,
					},
					"guidance_scale": map[string]interface{}{
						"type":        "number",
						"description": "Prompt adherence strength (ignored by Gemini-native image models)",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Deterministic seed",
					},
				},
				"required": []string{"prompt"},
			},
		},
		{
			Name:        "upscale",
			Description: "Upscale an image by a factor of 2 or 4.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(outputImageProperties, map[string]interface{}{
					"input_image_path": map[string]interface{}{
						"type":        "string",
						"description": "Image to upscale",
					},
					"factor": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"x2", "x4"},
						"description": "Upscale factor (default x2)",
						"default":     "x2",
					},
				}),
				"required": []string{"input_image_path"},
			},
		},
		{
			Name:        "edit",
			Description: "Edit an image guided by a prompt: inpaint a masked region or outpaint beyond the canvas.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(outputImageProperties, map[string]interface{}{
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "Edit instruction",
					},
					"input_image_path": map[string]interface{}{
						"type":        "string",
						"description": "Source image",
					},
					"mask_image_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional mask restricting the edit region; without it the edit applies globally",
					},
					"edit_mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"inpaint", "outpaint"},
						"description": "Fill the masked region or extend the canvas (default inpaint)",
						"default":     "inpaint",
					},
					"negative_prompt": map[string]interface{}{
						"type":        "string",
						"description": "Elements to avoid",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of images (1-4)",
						"default":     1,
					},
					"guidance_scale": map[string]interface{}{
						"type":        "number",
						"description": "Prompt adherence strength",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Deterministic seed",
					},
				}),
				"required": []string{"prompt", "input_image_path"},
			},
		},
		{
			Name:        "svg",
			Description: "Generate standalone SVG markup from a prompt.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "Description of the illustration",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to save the markup; omit to return it inline",
					},
					"instructions": map[string]interface{}{
						"type":        "string",
						"description": "Replaces the default SVG system instructions",
					},
				},
				"required": []string{"prompt"},
			},
		},
		{
			Name:        "segment",
			Description: "Detect objects in an image and return their segmentation masks.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"input_image_path": map[string]interface{}{
						"type":        "string",
						"description": "Image to segment",
					},
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "Replaces the default segmentation instruction",
					},
					"output_mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to save the first detected mask as PNG",
					},
				},
				"required": []string{"input_image_path"},
			},
		},
	}
}

func mergeProperties(base, extra map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
