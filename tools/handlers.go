package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/richinex/gemini-mcp/config"
	"github.com/richinex/gemini-mcp/gemini"
)

// Call validates the arguments for the named tool, performs the file-system
// side effects they imply, invokes the upstream call layer, and formats the
// reply. Each call is independent; concurrent calls share no mutable state.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	callID := uuid.NewString()
	start := time.Now()
	r.logger.Debug("tool call", "tool", name, "call_id", callID)

	result, err := r.dispatch(ctx, name, args)
	if err != nil {
		r.logger.Warn("tool call failed", "tool", name, "call_id", callID, "error", err)
		return nil, err
	}

	r.logger.Info("tool call complete", "tool", name, "call_id", callID, "duration", time.Since(start))
	return result, nil
}

func (r *Registry) dispatch(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	if !r.settings.Configured() {
		if name == "setup" {
			return textResult(setupText), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	switch name {
	case "generate":
		return r.handleGenerate(ctx, args)
	case "messages":
		return r.handleMessages(ctx, args)
	case "image":
		return r.handleImage(ctx, args)
	case "upscale":
		return r.handleUpscale(ctx, args)
	case "edit":
		return r.handleEdit(ctx, args)
	case "svg":
		return r.handleSVG(ctx, args)
	case "segment":
		return r.handleSegment(ctx, args)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

const setupText = "This server needs a Gemini API key.\n\n" +
	"1. Create a key at https://aistudio.google.com/apikey\n" +
	"2. Export it as " + config.EnvAPIKey + " in the environment of this server\n" +
	"   (or place it in a .env file next to the binary)\n" +
	"3. Restart the server; the full tool set will then be advertised."

// unmarshalArgs decodes raw arguments into a typed record; malformed input
// is a validation failure, not an internal error.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = []byte("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &ValidationError{Field: "arguments", Message: err.Error()}
	}
	return nil
}

// generationArgs are the options shared by the generate and messages tools.
type generationArgs struct {
	Model           string   `json:"model"`
	Instructions    string   `json:"instructions"`
	ThinkingLevel   string   `json:"thinking_level"`
	IncludeThoughts bool     `json:"include_thoughts"`
	MaxTokens       int32    `json:"max_tokens"`
	Temperature     *float64 `json:"temperature"`
	TopP            *float64 `json:"top_p"`
}

func (a *generationArgs) validate() error {
	if a.ThinkingLevel != "" && a.ThinkingLevel != "low" && a.ThinkingLevel != "high" {
		return validationErrorf("thinking_level", "must be one of low, high")
	}
	if a.MaxTokens < 0 {
		return validationErrorf("max_tokens", "must be at least 1")
	}
	if a.Temperature != nil && (*a.Temperature < 0 || *a.Temperature > 2) {
		return validationErrorf("temperature", "must be between 0 and 2")
	}
	if a.TopP != nil && (*a.TopP < 0 || *a.TopP > 1) {
		return validationErrorf("top_p", "must be between 0 and 1")
	}
	return nil
}

func (a *generationArgs) options() gemini.GenerateOptions {
	return gemini.GenerateOptions{
		Model:           a.Model,
		Instructions:    a.Instructions,
		ThinkingLevel:   a.ThinkingLevel,
		IncludeThoughts: a.IncludeThoughts,
		MaxTokens:       a.MaxTokens,
		Temperature:     ptr32(a.Temperature),
		TopP:            ptr32(a.TopP),
	}
}

type generateArgs struct {
	generationArgs
	Prompt string `json:"prompt"`
}

func (r *Registry) handleGenerate(ctx context.Context, args json.RawMessage) (*Result, error) {
	var a generateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Prompt == "" {
		return nil, validationErrorf("prompt", "is required")
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	result, err := r.client.GenerateText(ctx, a.Prompt, a.options())
	if err != nil {
		return nil, err
	}
	return textResult(result.Content + usageFooter(result.Usage)), nil
}

type messagesArgs struct {
	generationArgs
	Messages []gemini.ChatMessage `json:"messages"`
}

func (r *Registry) handleMessages(ctx context.Context, args json.RawMessage) (*Result, error) {
	var a messagesArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Messages) == 0 {
		return nil, validationErrorf("messages", "is required")
	}
	for i, msg := range a.Messages {
		if msg.Role != "user" && msg.Role != "assistant" && msg.Role != "system" {
			return nil, validationErrorf(fmt.Sprintf("messages[%d].role", i), "must be one of user, assistant, system")
		}
		if msg.Content == "" {
			return nil, validationErrorf(fmt.Sprintf("messages[%d].content", i), "is required")
		}
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	result, err := r.client.GenerateFromMessages(ctx, a.Messages, a.options())
	if err != nil {
		return nil, err
	}
	return textResult(result.Content + usageFooter(result.Usage)), nil
}

type imageArgs struct {
	Prompt         string   `json:"prompt"`
	InputImagePath string   `json:"input_image_path"`
	OutputPath     string   `json:"output_path"`
	Size           string   `json:"size"`
	AspectRatio    string   `json:"aspect_ratio"`
	NegativePrompt string   `json:"negative_prompt"`
	Count          int32    `json:"count"`
	GuidanceScale  *float64 `json:"guidance_scale"`
	Seed           *int32   `json:"seed"`
}

func (a *imageArgs) validate() error {
	if a.Prompt == "" {
		return validationErrorf("prompt", "is required")
	}
	if a.Size != "" && a.Size != "1K" && a.Size != "2K" && a.Size != "4K" {
		return validationErrorf("size", "must be one of 1K, 2K, 4K")
	}
	if a.AspectRatio != "" && !contains(aspectRatios, a.AspectRatio) {
		return validationErrorf("aspect_ratio", "must be one of %v", aspectRatios)
	}
	if a.Count != 0 && (a.Count < 1 || a.Count > 4) {
		return validationErrorf("count", "must be between 1 and 4")
	}
	return nil
}

func (r *Registry) handleImage(ctx context.Context, args json.RawMessage) (*Result, error) {
	var a imageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	opts := gemini.ImageOptions{
		Size:           a.Size,
		AspectRatio:    a.AspectRatio,
		NegativePrompt: a.NegativePrompt,
		Count:          a.Count,
		Seed:           a.Seed,
	}
	if opts.Size == "" {
		opts.Size = "1K"
	}
	if a.InputImagePath != "" {
		reference, err := readImage(a.InputImagePath)
		if err != nil {
			return nil, err
		}
		opts.Reference = &reference
	}

	result, err := r.client.GenerateImage(ctx, a.Prompt, opts)
	if err != nil {
		return nil, err
	}
	return imageReply(result, a.OutputPath, true)
}

type upscaleArgs struct {
	InputImagePath string `json:"input_image_path"`
	OutputPath     string `json:"output_path"`
	Factor         string `json:"factor"`
	OutputFormat   string `json:"output_format"`
	JPEGQuality    *int32 `json:"jpeg_quality"`
}

func (a *upscaleArgs) validate() error {
	if a.InputImagePath == "" {
		return validationErrorf("input_image_path", "is required")
	}
	if a.Factor != "" && a.Factor != "x2" && a.Factor != "x4" {
		return validationErrorf("factor", "must be one of x2, x4")
	}
	return validateOutputFormat(a.OutputFormat, a.JPEGQuality)
}

func (r *Registry) handleUpscale(ctx context.Context, args json.RawMessage) (*Result, error) {
	var a upscaleArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	image, err := readImage(a.InputImagePath)
	if err != nil {
		return nil, err
	}

	result, err := r.client.Upscale(ctx, image, gemini.UpscaleOptions{
		Factor:       a.Factor,
		OutputFormat: a.OutputFormat,
		JPEGQuality:  jpegQuality(a.JPEGQuality),
	})
	if err != nil {
		return nil, err
	}
	return imageReply(result, a.OutputPath, false)
}

type editArgs struct {
	Prompt         string   `json:"prompt"`
	InputImagePath string   `json:"input_image_path"`
	MaskImagePath  string   `json:"mask_image_path"`
	OutputPath     string   `json:"output_path"`
	EditMode       string   `json:"edit_mode"`
	OutputFormat   string   `json:"output_format"`
	JPEGQuality    *int32   `json:"jpeg_quality"`
	NegativePrompt string   `json:"negative_prompt"`
	Count          int32    `json:"count"`
	GuidanceScale  *float64 `json:"guidance_scale"`
	Seed           *int32   `json:"seed"`
}

func (a *editArgs) validate() error {
	if a.Prompt == "" {
		return validationErrorf("prompt", "is required")
	}
	if a.InputImagePath == "" {
		return validationErrorf("input_image_path", "is required")
	}
	if a.EditMode != "" && a.EditMode != "inpaint" && a.EditMode != "outpaint" {
		return validationErrorf("edit_mode", "must be one of inpaint, outpaint")
	}
	if a.Count != 0 && (a.Count < 1 || a.Count > 4) {
		return validationErrorf("count", "must be between 1 and 4")
	}
	return validateOutputFormat(a.OutputFormat, a.JPEGQuality)
}

func (r *Registry) handleEdit(ctx context.Context, args json.RawMessage) (*Result, error) {
	var a editArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	image, err := readImage(a.InputImagePath)
	if err != nil {
		return nil, err
	}

	opts := gemini.EditOptions{
		Mode:           a.EditMode,
		OutputFormat:   a.OutputFormat,
		JPEGQuality:    jpegQuality(a.JPEGQuality),
		NegativePrompt: a.NegativePrompt,
		Count:          a.Count,
		GuidanceScale:  ptr32(a.GuidanceScale),
		Seed:           a.Seed,
	}
	if a.MaskImagePath != "" {
		mask, err := readImage(a.MaskImagePath)
		if err != nil {
			return nil, err
		}
		opts.Mask = &mask
	}

	result, err := r.client.Edit(ctx, a.Prompt, image, opts)
	if err != nil {
		return nil, err
	}
	return imageReply(result, a.OutputPath, false)
}

type svgArgs struct {
	Prompt       string `json:"prompt"`
	OutputPath   string `json:"output_path"`
	Instructions string `json:"instructions"`
}

func (r *Registry) handleSVG(ctx context.Context, args json.RawMessage) (*Result, error) {
	var a svgArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Prompt == "" {
		return nil, validationErrorf("prompt", "is required")
	}

	result, err := r.client.GenerateSVG(ctx, a.Prompt, gemini.SVGOptions{Instructions: a.Instructions})
	if err != nil {
		return nil, err
	}

	if a.OutputPath == "" {
		return textResult(result.Markup + usageFooter(result.Usage)), nil
	}
	if err := writeTextFile(a.OutputPath, result.Markup); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Saved SVG to %s", a.OutputPath) + usageFooter(result.Usage)), nil
}

type segmentArgs struct {
	InputImagePath string `json:"input_image_path"`
	Prompt         string `json:"prompt"`
	OutputMaskPath string `json:"output_mask_path"`
}

// maskSummary is the JSON shape of one detected mask in the reply.
type maskSummary struct {
	Label string `json:"label"`
	Box   [4]int `json:"box_2d"`
}

func (r *Registry) handleSegment(ctx context.Context, args json.RawMessage) (*Result, error) {
	var a segmentArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.InputImagePath == "" {
		return nil, validationErrorf("input_image_path", "is required")
	}

	image, err := readImage(a.InputImagePath)
	if err != nil {
		return nil, err
	}

	result, err := r.client.Segment(ctx, image, a.Prompt)
	if err != nil {
		return nil, err
	}

	summary := struct {
		Count int           `json:"count"`
		Masks []maskSummary `json:"masks"`
	}{Count: len(result.Masks), Masks: []maskSummary{}}
	for _, mask := range result.Masks {
		summary.Masks = append(summary.Masks, maskSummary{Label: mask.Label, Box: mask.Box})
	}
	text, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode mask summary: %w", err)
	}

	reply := &Result{Content: []Content{textContent(string(text))}}
	if a.OutputMaskPath != "" && len(result.Masks) > 0 {
		paths, err := writeAssets(a.OutputMaskPath, []gemini.Asset{result.Masks[0].Asset})
		if err != nil {
			return nil, err
		}
		reply.Content = append(reply.Content, textContent(fmt.Sprintf("Saved mask to %s", paths[0])))
	}
	return reply, nil
}

// imageReply persists assets when an output path was supplied, otherwise
// returns them inline as base64 content blocks.
func imageReply(result gemini.ImageResult, outputPath string, withUsage bool) (*Result, error) {
	reply := &Result{}
	if result.Caption != "" {
		reply.Content = append(reply.Content, textContent(result.Caption))
	}

	if outputPath != "" {
		paths, err := writeAssets(outputPath, result.Images)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			reply.Content = append(reply.Content, textContent(fmt.Sprintf("Saved image to %s", p)))
		}
	} else {
		for _, img := range result.Images {
			reply.Content = append(reply.Content, imageContent(img))
		}
	}

	if withUsage && result.Usage != nil {
		reply.Content = append(reply.Content, textContent(fmt.Sprintf("%d prompt, %d completion, %d total",
			result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)))
	}
	return reply, nil
}

func validateOutputFormat(format string, quality *int32) error {
	if format != "" && format != "png" && format != "jpeg" && format != "webp" {
		return validationErrorf("output_format", "must be one of png, jpeg, webp")
	}
	if quality != nil && (*quality < 0 || *quality > 100) {
		return validationErrorf("jpeg_quality", "must be between 0 and 100")
	}
	return nil
}

func jpegQuality(quality *int32) int32 {
	if quality == nil {
		return 75
	}
	return *quality
}

func ptr32(f *float64) *float32 {
	if f == nil {
		return nil
	}
	v := float32(*f)
	return &v
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
