package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ImageOptions holds the optional parameters for image generation.
type ImageOptions struct {
	Model          string
	Reference      *Asset // optional conditioning image
	Size           string // "1K", "2K" or "4K"
	AspectRatio    string
	NegativePrompt string
	Count          int32
	Seed           *int32
}

// UpscaleOptions holds the optional parameters for image upscaling.
type UpscaleOptions struct {
	Model        string
	Factor       string // "x2" or "x4"
	OutputFormat string // "png", "jpeg" or "webp"
	JPEGQuality  int32
}

// EditOptions holds the optional parameters for image editing.
type EditOptions struct {
	Model          string
	Mask           *Asset
	Mode           string // "inpaint" or "outpaint"
	OutputFormat   string
	JPEGQuality    int32
	NegativePrompt string
	Count          int32
	GuidanceScale  *float32
	Seed           *int32
}

// GenerateImage generates one or more images from a prompt, optionally
// conditioned on a reference image. The request asks for both image and
// text modalities; every inline-data part of the response becomes one
// asset and the text parts concatenate into an accompanying caption.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (ImageResult, error) {
	var parts []*genai.Part
	if opts.Reference != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: opts.Reference.MIMEType, Data: opts.Reference.Data},
		})
	}

	text := prompt
	if opts.NegativePrompt != "" {
		// generateContent carries no negativePrompt field; fold it into
		// the prompt as an avoid clause.
		text += "\n\nDo not include: " + opts.NegativePrompt
	}
	parts = append(parts, &genai.Part{Text: text})

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	if opts.Size != "" || opts.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{
			AspectRatio: opts.AspectRatio,
			ImageSize:   opts.Size,
		}
	}
	if opts.Count > 1 {
		config.CandidateCount = opts.Count
	}
	if opts.Seed != nil {
		config.Seed = opts.Seed
	}

	model := opts.Model
	if model == "" {
		model = c.models.Image
	}

	response, err := c.api.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return ImageResult{}, fmt.Errorf("image generation failed: %w", err)
	}

	result := ImageResult{Usage: usageFrom(response)}
	for _, candidate := range response.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				result.Images = append(result.Images, Asset{Data: part.InlineData.Data, MIMEType: mime})
			}
			result.Caption += part.Text
		}
	}

	if len(result.Images) == 0 {
		return ImageResult{}, fmt.Errorf("response contained no image data")
	}
	return result, nil
}

// Upscale enlarges an image by the given factor.
func (c *Client) Upscale(ctx context.Context, image Asset, opts UpscaleOptions) (ImageResult, error) {
	factor := opts.Factor
	if factor == "" {
		factor = "x2"
	}

	config := &genai.UpscaleImageConfig{}
	applyOutputFormat(opts.OutputFormat, opts.JPEGQuality, func(mime string, quality *int32) {
		config.OutputMIMEType = mime
		config.OutputCompressionQuality = quality
	})

	model := opts.Model
	if model == "" {
		model = c.models.Upscale
	}

	response, err := c.api.UpscaleImage(ctx, model, &genai.Image{ImageBytes: image.Data, MIMEType: image.MIMEType}, factor, config)
	if err != nil {
		return ImageResult{}, fmt.Errorf("image upscale failed: %w", err)
	}

	images := assetsFromGenerated(response.GeneratedImages)
	if len(images) == 0 {
		return ImageResult{}, fmt.Errorf("response contained no image data")
	}
	return ImageResult{Images: images}, nil
}

// Edit applies a prompt-guided edit to a source image. A supplied mask is
// attached as a user-provided mask reference restricting the edit region;
// without one the edit applies globally.
func (c *Client) Edit(ctx context.Context, prompt string, image Asset, opts EditOptions) (ImageResult, error) {
	refs := []genai.ReferenceImage{
		&genai.RawReferenceImage{
			ReferenceID:    1,
			ReferenceImage: &genai.Image{ImageBytes: image.Data, MIMEType: image.MIMEType},
		},
	}
	if opts.Mask != nil {
		refs = append(refs, &genai.MaskReferenceImage{
			ReferenceID:    2,
			ReferenceImage: &genai.Image{ImageBytes: opts.Mask.Data, MIMEType: opts.Mask.MIMEType},
			Config: &genai.MaskReferenceConfig{
				MaskMode: genai.MaskReferenceModeMaskModeUserProvided,
			},
		})
	}

	config := &genai.EditImageConfig{
		EditMode: editMode(opts.Mode, opts.Mask != nil),
	}
	if opts.NegativePrompt != "" {
		config.NegativePrompt = opts.NegativePrompt
	}
	if opts.Count > 0 {
		config.NumberOfImages = opts.Count
	}
	if opts.GuidanceScale != nil {
		config.GuidanceScale = opts.GuidanceScale
	}
	if opts.Seed != nil {
		config.Seed = opts.Seed
	}
	applyOutputFormat(opts.OutputFormat, opts.JPEGQuality, func(mime string, quality *int32) {
		config.OutputMIMEType = mime
		config.OutputCompressionQuality = quality
	})

	model := opts.Model
	if model == "" {
		model = c.models.Edit
	}

	response, err := c.api.EditImage(ctx, model, prompt, refs, config)
	if err != nil {
		return ImageResult{}, fmt.Errorf("image edit failed: %w", err)
	}

	images := assetsFromGenerated(response.GeneratedImages)
	if len(images) == 0 {
		return ImageResult{}, fmt.Errorf("response contained no image data")
	}
	return ImageResult{Images: images}, nil
}

// editMode maps the tool-level mode to the upstream enum. Inpainting
// requires a mask region; without one the edit is prompt-guided only.
func editMode(mode string, hasMask bool) genai.EditMode {
	switch {
	case mode == "outpaint":
		return genai.EditModeOutpaint
	case hasMask:
		return genai.EditModeInpaintInsertion
	default:
		return genai.EditModeDefault
	}
}

// applyOutputFormat translates a format name into the upstream output mime
// type and, for jpeg only, a compression quality.
func applyOutputFormat(format string, jpegQuality int32, set func(mime string, quality *int32)) {
	if format == "" {
		return
	}
	mime := "image/" + format
	var quality *int32
	if format == "jpeg" {
		quality = genai.Ptr(jpegQuality)
	}
	set(mime, quality)
}

func assetsFromGenerated(generated []*genai.GeneratedImage) []Asset {
	var images []Asset
	for _, g := range generated {
		if g == nil || g.Image == nil || len(g.Image.ImageBytes) == 0 {
			continue
		}
		mime := g.Image.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		images = append(images, Asset{Data: g.Image.ImageBytes, MIMEType: mime})
	}
	return images
}
