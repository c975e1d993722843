package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	ijson "github.com/richinex/gemini-mcp/internal/json"
)

// DefaultSegmentInstructions asks the model for the JSON mask schema the
// parser expects.
const DefaultSegmentInstructions = "Give the segmentation masks for all prominent objects in the image. " +
	"Output a JSON list of segmentation masks where each entry contains the 2D bounding box " +
	"in the key \"box_2d\" as [y0, x0, y1, x1] normalized to 0-1000, the base64 encoded PNG " +
	"segmentation mask in the key \"mask\", and a descriptive text label in the key \"label\"."

// segmentEntry is the strict schema the model output is parsed into.
type segmentEntry struct {
	Box   [4]int `json:"box_2d"`
	Mask  string `json:"mask"`
	Label string `json:"label"`
}

// Segment detects objects in the image and returns their masks. The model
// output is untrusted input: any parse or schema failure degrades to an
// empty mask list rather than an error.
func (c *Client) Segment(ctx context.Context, image Asset, instructions string) (SegmentResult, error) {
	if instructions == "" {
		instructions = DefaultSegmentInstructions
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: image.MIMEType, Data: image.Data}},
			{Text: instructions},
		},
	}}

	response, err := c.api.GenerateContent(ctx, c.models.Segment, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return SegmentResult{}, fmt.Errorf("segmentation failed: %w", err)
	}

	return SegmentResult{
		Masks: parseMasks(candidateText(response, false)),
		Usage: usageFrom(response),
	}, nil
}

// parseMasks decodes the model's JSON mask list. Entries whose mask data
// fails base64 decoding are skipped; unparseable responses yield nil.
func parseMasks(text string) []Mask {
	entries, err := ijson.ExtractJSONFromResponse[[]segmentEntry](text)
	if err != nil {
		return nil
	}

	var masks []Mask
	for _, entry := range entries {
		data, err := base64.StdEncoding.DecodeString(stripDataURI(entry.Mask))
		if err != nil {
			continue
		}
		masks = append(masks, Mask{
			Box:   entry.Box,
			Asset: Asset{Data: data, MIMEType: "image/png"},
			Label: entry.Label,
		})
	}
	return masks
}

// stripDataURI removes a data-URI scheme prefix, leaving raw base64.
func stripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, "base64,"); i >= 0 {
		return s[i+len("base64,"):]
	}
	return s
}
