// Package gemini implements the upstream call layer: one operation per
// capability, each a single translation to a Gemini API request plus the
// normalization of the raw response into a small result shape.
package gemini

// ChatMessage represents a conversation message with role and content.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateOptions holds sampling and instruction parameters for text
// generation. Immutable once built; owned by the call that builds it.
type GenerateOptions struct {
	Model           string
	Instructions    string
	ThinkingLevel   string // "low" or "high"; empty leaves the model default
	IncludeThoughts bool
	MaxTokens       int32
	Temperature     *float32
	TopP            *float32
}

// Asset is a binary image payload with its declared format. Produced by
// reading a file or decoding an upstream inline-data part; consumed by
// exactly one upstream call or one file write.
type Asset struct {
	Data     []byte
	MIMEType string
}

// Usage contains token usage counters copied through from the upstream
// response. Purely informational.
type Usage struct {
	PromptTokens     int32
	CompletionTokens int32
	TotalTokens      int32
}

// TextResult is the normalized outcome of a text generation call.
type TextResult struct {
	Content string
	Usage   *Usage
}

// ImageResult is the normalized outcome of an image-bearing call.
// Images preserve upstream order.
type ImageResult struct {
	Caption string
	Images  []Asset
	Usage   *Usage
}

// SVGResult is the normalized outcome of an SVG generation call, with
// code fences already stripped from the markup.
type SVGResult struct {
	Markup string
	Usage  *Usage
}

// Mask is one detected object: a bounding box normalized to 0-1000 in
// [y0, x0, y1, x1] order, the decoded PNG mask, and a text label.
type Mask struct {
	Box   [4]int
	Asset Asset
	Label string
}

// SegmentResult is the normalized outcome of a segmentation call.
// An unparseable upstream response yields an empty mask list, not an error.
type SegmentResult struct {
	Masks []Mask
	Usage *Usage
}
