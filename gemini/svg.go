package gemini

import (
	"context"

	ijson "github.com/richinex/gemini-mcp/internal/json"
)

// DefaultSVGInstructions constrains the model to emit raw markup.
const DefaultSVGInstructions = "You are an expert SVG illustrator. " +
	"Respond with only valid, self-contained SVG markup: a single <svg> element " +
	"with an explicit viewBox and no external references. " +
	"Do not wrap the markup in code fences and do not add commentary."

// SVGOptions holds the optional parameters for SVG generation.
type SVGOptions struct {
	Model        string
	Instructions string // replaces DefaultSVGInstructions when set
}

// GenerateSVG treats SVG synthesis as constrained text generation. The
// output is fence-stripped unconditionally since models wrap markup in
// code fences despite instructions.
func (c *Client) GenerateSVG(ctx context.Context, prompt string, opts SVGOptions) (SVGResult, error) {
	instructions := opts.Instructions
	if instructions == "" {
		instructions = DefaultSVGInstructions
	}

	result, err := c.GenerateText(ctx, prompt, GenerateOptions{
		Model:        opts.Model,
		Instructions: instructions,
	})
	if err != nil {
		return SVGResult{}, err
	}

	return SVGResult{
		Markup: ijson.StripFences(result.Content),
		Usage:  result.Usage,
	}, nil
}
