package tools

import (
	"encoding/base64"
	"fmt"

	"github.com/richinex/gemini-mcp/gemini"
)

// Content is one MCP content block of a tool reply.
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
}

// Result is a tool reply: an ordered list of content blocks.
type Result struct {
	Content []Content `json:"content"`
}

func textContent(text string) Content {
	return Content{Type: "text", Text: text}
}

func imageContent(asset gemini.Asset) Content {
	return Content{
		Type:     "image",
		Data:     base64.StdEncoding.EncodeToString(asset.Data),
		MIMEType: asset.MIMEType,
	}
}

func textResult(text string) *Result {
	return &Result{Content: []Content{textContent(text)}}
}

// usageFooter renders the informational token-usage line appended to
// textual replies. Callers must not parse it.
func usageFooter(usage *gemini.Usage) string {
	if usage == nil {
		return ""
	}
	return fmt.Sprintf("\n\n%d prompt, %d completion, %d total",
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}
