package gemini

import (
	"context"
	"strings"
	"testing"
)

func TestGenerateSVG(t *testing.T) {
	t.Run("fences are stripped", func(t *testing.T) {
		api := &mockAPI{generateResponse: textResponse("```svg\n<svg viewBox=\"0 0 10 10\"></svg>\n```")}
		client := newTestClient(api)

		result, err := client.GenerateSVG(context.Background(), "a circle", SVGOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Markup != `<svg viewBox="0 0 10 10"></svg>` {
			t.Errorf("markup = %q", result.Markup)
		}
	})

	t.Run("unfenced markup passes through", func(t *testing.T) {
		api := &mockAPI{generateResponse: textResponse("<svg/>")}
		client := newTestClient(api)

		result, err := client.GenerateSVG(context.Background(), "x", SVGOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Markup != "<svg/>" {
			t.Errorf("markup = %q", result.Markup)
		}
	})

	t.Run("default instructions constrain to markup", func(t *testing.T) {
		api := &mockAPI{generateResponse: textResponse("<svg/>")}
		client := newTestClient(api)

		_, err := client.GenerateSVG(context.Background(), "x", SVGOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if api.lastConfig.SystemInstruction == nil {
			t.Fatal("system instruction not set")
		}
		if !strings.Contains(api.lastConfig.SystemInstruction.Parts[0].Text, "SVG") {
			t.Error("default instruction should mention SVG")
		}
	})

	t.Run("caller instructions win", func(t *testing.T) {
		api := &mockAPI{generateResponse: textResponse("<svg/>")}
		client := newTestClient(api)

		_, err := client.GenerateSVG(context.Background(), "x", SVGOptions{Instructions: "flat minimal style"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := api.lastConfig.SystemInstruction.Parts[0].Text; got != "flat minimal style" {
			t.Errorf("instruction = %q", got)
		}
	})
}
