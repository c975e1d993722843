package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"testing"
)

func TestSegment(t *testing.T) {
	image := Asset{Data: []byte("img"), MIMEType: "image/png"}
	maskBytes := []byte("fake-png-mask")
	maskB64 := base64.StdEncoding.EncodeToString(maskBytes)

	t.Run("parses fenced JSON with data-URI masks", func(t *testing.T) {
		text := fmt.Sprintf("```json\n[{\"box_2d\": [100, 200, 300, 400], \"mask\": \"data:image/png;base64,%s\", \"label\": \"cat\"}]\n```", maskB64)
		api := &mockAPI{generateResponse: textResponse(text)}
		client := newTestClient(api)

		result, err := client.Segment(context.Background(), image, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Masks) != 1 {
			t.Fatalf("masks = %d, want 1", len(result.Masks))
		}
		mask := result.Masks[0]
		if mask.Box != [4]int{100, 200, 300, 400} {
			t.Errorf("box = %v", mask.Box)
		}
		if !bytes.Equal(mask.Asset.Data, maskBytes) {
			t.Error("mask data not decoded from data URI")
		}
		if mask.Asset.MIMEType != "image/png" {
			t.Errorf("mask mime = %q", mask.Asset.MIMEType)
		}
		if mask.Label != "cat" {
			t.Errorf("label = %q", mask.Label)
		}
		if api.lastModel != DefaultSegmentModel {
			t.Errorf("model = %q", api.lastModel)
		}
	})

	t.Run("raw base64 without data URI", func(t *testing.T) {
		text := fmt.Sprintf("[{\"box_2d\": [0, 0, 10, 10], \"mask\": %q, \"label\": \"dog\"}]", maskB64)
		client := newTestClient(&mockAPI{generateResponse: textResponse(text)})

		result, err := client.Segment(context.Background(), image, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Masks) != 1 || !bytes.Equal(result.Masks[0].Asset.Data, maskBytes) {
			t.Errorf("masks = %+v", result.Masks)
		}
	})

	t.Run("unparseable response degrades to empty list", func(t *testing.T) {
		client := newTestClient(&mockAPI{generateResponse: textResponse("not json")})

		result, err := client.Segment(context.Background(), image, "")
		if err != nil {
			t.Fatalf("parse failure must not propagate: %v", err)
		}
		if len(result.Masks) != 0 {
			t.Errorf("masks = %d, want 0", len(result.Masks))
		}
	})

	t.Run("invalid base64 entries are skipped", func(t *testing.T) {
		text := fmt.Sprintf("[{\"box_2d\": [0,0,1,1], \"mask\": \"%%not-base64%%\", \"label\": \"bad\"},"+
			"{\"box_2d\": [1,1,2,2], \"mask\": %q, \"label\": \"good\"}]", maskB64)
		client := newTestClient(&mockAPI{generateResponse: textResponse(text)})

		result, err := client.Segment(context.Background(), image, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Masks) != 1 || result.Masks[0].Label != "good" {
			t.Errorf("masks = %+v", result.Masks)
		}
	})

	t.Run("custom instruction replaces default", func(t *testing.T) {
		api := &mockAPI{generateResponse: textResponse("[]")}
		client := newTestClient(api)

		_, err := client.Segment(context.Background(), image, "only segment faces")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		parts := api.lastContents[0].Parts
		if parts[1].Text != "only segment faces" {
			t.Errorf("instruction = %q", parts[1].Text)
		}
	})

	t.Run("default instruction asks for the mask schema", func(t *testing.T) {
		api := &mockAPI{generateResponse: textResponse("[]")}
		client := newTestClient(api)

		_, err := client.Segment(context.Background(), image, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		parts := api.lastContents[0].Parts
		if parts[0].InlineData == nil {
			t.Error("image must be the first part")
		}
		if parts[1].Text != DefaultSegmentInstructions {
			t.Errorf("instruction = %q", parts[1].Text)
		}
	})
}

func TestStripDataURI(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"data:image/png;base64,QUJD", "QUJD"},
		{"QUJD", "QUJD"},
		{"data:text/plain,hello", "data:text/plain,hello"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripDataURI(tt.input); got != tt.expected {
			t.Errorf("stripDataURI(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
