package gemini

import (
	"context"

	"google.golang.org/genai"
)

// mockAPI records the last request of each kind and returns canned responses.
type mockAPI struct {
	generateResponse *genai.GenerateContentResponse
	generateErr      error
	upscaleResponse  *genai.UpscaleImageResponse
	upscaleErr       error
	editResponse     *genai.EditImageResponse
	editErr          error

	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig

	lastUpscaleImage  *genai.Image
	lastUpscaleFactor string
	lastUpscaleConfig *genai.UpscaleImageConfig

	lastEditPrompt string
	lastEditRefs   []genai.ReferenceImage
	lastEditConfig *genai.EditImageConfig
}

func (m *mockAPI) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	return m.generateResponse, m.generateErr
}

func (m *mockAPI) UpscaleImage(ctx context.Context, model string, image *genai.Image, upscaleFactor string, config *genai.UpscaleImageConfig) (*genai.UpscaleImageResponse, error) {
	m.lastModel = model
	m.lastUpscaleImage = image
	m.lastUpscaleFactor = upscaleFactor
	m.lastUpscaleConfig = config
	return m.upscaleResponse, m.upscaleErr
}

func (m *mockAPI) EditImage(ctx context.Context, model string, prompt string, referenceImages []genai.ReferenceImage, config *genai.EditImageConfig) (*genai.EditImageResponse, error) {
	m.lastModel = model
	m.lastEditPrompt = prompt
	m.lastEditRefs = referenceImages
	m.lastEditConfig = config
	return m.editResponse, m.editErr
}

func newTestClient(api *mockAPI) *Client {
	return &Client{api: api, models: DefaultModels()}
}

// textResponse builds a single-candidate response whose content consists of
// the given text parts.
func textResponse(parts ...string) *genai.GenerateContentResponse {
	var genaiParts []*genai.Part
	for _, p := range parts {
		genaiParts = append(genaiParts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: genaiParts},
		}},
	}
}
