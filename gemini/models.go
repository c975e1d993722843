package gemini

// Default model identifiers per capability. Overridable through the
// environment (see the config package) and per call where a tool exposes a
// model argument.
const (
	DefaultTextModel    = "gemini-3-pro-preview"
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultUpscaleModel = "imagen-3.0-generate-002"
	DefaultEditModel    = "imagen-3.0-capability-001"
	DefaultSegmentModel = "gemini-2.5-flash"
)

// ModelConfig holds the model identifier used for each capability.
type ModelConfig struct {
	Text    string
	Image   string
	Upscale string
	Edit    string
	Segment string
}

// DefaultModels returns the stock per-capability model configuration.
func DefaultModels() ModelConfig {
	return ModelConfig{
		Text:    DefaultTextModel,
		Image:   DefaultImageModel,
		Upscale: DefaultUpscaleModel,
		Edit:    DefaultEditModel,
		Segment: DefaultSegmentModel,
	}
}
