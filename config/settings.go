// Package config provides application settings loaded from environment variables.
//
// Settings are computed once at process entry and passed by value into the
// dispatcher; handler logic never reads ambient global state.
package config

import (
	"os"

	"github.com/richinex/gemini-mcp/gemini"
)

// Environment variable names.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvTextModel    = "GEMINI_TEXT_MODEL"
	EnvImageModel   = "GEMINI_IMAGE_MODEL"
	EnvUpscaleModel = "GEMINI_UPSCALE_MODEL"
	EnvEditModel    = "GEMINI_EDIT_MODEL"
	EnvSegmentModel = "GEMINI_SEGMENT_MODEL"
	EnvLogLevel     = "GEMINI_MCP_LOG_LEVEL"
)

// Settings holds all application configuration.
type Settings struct {
	APIKey   string
	Models   gemini.ModelConfig
	LogLevel string
}

// New loads settings from environment variables, applying defaults for
// everything except the credential.
func New() Settings {
	return Settings{
		APIKey: os.Getenv(EnvAPIKey),
		Models: gemini.ModelConfig{
			Text:    getEnv(EnvTextModel, gemini.DefaultTextModel),
			Image:   getEnv(EnvImageModel, gemini.DefaultImageModel),
			Upscale: getEnv(EnvUpscaleModel, gemini.DefaultUpscaleModel),
			Edit:    getEnv(EnvEditModel, gemini.DefaultEditModel),
			Segment: getEnv(EnvSegmentModel, gemini.DefaultSegmentModel),
		},
		LogLevel: getEnv(EnvLogLevel, "info"),
	}
}

// Configured reports whether the upstream credential is present. Computed
// once at startup; when false only the setup tool is advertised.
func (s Settings) Configured() bool {
	return s.APIKey != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
