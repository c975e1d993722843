package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/richinex/gemini-mcp/gemini"
)

// extToMIME maps file extensions to declared image formats. Content is
// never sniffed; unknown extensions default to PNG.
var extToMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// readImage loads an input image fully into memory, inferring its mime
// type from the file extension.
func readImage(path string) (gemini.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gemini.Asset{}, fmt.Errorf("failed to read image %s: %w", path, err)
	}

	mime, ok := extToMIME[strings.ToLower(filepath.Ext(path))]
	if !ok {
		mime = "image/png"
	}
	return gemini.Asset{Data: data, MIMEType: mime}, nil
}

// mimeExt derives the on-disk extension from an asset's declared mime type.
func mimeExt(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// writeAssets persists every asset under the requested path. The extension
// always derives from the asset's mime type; when more than one asset is
// produced a 1-based _<index> suffix keeps filenames distinct.
func writeAssets(path string, assets []gemini.Asset) ([]string, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))

	paths := make([]string, 0, len(assets))
	for i, asset := range assets {
		target := base + mimeExt(asset.MIMEType)
		if len(assets) > 1 {
			target = fmt.Sprintf("%s_%d%s", base, i+1, mimeExt(asset.MIMEType))
		}
		if err := os.WriteFile(target, asset.Data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", target, err)
		}
		paths = append(paths, target)
	}
	return paths, nil
}

// writeTextFile persists generated markup verbatim at the requested path.
func writeTextFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
