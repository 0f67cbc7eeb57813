// Package imagetype identifies uploaded image content by its leading magic
// bytes. The declared content-type and filename are never trusted.
package imagetype

import "bytes"

// Recognized image types.
const (
	JPEG = "jpeg"
	PNG  = "png"
	WEBP = "webp"
	GIF  = "gif"
)

var extensions = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	WEBP: ".webp",
	GIF:  ".gif",
}

// Detect returns the image type of content, or ok=false when the header does
// not match any supported format.
func Detect(content []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(content, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG, true
	case bytes.HasPrefix(content, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return PNG, true
	case bytes.HasPrefix(content, []byte("RIFF")):
		// WebP is a RIFF container with "WEBP" at bytes 8-11.
		if len(content) >= 12 && bytes.Equal(content[8:12], []byte("WEBP")) {
			return WEBP, true
		}
		return "", false
	case bytes.HasPrefix(content, []byte("GIF87a")), bytes.HasPrefix(content, []byte("GIF89a")):
		return GIF, true
	}
	return "", false
}

// Extension returns the canonical file extension for a detected type.
func Extension(imageType string) string {
	return extensions[imageType]
}

// Supported lists the recognized type names, for error messages.
func Supported() []string {
	return []string{JPEG, PNG, WEBP, GIF}
}
