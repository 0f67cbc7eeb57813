package imagetype_test

import (
	"testing"

	"spiritbeads/pkg/imagetype"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		wantType string
		wantOK   bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, imagetype.JPEG, true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, imagetype.PNG, true},
		{"gif87a", []byte("GIF87a......"), imagetype.GIF, true},
		{"gif89a", []byte("GIF89a......"), imagetype.GIF, true},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBPVP8 "), imagetype.WEBP, true},
		{"riff but not webp", []byte("RIFF\x10\x00\x00\x00WAVEfmt "), "", false},
		{"riff too short", []byte("RIFF"), "", false},
		{"shell script", []byte("#!/bin/sh\n"), "", false},
		{"truncated png", []byte{0x89, 0x50, 0x4E}, "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, ok := imagetype.Detect(tt.content)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantType, gotType)
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", imagetype.Extension(imagetype.JPEG))
	assert.Equal(t, ".png", imagetype.Extension(imagetype.PNG))
	assert.Equal(t, ".webp", imagetype.Extension(imagetype.WEBP))
	assert.Equal(t, ".gif", imagetype.Extension(imagetype.GIF))
	assert.Empty(t, imagetype.Extension("bmp"))
}
