package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	mimeType, err := ValidateMimeType(bytes.NewReader(png), AllowedAssetTypes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	pdf := []byte("%PDF-1.7\n")
	mimeType, err = ValidateMimeType(bytes.NewReader(pdf), AllowedAssetTypes)
	require.NoError(t, err)
	assert.Equal(t, MimePDF, mimeType)

	_, err = ValidateMimeType(bytes.NewReader([]byte("plain text notes")), AllowedAssetTypes)
	assert.Error(t, err)
}

func TestSafeExt(t *testing.T) {
	cases := map[string]string{
		"lesson.MP4":       ".mp4",
		"slides.pdf":       ".pdf",
		"noext":            "",
		"evil.p$p":         "",
		"archive.tar.gz":   ".gz",
		"../../etc/passwd": "",
	}
	for name, want := range cases {
		assert.Equal(t, want, SafeExt(name), name)
	}
}
