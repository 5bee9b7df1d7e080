package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pro-banana-creatives/internal/llm"
)

func TestSplitByBytesKeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("é", 5) // two bytes each
	parts := splitByBytes(text, 4)
	assert.Equal(t, []string{"éé", "éé", "é"}, parts)
	assert.Equal(t, []string{"short"}, splitByBytes("short", maxMessageBytes))
}

func TestTruncateByBytes(t *testing.T) {
	assert.Equal(t, "ab", truncateByBytes("abc", 2))
	assert.Equal(t, "é", truncateByBytes("éé", 3))
	assert.Equal(t, "abc", truncateByBytes("abc", 0))
}

func TestDetectMIME(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	assert.Equal(t, "image/webp", detectMIME("image/webp; charset=binary", png))
	assert.Equal(t, "image/png", detectMIME("application/octet-stream", png))
	assert.Equal(t, "image/jpeg", detectMIME("", []byte{0x00, 0x01}))
}

func TestPhotoFileName(t *testing.T) {
	f := photoFile(llm.InlineImage{Data: []byte("x"), MIMEType: "image/png"}, "slide-1")
	assert.Equal(t, "slide-1.png", f.Name)

	f = photoFile(llm.InlineImage{Data: []byte("x")}, "creative")
	assert.Equal(t, "creative.png", f.Name)
}
