package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected LineEnding
	}{
		{"empty", "", LineEndingLF},
		{"no newline", "abc", LineEndingLF},
		{"lf", "a\nb\n", LineEndingLF},
		{"crlf", "a\r\nb\r\n", LineEndingCRLF},
		{"cr", "a\rb\r", LineEndingCR},
		{"mostly crlf", "a\r\nb\r\nc\n", LineEndingCRLF},
		{"tie prefers lf", "a\r\nb\n", LineEndingLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectLineEnding([]byte(tt.content)))
		})
	}
}

func TestLineEndingSequence(t *testing.T) {
	assert.Equal(t, "\n", LineEndingLF.Sequence())
	assert.Equal(t, "\r\n", LineEndingCRLF.Sequence())
	assert.Equal(t, "\r", LineEndingCR.Sequence())
	assert.Equal(t, "\n", LineEnding("").Sequence())
}

func TestBOM(t *testing.T) {
	withBOM := AddBOM([]byte("hi"))
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, withBOM)

	stripped, had := StripBOM(withBOM)
	assert.True(t, had)
	assert.Equal(t, []byte("hi"), stripped)

	stripped, had = StripBOM([]byte("plain"))
	assert.False(t, had)
	assert.Equal(t, []byte("plain"), stripped)
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte("hello\tworld\r\n")))
	assert.True(t, IsBinary([]byte{'a', 0, 'b'}))
	assert.True(t, IsBinary([]byte{1, 2, 3, 4, 'a'}))
}
