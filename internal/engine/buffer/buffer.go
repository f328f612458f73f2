package buffer

import (
	"slices"
	"strings"
)

// LineBuffer is an ordered, zero-indexed sequence of text lines.
// The zero value is an empty buffer and is ready to use.
type LineBuffer struct {
	lines []string
}

// New creates a LineBuffer holding a copy of lines.
func New(lines []string) LineBuffer {
	return LineBuffer{lines: slices.Clone(lines)}
}

// FromText splits text into lines. "\n", "\r\n" and "\r" all terminate a
// line; a terminator at the very end of text does not start a new line.
func FromText(text string) LineBuffer {
	if text == "" {
		return LineBuffer{}
	}

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return LineBuffer{lines: lines}
}

// Len returns the number of lines.
func (b LineBuffer) Len() int {
	return len(b.lines)
}

// IsEmpty returns true if the buffer has no lines.
func (b LineBuffer) IsEmpty() bool {
	return len(b.lines) == 0
}

// Line returns the text of line n.
func (b LineBuffer) Line(n int) (string, error) {
	if n < 0 || n >= len(b.lines) {
		return "", &LineRangeError{Op: "line", Line: n, Len: len(b.lines)}
	}
	return b.lines[n], nil
}

// Lines returns a copy of all lines.
func (b LineBuffer) Lines() []string {
	return slices.Clone(b.lines)
}

// Clone returns a LineBuffer with its own copy of the lines.
func (b LineBuffer) Clone() LineBuffer {
	return LineBuffer{lines: slices.Clone(b.lines)}
}

// Equal reports whether both buffers hold the same lines.
func (b LineBuffer) Equal(other LineBuffer) bool {
	return slices.Equal(b.lines, other.lines)
}

// Join concatenates the lines using sep between them.
func (b LineBuffer) Join(sep string) string {
	return strings.Join(b.lines, sep)
}

// Text returns the lines joined with "\n".
func (b LineBuffer) Text() string {
	return b.Join("\n")
}

// Replace returns a copy of the buffer with line n set to text.
func (b LineBuffer) Replace(n int, text string) (LineBuffer, error) {
	if n < 0 || n >= len(b.lines) {
		return b, &LineRangeError{Op: "replace", Line: n, Len: len(b.lines)}
	}
	lines := slices.Clone(b.lines)
	lines[n] = text
	return LineBuffer{lines: lines}, nil
}

// Insert returns a copy of the buffer with text inserted before line n.
// n may equal Len(), in which case text is appended.
func (b LineBuffer) Insert(n int, text string) (LineBuffer, error) {
	if n < 0 || n > len(b.lines) {
		return b, &LineRangeError{Op: "insert", Line: n, Len: len(b.lines)}
	}
	lines := make([]string, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:n]...)
	lines = append(lines, text)
	lines = append(lines, b.lines[n:]...)
	return LineBuffer{lines: lines}, nil
}

// Delete returns a copy of the buffer with line n removed.
func (b LineBuffer) Delete(n int) (LineBuffer, error) {
	if n < 0 || n >= len(b.lines) {
		return b, &LineRangeError{Op: "delete", Line: n, Len: len(b.lines)}
	}
	lines := make([]string, 0, len(b.lines)-1)
	lines = append(lines, b.lines[:n]...)
	lines = append(lines, b.lines[n+1:]...)
	return LineBuffer{lines: lines}, nil
}
