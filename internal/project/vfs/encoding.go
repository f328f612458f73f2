package vfs

import (
	"bytes"
)

// LineEnding represents the line ending style.
type LineEnding string

const (
	// LineEndingLF is Unix-style line ending (\n).
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF is Windows-style line ending (\r\n).
	LineEndingCRLF LineEnding = "crlf"

	// LineEndingCR is old Mac-style line ending (\r).
	LineEndingCR LineEnding = "cr"
)

// Sequence returns the characters that terminate a line.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// DetectLineEnding returns the most frequent line ending in content.
// Content without any line ending is reported as LF.
func DetectLineEnding(content []byte) LineEnding {
	var lf, crlf, cr int

	for i := 0; i < len(content); i++ {
		if content[i] == '\r' {
			if i+1 < len(content) && content[i+1] == '\n' {
				crlf++
				i++ // Skip the \n
			} else {
				cr++
			}
		} else if content[i] == '\n' {
			lf++
		}
	}

	if crlf > lf && crlf >= cr {
		return LineEndingCRLF
	}
	if cr > lf && cr > crlf {
		return LineEndingCR
	}
	return LineEndingLF
}

// StripBOM removes a UTF-8 BOM from content if present.
// Returns the remaining content and whether a BOM was found.
func StripBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, bomUTF8) {
		return content[len(bomUTF8):], true
	}
	return content, false
}

// AddBOM prepends a UTF-8 BOM to content.
func AddBOM(content []byte) []byte {
	out := make([]byte, 0, len(bomUTF8)+len(content))
	out = append(out, bomUTF8...)
	return append(out, content...)
}

// IsBinary attempts to detect if content is binary (not text).
// Uses heuristics: presence of null bytes, high ratio of non-printable characters.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	// Check first 8KB at most
	sample := content[:min(len(content), 8192)]

	// Null bytes are a strong indicator of binary
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	// Count control characters except tab, newline, carriage return, form feed
	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}

	// If more than 10% are non-text, consider it binary
	return float64(nonText)/float64(len(sample)) > 0.1
}
