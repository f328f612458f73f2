// Package diff computes line-level differences between two LineBuffers.
//
// The shell uses it to show what changed between two timeline snapshots.
// Common prefix and suffix lines are matched first; the remaining middle
// section is aligned by longest common subsequence. Middles larger than
// Options.MaxLines fall back to replacing the whole middle section.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/ttedit/internal/engine/buffer"
)

// DefaultMaxLines bounds the LCS table to DefaultMaxLines² cells.
const DefaultMaxLines = 2000

// Op is the kind of a diff line.
type Op uint8

const (
	// Equal marks a line present in both buffers.
	Equal Op = iota
	// Insert marks a line only present in the new buffer.
	Insert
	// Delete marks a line only present in the old buffer.
	Delete
)

// String returns a human-readable representation of the op.
func (op Op) String() string {
	switch op {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// prefix returns the marker used by Format.
func (op Op) prefix() string {
	switch op {
	case Insert:
		return "+ "
	case Delete:
		return "- "
	default:
		return "  "
	}
}

// Options configures diff computation.
type Options struct {
	// IgnoreWhitespace compares lines with leading and trailing space trimmed.
	IgnoreWhitespace bool

	// MaxLines limits the size of the section aligned by LCS.
	// Zero means DefaultMaxLines.
	MaxLines int
}

// Line is one line of a diff.
type Line struct {
	Op Op

	// OldIndex is the line number in the old buffer, or -1 for inserts.
	OldIndex int

	// NewIndex is the line number in the new buffer, or -1 for deletes.
	NewIndex int

	Text string
}

// Result is the complete diff of two buffers.
type Result struct {
	Lines []Line
}

// HasChanges returns true if any line was inserted or deleted.
func (r Result) HasChanges() bool {
	for _, l := range r.Lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Inserted returns the number of inserted lines.
func (r Result) Inserted() int {
	return r.count(Insert)
}

// Deleted returns the number of deleted lines.
func (r Result) Deleted() int {
	return r.count(Delete)
}

func (r Result) count(op Op) int {
	n := 0
	for _, l := range r.Lines {
		if l.Op == op {
			n++
		}
	}
	return n
}

// Compute diffs oldBuf against newBuf.
func Compute(oldBuf, newBuf buffer.LineBuffer, opts Options) Result {
	a := oldBuf.Lines()
	b := newBuf.Lines()
	eq := func(x, y string) bool {
		if opts.IgnoreWhitespace {
			return strings.TrimSpace(x) == strings.TrimSpace(y)
		}
		return x == y
	}

	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	// Common prefix
	pre := 0
	for pre < len(a) && pre < len(b) && eq(a[pre], b[pre]) {
		pre++
	}

	// Common suffix, not overlapping the prefix
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && eq(a[len(a)-1-suf], b[len(b)-1-suf]) {
		suf++
	}

	out := make([]Line, 0, len(a)+len(b))
	for i := 0; i < pre; i++ {
		out = append(out, Line{Op: Equal, OldIndex: i, NewIndex: i, Text: b[i]})
	}

	midA := a[pre : len(a)-suf]
	midB := b[pre : len(b)-suf]
	if len(midA) > maxLines || len(midB) > maxLines {
		out = appendReplace(out, midA, midB, pre, pre)
	} else {
		out = appendLCS(out, midA, midB, pre, pre, eq)
	}

	for k := 0; k < suf; k++ {
		i := len(a) - suf + k
		j := len(b) - suf + k
		out = append(out, Line{Op: Equal, OldIndex: i, NewIndex: j, Text: b[j]})
	}

	return Result{Lines: out}
}

// appendReplace emits every old line as deleted and every new line as inserted.
func appendReplace(out []Line, a, b []string, offA, offB int) []Line {
	for i, s := range a {
		out = append(out, Line{Op: Delete, OldIndex: offA + i, NewIndex: -1, Text: s})
	}
	for j, s := range b {
		out = append(out, Line{Op: Insert, OldIndex: -1, NewIndex: offB + j, Text: s})
	}
	return out
}

// appendLCS aligns a and b by longest common subsequence.
func appendLCS(out []Line, a, b []string, offA, offB int, eq func(x, y string) bool) []Line {
	n, m := len(a), len(b)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if eq(a[i], b[j]) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case eq(a[i], b[j]):
			out = append(out, Line{Op: Equal, OldIndex: offA + i, NewIndex: offB + j, Text: b[j]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			out = append(out, Line{Op: Delete, OldIndex: offA + i, NewIndex: -1, Text: a[i]})
			i++
		default:
			out = append(out, Line{Op: Insert, OldIndex: -1, NewIndex: offB + j, Text: b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		out = append(out, Line{Op: Delete, OldIndex: offA + i, NewIndex: -1, Text: a[i]})
	}
	for ; j < m; j++ {
		out = append(out, Line{Op: Insert, OldIndex: -1, NewIndex: offB + j, Text: b[j]})
	}
	return out
}

// Format writes r one line per diff line, prefixed with "  ", "+ " or "- ".
func Format(w io.Writer, r Result) error {
	for _, l := range r.Lines {
		if _, err := fmt.Fprintf(w, "%s%s\n", l.Op.prefix(), l.Text); err != nil {
			return err
		}
	}
	return nil
}
