// Package buffer provides LineBuffer, the immutable line-oriented text value
// that the editor engine records in its timeline.
//
// A LineBuffer is an ordered sequence of lines indexed from zero. It may be
// empty. LineBuffer values never share their backing storage: every
// constructor copies its input, and the editing methods return a fresh
// LineBuffer while leaving the receiver untouched.
//
// Basic usage:
//
//	buf := buffer.FromText("alpha\nbeta\n")
//
//	// Replace a line; buf itself is unchanged.
//	next, err := buf.Replace(1, "gamma")
//	if errors.Is(err, buffer.ErrLineOutOfRange) {
//	    // ...
//	}
//
// Line Numbers:
//
// Replace and Delete accept line numbers in [0, Len()). Insert accepts
// [0, Len()] and inserts before the given line, so Insert(Len(), s)
// appends. Out of range line numbers yield a *LineRangeError.
package buffer
