package shell

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/ttedit/internal/engine/buffer"
	"github.com/dshills/ttedit/internal/engine/timeline"
)

// TimeFormat is the layout used for snapshot timestamps.
const TimeFormat = "2006-01-02 15:04:05"

const currentMarker = "<-- current"

// writeLines writes every line of b as "%3d: text".
func writeLines(w io.Writer, b buffer.LineBuffer) {
	for i, line := range b.Lines() {
		fmt.Fprintf(w, "%3d: %s\n", i, line)
	}
}

// fitLabel truncates label to width display columns, marking the cut
// with "...", and pads it to exactly width columns.
func fitLabel(label string, width int) string {
	if runewidth.StringWidth(label) > width {
		label = runewidth.Truncate(label, width, "...")
	}
	return padRight(label, width)
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// timelineRow renders one snapshot in the timeline listing.
func timelineRow(index int, snap *timeline.Snapshot, current bool, width int) string {
	marker := ""
	if current {
		marker = currentMarker
	}
	row := fmt.Sprintf("%3d | %s | %s %s", index, snap.Timestamp().Format(TimeFormat), fitLabel(snap.Label(), width), marker)
	return strings.TrimRight(row, " ")
}

// formatSeconds renders d as a plain number of seconds, e.g. "0.6".
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// maxDelaySeconds bounds play delays well inside time.Duration's range.
const maxDelaySeconds = 24 * 60 * 60

// parseDelay reads a delay in seconds. Blank, malformed, negative, non-finite
// or over-long input yields def.
func parseDelay(input string, def time.Duration) time.Duration {
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	secs, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(secs) || secs < 0 || secs > maxDelaySeconds {
		return def
	}
	return time.Duration(secs * float64(time.Second))
}
