package tui

import "strings"

// LogBuffer is the append-only command log backing the output pane. Only
// the most recent max lines are kept so a long session stays bounded.
type LogBuffer struct {
	max   int
	lines []string
}

func NewLogBuffer(max int) *LogBuffer {
	if max <= 0 {
		max = 1000
	}
	return &LogBuffer{max: max}
}

// Append adds text line by line, dropping the oldest lines over the cap.
func (b *LogBuffer) Append(text string) {
	b.lines = append(b.lines, strings.Split(text, "\n")...)
	if len(b.lines) > b.max {
		b.lines = append(b.lines[:0], b.lines[len(b.lines)-b.max:]...)
	}
}

func (b *LogBuffer) String() string {
	return strings.Join(b.lines, "\n")
}

func (b *LogBuffer) Len() int {
	return len(b.lines)
}
