package itemize

import "strings"

// Line is a single line of recognized text with its position in the input
type Line struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// Segment splits raw OCR text into lines on "\r\n" or "\n".
// Empty lines are kept and nothing is trimmed; a "\r" not followed by "\n"
// stays part of its line. Empty input yields no lines.
func Segment(text string) []Line {
	if text == "" {
		return []Line{}
	}

	parts := strings.Split(text, "\n")
	lines := make([]Line, 0, len(parts))
	for i, part := range parts {
		// every part but the last was terminated by "\n"
		if i < len(parts)-1 {
			part = strings.TrimSuffix(part, "\r")
		}
		lines = append(lines, Line{
			Index:   i,
			Content: part,
		})
	}
	return lines
}
