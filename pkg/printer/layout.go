package printer

import (
	"strings"
	"unicode/utf8"
)

// Sheet lays out fixed-width plain text lines. Widths are measured in runes so
// that "€" and umlauts count as one column.
type Sheet struct {
	width int
	lines []string
}

// NewSheet creates a sheet of the given width. A non-positive width selects DefaultWidth.
func NewSheet(width int) *Sheet {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Sheet{width: width}
}

// Line appends text unchanged.
func (s *Sheet) Line(text string) *Sheet {
	s.lines = append(s.lines, text)
	return s
}

// Blank appends an empty line.
func (s *Sheet) Blank() *Sheet {
	return s.Line("")
}

// Center left-pads text by half the free space, rounded down. Text at or over
// the width is appended unchanged.
func (s *Sheet) Center(text string) *Sheet {
	return s.Line(Center(s.width, text))
}

// Rule appends a full-width line of char.
func (s *Sheet) Rule(char rune) *Sheet {
	return s.Line(strings.Repeat(string(char), s.width))
}

// Columns appends left and right separated by enough spaces to fill the width,
// at least one.
func (s *Sheet) Columns(left, right string) *Sheet {
	return s.Line(Columns(s.width, left, right))
}

// String joins the lines with "\n".
func (s *Sheet) String() string {
	return strings.Join(s.lines, "\n")
}

// Center returns text left-padded to sit in the middle of width columns.
func Center(width int, text string) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// Columns returns left + padding + right for a row of width columns.
func Columns(width int, left, right string) string {
	spaces := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}
