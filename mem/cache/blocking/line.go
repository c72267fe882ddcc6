package blocking

import (
	"fmt"
	"strings"
)

// A Line is a one-word cache line. Tag and Data are meaningless when Valid is
// false.
type Line struct {
	Valid bool   `json:"valid"`
	Tag   uint32 `json:"tag"`
	Data  uint32 `json:"data"`
}

func (l Line) matches(tag uint32) bool {
	return l.Valid && l.Tag == tag
}

// lineTrace prints the tag of every valid line, and blanks for invalid ones.
func lineTrace(lines []Line) string {
	parts := make([]string, len(lines))

	for i, l := range lines {
		if !l.Valid {
			parts[i] = strings.Repeat(" ", 7)
			continue
		}

		parts[i] = fmt.Sprintf("%07x", l.Tag)
	}

	return "(" + strings.Join(parts, "|") + ")"
}
