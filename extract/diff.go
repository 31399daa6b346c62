package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStats counts lines per diff operation.
type DiffStats struct {
	Equal   int `json:"equal"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Identical reports whether both sides had the same lines.
func (s DiffStats) Identical() bool { return s.Added == 0 && s.Removed == 0 }

// Diff compares two line lists and returns a unified listing where every
// line is prefixed with "= ", "- " (only in left) or "+ " (only in right).
func Diff(left, right []string) (string, DiffStats) {
	differ := diffmatchpatch.New()
	a, b, index := differ.DiffLinesToChars(joinLines(left), joinLines(right))
	diffs := differ.DiffCharsToLines(differ.DiffMain(a, b, false), index)

	var buf bytes.Buffer
	var stats DiffStats
	for _, d := range diffs {
		prefix := "="
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, l := range splitLines(d.Text) {
			buf.WriteString(fmt.Sprintf("%s %s\n", prefix, l))
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				stats.Removed++
			case diffmatchpatch.DiffInsert:
				stats.Added++
			default:
				stats.Equal++
			}
		}
	}
	return buf.String(), stats
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
