// Package diff compares two prompt texts and reports line-level changes.
// Compare is total: any pair of strings produces a result, never an error.
// Oversized inputs degrade (truncation, whitespace-insensitive similarity)
// instead of blowing up.
package diff

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// DefaultMaxLines bounds the line count fed to the matcher.
	DefaultMaxLines = 10000

	// largeInputThreshold is the combined character count above which
	// similarity ignores whitespace-only differences. This is a documented
	// approximation to keep the matcher cost bounded.
	largeInputThreshold = 100000
)

// Tags for side-by-side entries.
const (
	TagEqual  = "equal"
	TagDelete = "delete"
	TagInsert = "insert"
)

// Line is one side-by-side row. A replace block expands to all of its
// deleted lines followed by all of its inserted lines.
type Line struct {
	A   string `json:"a"`
	B   string `json:"b"`
	Tag string `json:"tag"`
}

type Stats struct {
	Added           int     `json:"added"`
	Removed         int     `json:"removed"`
	Changed         int     `json:"changed"`
	Similarity      float64 `json:"similarity"`
	TotalLines1     int     `json:"total_lines_1"`
	TotalLines2     int     `json:"total_lines_2"`
	ProcessedLines1 int     `json:"processed_lines_1"`
	ProcessedLines2 int     `json:"processed_lines_2"`
}

type Result struct {
	SideBySide  []Line   `json:"side_by_side"`
	UnifiedDiff []string `json:"unified_diff"`
	Stats       Stats    `json:"stats"`
	Truncated   bool     `json:"truncated"`
}

// Compare diffs two texts with the default line limit.
func Compare(textA, textB string) Result {
	return CompareMaxLines(textA, textB, DefaultMaxLines)
}

// CompareMaxLines diffs two texts, truncating both to maxLines lines first
// when either side exceeds the limit.
func CompareMaxLines(textA, textB string, maxLines int) Result {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	linesA := splitLines(textA)
	linesB := splitLines(textB)

	totalA, totalB := len(linesA), len(linesB)

	truncated := false
	if totalA > maxLines || totalB > maxLines {
		truncated = true
		if len(linesA) > maxLines {
			linesA = linesA[:maxLines]
		}
		if len(linesB) > maxLines {
			linesB = linesB[:maxLines]
		}
	}

	ratioA, ratioB := linesA, linesB
	if len(textA)+len(textB) > largeInputThreshold {
		ratioA = normalizeWhitespace(linesA)
		ratioB = normalizeWhitespace(linesB)
	}
	similarity := difflib.NewMatcher(ratioA, ratioB).Ratio() * 100

	opcodes := difflib.NewMatcher(linesA, linesB).GetOpCodes()

	sideBySide := make([]Line, 0, len(linesA)+len(linesB))
	added, removed, changed := 0, 0, 0
	for _, op := range opcodes {
		switch op.Tag {
		case 'e':
			for k := 0; op.I1+k < op.I2; k++ {
				sideBySide = append(sideBySide, Line{A: linesA[op.I1+k], B: linesB[op.J1+k], Tag: TagEqual})
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				sideBySide = append(sideBySide, Line{A: linesA[i], Tag: TagDelete})
			}
			removed += op.I2 - op.I1
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				sideBySide = append(sideBySide, Line{B: linesB[j], Tag: TagInsert})
			}
			added += op.J2 - op.J1
		case 'r':
			// Deletions before insertions: the stable expansion order
			// callers and tests depend on.
			for i := op.I1; i < op.I2; i++ {
				sideBySide = append(sideBySide, Line{A: linesA[i], Tag: TagDelete})
			}
			for j := op.J1; j < op.J2; j++ {
				sideBySide = append(sideBySide, Line{B: linesB[j], Tag: TagInsert})
			}
			removed += op.I2 - op.I1
			added += op.J2 - op.J1
			changed++
		}
	}

	return Result{
		SideBySide:  sideBySide,
		UnifiedDiff: unifiedDiff(linesA, linesB),
		Stats: Stats{
			Added:           added,
			Removed:         removed,
			Changed:         changed,
			Similarity:      round2(similarity),
			TotalLines1:     totalA,
			TotalLines2:     totalB,
			ProcessedLines1: len(linesA),
			ProcessedLines2: len(linesB),
		},
		Truncated: truncated,
	}
}

// splitLines splits text into lines without a trailing-newline artifact:
// "a\n" yields ["a"], "" yields nothing.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func normalizeWhitespace(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Join(strings.Fields(l), " ")
	}
	return out
}

func unifiedDiff(linesA, linesB []string) []string {
	withEOL := func(lines []string) []string {
		out := make([]string, len(lines))
		for i, l := range lines {
			out[i] = l + "\n"
		}
		return out
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withEOL(linesA),
		B:        withEOL(linesB),
		FromFile: "version_1",
		ToFile:   "version_2",
		Context:  3,
	})
	if err != nil || text == "" {
		return nil
	}
	return splitLines(text)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
