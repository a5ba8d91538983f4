package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareIdenticalTexts(t *testing.T) {
	for _, text := range []string{
		"single line",
		"line1\nline2\nline3",
		"",
		"trailing newline\n",
	} {
		res := Compare(text, text)

		assert.Equal(t, 100.0, res.Stats.Similarity, "text %q", text)
		assert.Equal(t, 0, res.Stats.Added)
		assert.Equal(t, 0, res.Stats.Removed)
		assert.Equal(t, 0, res.Stats.Changed)
		assert.False(t, res.Truncated)
		assert.Empty(t, res.UnifiedDiff)
	}
}

func TestCompareAdditions(t *testing.T) {
	res := Compare("old line", "old line\nnew line")

	assert.Equal(t, 1, res.Stats.Added)
	assert.Equal(t, 0, res.Stats.Removed)
	assert.Equal(t, 0, res.Stats.Changed)
	assert.Less(t, res.Stats.Similarity, 100.0)
}

func TestCompareDeletions(t *testing.T) {
	res := Compare("old line\ndropped line", "old line")

	assert.Equal(t, 0, res.Stats.Added)
	assert.Equal(t, 1, res.Stats.Removed)
}

func TestCompareReplaceBlock(t *testing.T) {
	res := Compare("line1\nline2", "line1\nline3")

	assert.Equal(t, 1, res.Stats.Added)
	assert.Equal(t, 1, res.Stats.Removed)
	assert.Equal(t, 1, res.Stats.Changed, "one replace span counts as one changed block")
	assert.Less(t, res.Stats.Similarity, 100.0)
}

func TestCompareMultiLineReplaceCountsOneBlock(t *testing.T) {
	res := Compare("keep\na\nb\nc", "keep\nx\ny\nz")

	assert.Equal(t, 3, res.Stats.Added)
	assert.Equal(t, 3, res.Stats.Removed)
	assert.Equal(t, 1, res.Stats.Changed)
}

func TestCompareEmptyVersusNonEmpty(t *testing.T) {
	res := Compare("", "some content")

	assert.Equal(t, 0.0, res.Stats.Similarity)
	assert.Equal(t, 1, res.Stats.Added)
	assert.Equal(t, 0, res.Stats.Removed)
}

func TestSideBySideReplaceOrder(t *testing.T) {
	res := Compare("line1\nline2", "line1\nline3")

	require.Len(t, res.SideBySide, 3)
	assert.Equal(t, Line{A: "line1", B: "line1", Tag: TagEqual}, res.SideBySide[0])
	assert.Equal(t, Line{A: "line2", Tag: TagDelete}, res.SideBySide[1])
	assert.Equal(t, Line{B: "line3", Tag: TagInsert}, res.SideBySide[2])
}

func TestSideBySideCountsMatchStats(t *testing.T) {
	res := Compare("a\nb\nc\nd", "a\nx\nd\ne\nf")

	inserts, deletes := 0, 0
	for _, l := range res.SideBySide {
		switch l.Tag {
		case TagInsert:
			inserts++
		case TagDelete:
			deletes++
		case TagEqual:
		default:
			t.Fatalf("unexpected tag %q", l.Tag)
		}
	}
	assert.Equal(t, res.Stats.Added, inserts)
	assert.Equal(t, res.Stats.Removed, deletes)
}

func TestUnifiedDiffFormat(t *testing.T) {
	res := Compare("line1\nline2", "line1\nline3")

	require.NotEmpty(t, res.UnifiedDiff)
	assert.True(t, strings.HasPrefix(res.UnifiedDiff[0], "---"))

	var hasHunk, hasMinus, hasPlus bool
	for _, l := range res.UnifiedDiff {
		switch {
		case strings.HasPrefix(l, "@@"):
			hasHunk = true
		case strings.HasPrefix(l, "-line2"):
			hasMinus = true
		case strings.HasPrefix(l, "+line3"):
			hasPlus = true
		}
	}
	assert.True(t, hasHunk)
	assert.True(t, hasMinus)
	assert.True(t, hasPlus)
}

func TestCompareTruncatesLargeInputs(t *testing.T) {
	a := strings.Repeat("line\n", 150)
	b := strings.Repeat("line\n", 150) + "extra\n"

	res := CompareMaxLines(a, b, 100)

	assert.True(t, res.Truncated)
	assert.Equal(t, 150, res.Stats.TotalLines1)
	assert.Equal(t, 151, res.Stats.TotalLines2)
	assert.Equal(t, 100, res.Stats.ProcessedLines1)
	assert.Equal(t, 100, res.Stats.ProcessedLines2)
	// Both sides truncated to the same prefix, so the visible diff is empty.
	assert.Equal(t, 100.0, res.Stats.Similarity)
}

func TestCompareLineCounts(t *testing.T) {
	res := Compare("a\nb\nc", "a\nb")

	assert.Equal(t, 3, res.Stats.TotalLines1)
	assert.Equal(t, 2, res.Stats.TotalLines2)
	assert.Equal(t, 3, res.Stats.ProcessedLines1)
	assert.Equal(t, 2, res.Stats.ProcessedLines2)
	assert.False(t, res.Truncated)
}

func TestCompareLargeCombinedInputStillTotal(t *testing.T) {
	a := strings.Repeat("some    padded   line\n", 3500)
	b := strings.Repeat("some padded line\n", 3500)

	res := Compare(a, b)

	// Above the whitespace-approximation threshold: differences that are
	// whitespace-only may be ignored by the similarity computation.
	assert.Equal(t, 100.0, res.Stats.Similarity)
	assert.False(t, res.Truncated)
}

func TestCompareZeroMaxLinesFallsBackToDefault(t *testing.T) {
	res := CompareMaxLines("a\nb", "a\nb", 0)

	assert.False(t, res.Truncated)
	assert.Equal(t, 100.0, res.Stats.Similarity)
}
