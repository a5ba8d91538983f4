package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTagsRemovesAllTags(t *testing.T) {
	out := StripTags("<p>Text with <strong>tags</strong></p>")

	assert.NotContains(t, out, "<p>")
	assert.NotContains(t, out, "<strong>")
	assert.Contains(t, out, "Text with")
	assert.Contains(t, out, "tags")
}

func TestStripTagsKeepsAllowed(t *testing.T) {
	out := StripTags("<p>Text with <strong>tags</strong> and <script>alert(1)</script></p>", "p", "strong")

	assert.Contains(t, out, "<p>")
	assert.Contains(t, out, "<strong>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert")
}

func TestStripTagsDecodesEntities(t *testing.T) {
	out := StripTags("Text with &nbsp; and &amp; symbols")

	assert.Contains(t, out, " ")
	assert.Contains(t, out, "&")
	assert.NotContains(t, out, "&amp;")
}

func TestStripTagsEmpty(t *testing.T) {
	assert.Equal(t, "", StripTags(""))
}

func TestText(t *testing.T) {
	assert.Equal(t, "Important text", Text("<div>Important text</div>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 10))
	assert.Equal(t, "", Truncate("abcdef", 0))
}
