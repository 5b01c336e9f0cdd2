package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c := New()
	require.NotNil(t, c)
}

func TestClean_EmptyInput(t *testing.T) {
	c := New()
	assert.Equal(t, "", c.Clean(""))
	assert.Equal(t, "", c.Clean("   \n\n  "))
}

func TestClean_DropsHeadersAndFooters(t *testing.T) {
	c := New()

	got := c.Clean("Page 1\nHello   world.\n2")
	assert.Equal(t, "Hello world.", got)
}

func TestClean_DropsCJKPageMarkers(t *testing.T) {
	c := New()

	got := c.Clean("第 3 頁\n你好世界。\n- 4 -")
	assert.Equal(t, "你好世界。", got)
}

func TestClean_JoinsWrappedLines(t *testing.T) {
	c := New()

	got := c.Clean("The quick brown fox\njumps over the lazy dog.")
	assert.Equal(t, "The quick brown fox jumps over the lazy dog.", got)
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	c := New()

	got := c.Clean("a  b\t\tc\n\nd")
	assert.Equal(t, "a b c d", got)
}

func TestClean_RemovesSpacesBeforeCJKPunctuation(t *testing.T) {
	c := New()

	got := c.Clean("前半段\n，後半段")
	assert.NotContains(t, got, " ，")
}

func TestClean_Deterministic(t *testing.T) {
	c := New()
	input := "Page 1\nSome content here.\nPage 2\nMore content."

	first := c.Clean(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Clean(input))
	}
}

func TestClean_PreservesContentLines(t *testing.T) {
	c := New()

	// Lines containing page-like text mid-sentence must survive
	got := c.Clean("See Page 4 of the manual for details.")
	assert.Equal(t, "See Page 4 of the manual for details.", got)
}
