package ansi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlainText(t *testing.T) {
	runs := Parse("just some text")
	require.Len(t, runs, 1)
	assert.Equal(t, "just some text", runs[0].Text)
	assert.Nil(t, runs[0].Foreground)
	assert.Nil(t, runs[0].Background)
	assert.Zero(t, runs[0].Attrs)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
}

func TestParseRedThenReset(t *testing.T) {
	runs := Parse("\x1b[31mHi\x1b[0m there")
	require.Len(t, runs, 2)

	assert.Equal(t, "Hi", runs[0].Text)
	require.NotNil(t, runs[0].Foreground)
	assert.Equal(t, basePalette[1], *runs[0].Foreground)

	assert.Equal(t, " there", runs[1].Text)
	assert.Nil(t, runs[1].Foreground)
	assert.Zero(t, runs[1].Attrs)
}

func TestParseZeroLengthSpansDropped(t *testing.T) {
	runs := Parse("\x1b[31m\x1b[1mboth")
	require.Len(t, runs, 1)
	assert.Equal(t, "both", runs[0].Text)
	assert.Equal(t, AttrBold, runs[0].Attrs)
	require.NotNil(t, runs[0].Foreground)
}

func TestParseEmptyParamsMeansReset(t *testing.T) {
	runs := Parse("\x1b[1mbold\x1b[mplain")
	require.Len(t, runs, 2)
	assert.Equal(t, AttrBold, runs[0].Attrs)
	assert.Zero(t, runs[1].Attrs)
}

func TestParseAttributes(t *testing.T) {
	runs := Parse("\x1b[1;2;3;4;7;9mx")
	require.Len(t, runs, 1)
	want := AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrInverse | AttrStrikethrough
	assert.Equal(t, want, runs[0].Attrs)
}

func TestParseAttributeClears(t *testing.T) {
	runs := Parse("\x1b[1;2;3;4;7;9m\x1b[22;23;24;27;29mx")
	require.Len(t, runs, 1)
	assert.Zero(t, runs[0].Attrs)
}

func TestParse256ColorForeground(t *testing.T) {
	runs := Parse("\x1b[38;5;196mX")
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Foreground)
	assert.Equal(t, *paletteColor(196), *runs[0].Foreground)
}

func TestParseTruecolor(t *testing.T) {
	runs := Parse("\x1b[38;2;10;20;30mX\x1b[48;2;1;2;3mY")
	require.Len(t, runs, 2)
	require.NotNil(t, runs[0].Foreground)
	assert.Equal(t, Color{10, 20, 30}, *runs[0].Foreground)
	require.NotNil(t, runs[1].Background)
	assert.Equal(t, Color{1, 2, 3}, *runs[1].Background)
}

func TestParseTruncatedTruecolorLeavesStateUnchanged(t *testing.T) {
	runs := Parse("\x1b[38;2;10;20mX")
	require.Len(t, runs, 1)
	assert.Equal(t, "X", runs[0].Text)
	assert.Nil(t, runs[0].Foreground)
}

func TestParseTruncated256LeavesStateUnchanged(t *testing.T) {
	runs := Parse("\x1b[38;5mX")
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].Foreground)
}

func TestParseMalformedExtendedDoesNotPoisonLaterCodes(t *testing.T) {
	// The truncated 38;2 swallows what it matched; the sequence is over,
	// but a following complete sequence must still apply.
	runs := Parse("\x1b[38;2;1;2m\x1b[4mX")
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].Foreground)
	assert.Equal(t, AttrUnderline, runs[0].Attrs)
}

func TestParseDefaultColorCodes(t *testing.T) {
	runs := Parse("\x1b[31;41mcolored\x1b[39;49mdefault")
	require.Len(t, runs, 2)
	assert.NotNil(t, runs[0].Foreground)
	assert.NotNil(t, runs[0].Background)
	assert.Nil(t, runs[1].Foreground)
	assert.Nil(t, runs[1].Background)
}

func TestParseBrightVariants(t *testing.T) {
	runs := Parse("\x1b[91mX\x1b[0m\x1b[101mY")
	require.Len(t, runs, 2)
	require.NotNil(t, runs[0].Foreground)
	assert.Equal(t, basePalette[9], *runs[0].Foreground)
	require.NotNil(t, runs[1].Background)
	assert.Equal(t, basePalette[9], *runs[1].Background)
}

func TestParseUnrecognizedCodesIgnored(t *testing.T) {
	runs := Parse("\x1b[5;31;99mX")
	require.Len(t, runs, 1)
	// 5 (blink) and 99 are skipped; 31 still applies.
	require.NotNil(t, runs[0].Foreground)
	assert.Equal(t, basePalette[1], *runs[0].Foreground)
	assert.Zero(t, runs[0].Attrs)
}

func TestParseStripsNonSGRSequences(t *testing.T) {
	// Cursor movement, mode toggles, and OSC titles must disappear
	// without affecting style.
	raw := "\x1b[2Ja\x1b[?25lb\x1b]0;title\x07c\x1b]8;;http://x\x1b\\d"
	runs := Parse(raw)
	require.Len(t, runs, 1)
	assert.Equal(t, "abcd", runs[0].Text)
	assert.Zero(t, runs[0].Attrs)
}

func TestParseTrailingEscapeDropped(t *testing.T) {
	runs := Parse("text\x1b")
	require.Len(t, runs, 1)
	assert.Equal(t, "text", runs[0].Text)

	runs = Parse("text\x1b[31")
	require.Len(t, runs, 1)
	assert.Equal(t, "text", runs[0].Text)
}

func TestParseStateResetsBetweenCalls(t *testing.T) {
	_ = Parse("\x1b[31;1m colored")
	runs := Parse("fresh")
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].Foreground)
	assert.Zero(t, runs[0].Attrs)
}

func TestPaletteColor(t *testing.T) {
	// Base table.
	assert.Equal(t, basePalette[0], *paletteColor(0))
	assert.Equal(t, basePalette[15], *paletteColor(15))

	// Cube: 16 is (0,0,0), 231 is (255,255,255) scaled by 51.
	assert.Equal(t, Color{0, 0, 0}, *paletteColor(16))
	assert.Equal(t, Color{255, 255, 255}, *paletteColor(231))
	// 196 = 16 + 5*36: pure red corner.
	assert.Equal(t, Color{255, 0, 0}, *paletteColor(196))
	// 60 = 16 + 1*36 + 1*6 + 2.
	assert.Equal(t, Color{51, 51, 102}, *paletteColor(60))

	// Grayscale ramp endpoints.
	assert.Equal(t, Color{8, 8, 8}, *paletteColor(232))
	assert.Equal(t, Color{238, 238, 238}, *paletteColor(255))

	// Out of range.
	assert.Nil(t, paletteColor(-1))
	assert.Nil(t, paletteColor(256))
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#ff0000", Color{255, 0, 0}.Hex())
	assert.Equal(t, "#01020f", Color{1, 2, 15}.Hex())
}

func TestPlainTextAndStrip(t *testing.T) {
	raw := "\x1b[31mred\x1b[0m and \x1b[1mbold\x1b[0m"
	assert.Equal(t, "red and bold", Strip(raw))
	assert.Equal(t, "red and bold", PlainText(Parse(raw)))
}
