// Package ansi interprets the SGR escape-sequence subset that tmux
// capture-pane -e emits, turning raw bytes into structured style runs.
//
// The parser is total: malformed or unrecognized sequences never
// produce an error, they are skipped and scanning continues. It is not
// a terminal emulator — cursor movement and other non-SGR sequences are
// stripped without effect.
package ansi

import (
	"fmt"
	"strings"
)

// Attr is a bitmask of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrStrikethrough
	AttrInverse
)

// Color is a concrete 24-bit color. Palette-indexed SGR codes are
// resolved to RGB at parse time.
type Color struct {
	R, G, B uint8
}

// Hex renders the color as a #rrggbb string for lipgloss.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// StyleRun is a span of literal text with the style in effect when it
// was emitted. Nil color pointers mean "terminal default", which is not
// the same as black.
type StyleRun struct {
	Text       string
	Foreground *Color
	Background *Color
	Attrs      Attr
}

// styleState is the accumulator threaded through one parse pass. It is
// reset to all-default at the start of every Parse call.
type styleState struct {
	fg, bg            *Color
	bold, dim, italic bool
	underline, strike bool
	inverse           bool
}

func (s *styleState) reset() {
	*s = styleState{}
}

func (s *styleState) attrs() Attr {
	var a Attr
	if s.bold {
		a |= AttrBold
	}
	if s.dim {
		a |= AttrDim
	}
	if s.italic {
		a |= AttrItalic
	}
	if s.underline {
		a |= AttrUnderline
	}
	if s.strike {
		a |= AttrStrikethrough
	}
	if s.inverse {
		a |= AttrInverse
	}
	return a
}

// snapshot emits a run for text under the current state. Zero-length
// spans are dropped by the caller.
func (s *styleState) snapshot(text string) StyleRun {
	return StyleRun{
		Text:       text,
		Foreground: s.fg,
		Background: s.bg,
		Attrs:      s.attrs(),
	}
}

// Parse scans raw left to right and returns the ordered style runs.
// Style state starts at all-default and is mutated by each recognized
// SGR sequence; every literal span snapshots the state in effect.
func Parse(raw string) []StyleRun {
	var runs []StyleRun
	var state styleState
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			runs = append(runs, state.snapshot(literal.String()))
			literal.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != 0x1b {
			literal.WriteByte(c)
			i++
			continue
		}

		// Escape sequence. A trailing bare ESC is dropped.
		if i+1 >= len(raw) {
			break
		}
		switch raw[i+1] {
		case '[':
			params, final, next := scanCSI(raw, i+2)
			if final == 'm' {
				flush()
				state.apply(params)
			}
			// Non-SGR CSI sequences are stripped without effect.
			i = next
		case ']':
			// OSC: swallow through BEL or ST.
			i = scanOSC(raw, i+2)
		default:
			// Two-byte escape (charset selection etc.): strip both.
			i += 2
		}
	}
	flush()
	return runs
}

// scanCSI parses a CSI body starting at i: semicolon-delimited decimal
// parameters followed by a final byte in the 0x40–0x7e range. Returns
// the parameters (empty list ⇒ [0]), the final byte (0 when the input
// ends mid-sequence), and the index just past the sequence.
func scanCSI(raw string, i int) (params []int, final byte, next int) {
	n := 0
	haveDigit := false
	for ; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			n = n*10 + int(c-'0')
			haveDigit = true
		case c == ';':
			params = append(params, n)
			n = 0
			haveDigit = false
		case c >= 0x40 && c <= 0x7e:
			if haveDigit || len(params) > 0 {
				params = append(params, n)
			}
			if len(params) == 0 {
				params = []int{0}
			}
			return params, c, i + 1
		default:
			// Intermediate/private bytes (?, >, space...) — keep
			// scanning for the final byte, recognition fails later.
			haveDigit = true
		}
	}
	return nil, 0, i
}

// scanOSC swallows an OSC body, returning the index past its
// terminator (BEL or ESC \), or the end of input.
func scanOSC(raw string, i int) int {
	for ; i < len(raw); i++ {
		if raw[i] == 0x07 {
			return i + 1
		}
		if raw[i] == 0x1b && i+1 < len(raw) && raw[i+1] == '\\' {
			return i + 2
		}
	}
	return i
}

// apply consumes SGR codes left to right. Extended color forms consume
// the following 2 (";5;N") or 4 (";2;R;G;B") parameter slots; when the
// trailing parameters are missing the code is ignored and state is left
// unchanged. Unrecognized codes are skipped.
func (s *styleState) apply(params []int) {
	for i := 0; i < len(params); i++ {
		code := params[i]
		switch {
		case code == 0:
			s.reset()
		case code == 1:
			s.bold = true
		case code == 2:
			s.dim = true
		case code == 3:
			s.italic = true
		case code == 4:
			s.underline = true
		case code == 7:
			s.inverse = true
		case code == 9:
			s.strike = true
		case code == 22:
			s.bold, s.dim = false, false
		case code == 23:
			s.italic = false
		case code == 24:
			s.underline = false
		case code == 27:
			s.inverse = false
		case code == 29:
			s.strike = false
		case code >= 30 && code <= 37:
			s.fg = paletteColor(code - 30)
		case code == 38:
			c, consumed := extendedColor(params[i+1:])
			if c != nil {
				s.fg = c
			}
			i += consumed
		case code == 39:
			s.fg = nil
		case code >= 40 && code <= 47:
			s.bg = paletteColor(code - 40)
		case code == 48:
			c, consumed := extendedColor(params[i+1:])
			if c != nil {
				s.bg = c
			}
			i += consumed
		case code == 49:
			s.bg = nil
		case code >= 90 && code <= 97:
			s.fg = paletteColor(code - 90 + 8)
		case code >= 100 && code <= 107:
			s.bg = paletteColor(code - 100 + 8)
		}
	}
}

// extendedColor decodes the parameters after a 38/48 introducer.
// Returns the color (nil when malformed) and how many parameter slots
// were consumed. Malformed forms consume what they matched so
// scanning continues at the right place.
func extendedColor(rest []int) (*Color, int) {
	if len(rest) == 0 {
		return nil, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return nil, len(rest)
		}
		return paletteColor(rest[1]), 2
	case 2:
		if len(rest) < 4 {
			return nil, len(rest)
		}
		return &Color{clamp8(rest[1]), clamp8(rest[2]), clamp8(rest[3])}, 4
	default:
		return nil, 1
	}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// basePalette is the conventional xterm 16-color table. Indices 8–15
// are the bright variants reached by SGR 90–97/100–107.
var basePalette = [16]Color{
	{0x00, 0x00, 0x00}, // black
	{0xcd, 0x00, 0x00}, // red
	{0x00, 0xcd, 0x00}, // green
	{0xcd, 0xcd, 0x00}, // yellow
	{0x00, 0x00, 0xee}, // blue
	{0xcd, 0x00, 0xcd}, // magenta
	{0x00, 0xcd, 0xcd}, // cyan
	{0xe5, 0xe5, 0xe5}, // white
	{0x7f, 0x7f, 0x7f}, // bright black
	{0xff, 0x00, 0x00}, // bright red
	{0x00, 0xff, 0x00}, // bright green
	{0xff, 0xff, 0x00}, // bright yellow
	{0x5c, 0x5c, 0xff}, // bright blue
	{0xff, 0x00, 0xff}, // bright magenta
	{0x00, 0xff, 0xff}, // bright cyan
	{0xff, 0xff, 0xff}, // bright white
}

// paletteColor resolves a 256-color palette index: 0–15 the base table,
// 16–231 a 6×6×6 cube whose base-6 digits scale by 51, 232–255 a
// 24-step grayscale ramp. Out-of-range indices yield nil.
func paletteColor(n int) *Color {
	switch {
	case n < 0 || n > 255:
		return nil
	case n < 16:
		c := basePalette[n]
		return &c
	case n < 232:
		n -= 16
		r := uint8(n / 36 * 51)
		g := uint8(n / 6 % 6 * 51)
		b := uint8(n % 6 * 51)
		return &Color{r, g, b}
	default:
		v := uint8(8 + (n-232)*10)
		return &Color{v, v, v}
	}
}

// PlainText joins the literal text of runs, dropping all styling. Used
// for clipboard copies.
func PlainText(runs []StyleRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Strip is a convenience for stripping escapes from raw text directly.
func Strip(raw string) string {
	return PlainText(Parse(raw))
}
