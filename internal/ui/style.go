package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Rule is a single CSS rule: one compound selector and its raw property values.
type Rule struct {
	Selector Selector
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// ComputedStyle holds resolved values used for drawing.
// LeftPct/TopPct: 0-100 for percentage positioning; -1 means Left/Top (when set) are pixels.
// Padding is the text offset from the node's left/top.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	HasLeft    bool
	HasTop     bool
	LeftPct    int32
	TopPct     int32
	Padding    int32
	FontSize   int32
}

// DefaultComputedStyle returns transparent background, white 20px text, no border, zero size.
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		LeftPct:    -1,
		TopPct:     -1,
		Padding:    4,
		FontSize:   20,
	}
}

var namedColors = map[string]rl.Color{
	"transparent": rl.NewColor(0, 0, 0, 0),
	"black":       rl.Black,
	"white":       rl.White,
	"gray":        rl.Gray,
	"red":         rl.Red,
}

// ParseColor parses #RGB, #RRGGBB, rgb(r,g,b), rgba(r,g,b,a) with a in 0..1, or a few named
// colours. Returns rl.Black and false on parse error.
func ParseColor(s string) (rl.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return ParseHexColor(s)
	}
	var args string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		args = s[5 : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		args = s[4 : len(s)-1]
	default:
		return rl.Black, false
	}
	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return rl.Black, false
	}
	var ch [4]uint8
	ch[3] = 255
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return rl.Black, false
		}
		if i == 3 {
			f *= 255
		}
		ch[i] = uint8(min(max(f+0.5, 0), 255))
	}
	return rl.NewColor(ch[0], ch[1], ch[2], ch[3]), true
}

// ParseHexColor parses #RGB or #RRGGBB into rl.Color (alpha 255).
func ParseHexColor(s string) (rl.Color, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || s[0] != '#' {
		return rl.Black, false
	}
	hex := s[1:]
	for i := 0; i < len(hex); i++ {
		if _, ok := hexByte(hex[i]); !ok {
			return rl.Black, false
		}
	}
	nib := func(i int) uint8 { v, _ := hexByte(hex[i]); return v }
	switch len(hex) {
	case 3:
		return rl.NewColor(nib(0)*17, nib(1)*17, nib(2)*17, 255), true
	case 6:
		return rl.NewColor(nib(0)<<4+nib(1), nib(2)<<4+nib(3), nib(4)<<4+nib(5), 255), true
	}
	return rl.Black, false
}

func hexByte(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ParsePx parses a number, with optional "px" suffix, to int32. Unitless is treated as pixels.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" to int32 (0-100).
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// ResolveProps builds a ComputedStyle from a merged property map.
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	for k, v := range props {
		v = strings.TrimSpace(v)
		switch k {
		case "background", "background-color":
			if c, ok := ParseColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := ParseColor(v); ok {
				out.Color = c
			}
		case "border", "border-color":
			if c, ok := ParseColor(v); ok {
				out.Border = c
				out.HasBorder = true
			}
		case "width":
			if n, ok := ParsePx(v); ok {
				out.Width = n
			}
		case "height":
			if n, ok := ParsePx(v); ok {
				out.Height = n
			}
		case "left":
			if pct, ok := ParsePct(v); ok {
				out.LeftPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Left, out.HasLeft = n, true
			}
		case "top":
			if pct, ok := ParsePct(v); ok {
				out.TopPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Top, out.HasTop = n, true
			}
		case "padding":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		}
	}
	return out
}
