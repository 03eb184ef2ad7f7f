package scene

import (
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.RGBA{
	"red":    {R: 0xe0, G: 0x30, B: 0x30, A: 0xff},
	"green":  {R: 0x30, G: 0xc0, B: 0x40, A: 0xff},
	"blue":   {R: 0x30, G: 0x60, B: 0xe0, A: 0xff},
	"white":  {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"black":  {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	"grey":   {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"gray":   {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"yellow": {R: 0xe0, G: 0xd0, B: 0x30, A: 0xff},
	"orange": {R: 0xf0, G: 0x90, B: 0x20, A: 0xff},
}

// DefaultColor is used for primitives without a parseable color
var DefaultColor = color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}

// ParseColor accepts #rgb, #rrggbb and a few color names
func ParseColor(s string) color.RGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c
	}
	if !strings.HasPrefix(s, "#") {
		return DefaultColor
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return DefaultColor
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return DefaultColor
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
