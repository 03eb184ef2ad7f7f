package render

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"strings"

	"github.com/BourgeoisBear/rasterm"
)

// EncodeANSI renders img as rows of half-block cells with 24-bit colors.
// The image is sampled at cols x rows*2 pixels.
func EncodeANSI(img image.Image, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return ""
	}

	sample := func(x, y int) (uint8, uint8, uint8) {
		x = clampInt(x, 0, sw-1)
		y = clampInt(y, 0, sh-1)
		r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
		return uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)
	}

	var out strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			sx := col * sw / cols
			r1, g1, b1 := sample(sx, (row*2)*sh/(rows*2))
			r2, g2, b2 := sample(sx, (row*2+1)*sh/(rows*2))
			fmt.Fprintf(&out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", r1, g1, b1, r2, g2, b2)
		}
		out.WriteString("\x1b[0m")
		if row < rows-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// EncodeGraphics writes img with a terminal graphics protocol sized to cols x rows cells
func EncodeGraphics(img image.Image, protocol GraphicsProtocol, cols, rows int) (string, error) {
	var out strings.Builder
	switch protocol {
	case ProtocolKitty:
		opts := rasterm.KittyImgOpts{DstCols: uint32(cols), DstRows: uint32(rows)}
		if err := rasterm.KittyWriteImage(&out, img, opts); err != nil {
			return "", fmt.Errorf("failed to encode image with kitty protocol: %w", err)
		}
	case ProtocolITerm:
		if err := rasterm.ItermWriteImage(&out, img); err != nil {
			return "", fmt.Errorf("failed to encode image with iTerm2 protocol: %w", err)
		}
	case ProtocolSixel:
		bounds := img.Bounds()
		paletted := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)
		if err := rasterm.SixelWriteImage(&out, paletted); err != nil {
			return "", fmt.Errorf("failed to encode image with sixel protocol: %w", err)
		}
	default:
		return EncodeANSI(img, cols, rows), nil
	}
	return out.String(), nil
}
