package book

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Finishes used for the parts that never carry the cover image.
var (
	InsideCoverColor  = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	PaperWhite        = color.RGBA{R: 0xfd, G: 0xfd, B: 0xfd, A: 0xff}
	PaperEdge         = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	DefaultCoverColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ParseColor parses "#rrggbb", "#rgb" or an SVG colour name such as "navy".
// The leading '#' is optional.
func ParseColor(s string) (color.RGBA, error) {
	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		return named, nil
	}
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("parse color %q: want #rrggbb or #rgb", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
