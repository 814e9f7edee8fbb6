package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultSize is the number of color slots of the default palette.
const DefaultSize = 6

// Palette holds one color per slot.
type Palette struct {
	colors []colorful.Color
}

var defaultHexes = []string{
	"#d62728", // soprano
	"#1f77b4", // bass
	"#2ca02c",
	"#ff7f0e",
	"#9467bd",
	"#8c564b",
}

// Default returns the built-in palette. Its first two slots are the soprano and bass anchor colors.
func Default() Palette {
	colors := make([]colorful.Color, len(defaultHexes))
	for i, h := range defaultHexes {
		colors[i], _ = colorful.Hex(h)
	}
	return Palette{colors: colors}
}

// New creates a palette with the given number of slots. Slots beyond the built-in colors are filled with
// generated colors that are evenly spread in hue.
func New(size int) (Palette, error) {
	if size < 1 {
		return Palette{}, fmt.Errorf("palette size must be at least 1, got %d", size)
	}

	p := Default()
	if size <= len(p.colors) {
		p.colors = p.colors[:size]
		return p, nil
	}

	extra, err := colorful.HappyPalette(size - len(p.colors))
	if err != nil {
		return Palette{}, err
	}
	p.colors = append(p.colors, extra...)
	return p, nil
}

// FromHex creates a palette from a list of hex colors such as "#ff0000".
func FromHex(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return Palette{}, fmt.Errorf("palette needs at least one color")
	}

	colors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("invalid palette color %q: %w", h, err)
		}
		colors[i] = c
	}
	return Palette{colors: colors}, nil
}

// Size returns the number of slots.
func (p Palette) Size() int {
	return len(p.colors)
}

// Color returns the color of a slot. Out of range slots are clamped to the palette.
func (p Palette) Color(slot int) colorful.Color {
	if len(p.colors) == 0 {
		return colorful.Color{}
	}
	slot = max(0, min(slot, len(p.colors)-1))
	return p.colors[slot]
}

// Hex returns the hex representation of a slot color.
func (p Palette) Hex(slot int) string {
	return p.Color(slot).Hex()
}

// Class returns the style class name attached to elements of a slot.
func Class(slot int) string {
	return fmt.Sprintf("voice-color-%d", slot)
}
