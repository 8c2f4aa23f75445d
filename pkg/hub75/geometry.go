package hub75

import (
	"fmt"
	"math/bits"
)

// Geometry is the fixed shape of one panel: width and height in
// pixels and the color depth in bits per channel. It is validated once
// at construction and immutable afterwards.
//
// HUB75 panels scan two half-panel rows at a time, so a panel exposes
// Height/2 addressable rows selected by binary-encoded address lines.
type Geometry struct {
	width     int
	height    int
	colorBits int
}

// NewGeometry validates panel dimensions and color depth.
// Height must be even; color depth must be 1 to 8 bits.
func NewGeometry(width, height, colorBits int) (Geometry, error) {
	switch {
	case width < 1:
		return Geometry{}, fmt.Errorf("%w: width %d", ErrGeometry, width)
	case height < 2 || height%2 != 0:
		return Geometry{}, fmt.Errorf("%w: height %d (must be even)", ErrGeometry, height)
	case colorBits < 1 || colorBits > 8:
		return Geometry{}, fmt.Errorf("%w: color depth %d bits (want 1..8)", ErrGeometry, colorBits)
	}
	return Geometry{width: width, height: height, colorBits: colorBits}, nil
}

// Width returns the panel width in pixels.
func (g Geometry) Width() int { return g.width }

// Height returns the panel height in pixels.
func (g Geometry) Height() int { return g.height }

// ColorBits returns the color depth in bits per channel.
func (g Geometry) ColorBits() int { return g.colorBits }

// Rows returns the number of addressable rows, Height/2.
func (g Geometry) Rows() int { return g.height / 2 }

// AddressBits returns how many address lines the panel needs,
// ceil(log2(Rows)).
func (g Geometry) AddressBits() int {
	return bits.Len(uint(g.Rows() - 1))
}
