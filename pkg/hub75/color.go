package hub75

import (
	"fmt"
	"math"
)

// Color is one panel pixel: a byte per channel, no identity.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from 8-bit channel intensities.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
	Red   = Color{R: 255}
	Green = Color{G: 255}
	Blue  = Color{B: 255}
)

// GammaTable maps 8-bit channel intensities to the modulation levels
// of a fixed color depth. The table is built once and never mutated;
// output is monotonic non-decreasing in the input.
//
// The mapping is deliberately lossy at the bottom end: with a
// perceptual curve quantized to a few bits, inputs below roughly
// 2^(8-bits) collapse to level 0 and stay dark on the panel. Callers
// drawing dim colors on low color depths should expect this.
type GammaTable struct {
	bits  int
	table [256]uint8
}

// gammaExp is the exponent of the perceptual power-law curve.
const gammaExp = 2.2

// NewGammaTable builds the gamma table for a color depth of 1 to 8
// bits per channel.
func NewGammaTable(bits int) (*GammaTable, error) {
	if bits < 1 || bits > 8 {
		return nil, fmt.Errorf("%w: color depth %d bits (want 1..8)", ErrGeometry, bits)
	}
	g := &GammaTable{bits: bits}
	max := float64(int(1)<<bits - 1)
	for i := 0; i < 256; i++ {
		level := math.Pow(float64(i)/255.0, gammaExp) * max
		g.table[i] = uint8(math.Round(level))
	}
	return g, nil
}

// Bits returns the color depth the table quantizes to.
func (g *GammaTable) Bits() int { return g.bits }

// Max returns the highest modulation level, 2^bits-1.
func (g *GammaTable) Max() uint8 { return uint8(int(1)<<g.bits - 1) }

// Level returns the modulation level for an 8-bit channel intensity.
func (g *GammaTable) Level(v uint8) uint8 { return g.table[v] }

// Bit reports whether the given bitplane is lit for an 8-bit channel
// intensity. Planes at or above the color depth are never lit.
func (g *GammaTable) Bit(v uint8, plane int) bool {
	if plane < 0 || plane >= g.bits {
		return false
	}
	return g.table[v]&(1<<uint(plane)) != 0
}
