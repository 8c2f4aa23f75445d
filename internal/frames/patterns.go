package frames

import "hub75/pkg/hub75"

// Solid fills a fresh frame with one color.
func Solid(g hub75.Geometry, c hub75.Color) *hub75.FrameBuffer {
	fb := hub75.NewFrameBuffer(g)
	fb.Fill(c)
	return fb
}

// Checkerboard draws alternating cells of two colors. The offset shifts
// the pattern by whole cells, so successive offsets animate it.
func Checkerboard(g hub75.Geometry, cell int, on, off hub75.Color, offset int) *hub75.FrameBuffer {
	if cell < 1 {
		cell = 1
	}
	fb := hub75.NewFrameBuffer(g)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if (x/cell+y/cell+offset)%2 == 0 {
				fb.SetPixel(x, y, on)
			} else {
				fb.SetPixel(x, y, off)
			}
		}
	}
	return fb
}

// HGradient blends between two colors across the panel width. Useful
// for eyeballing gamma behavior on real hardware.
func HGradient(g hub75.Geometry, from, to hub75.Color) *hub75.FrameBuffer {
	fb := hub75.NewFrameBuffer(g)
	span := g.Width() - 1
	if span < 1 {
		span = 1
	}
	for x := 0; x < g.Width(); x++ {
		c := hub75.Color{
			R: lerp(from.R, to.R, x, span),
			G: lerp(from.G, to.G, x, span),
			B: lerp(from.B, to.B, x, span),
		}
		for y := 0; y < g.Height(); y++ {
			fb.SetPixel(x, y, c)
		}
	}
	return fb
}

func lerp(a, b uint8, k, n int) uint8 {
	return uint8((int(a)*(n-k) + int(b)*k + n/2) / n)
}
