package hub75

import (
	"image"
	"image/color"
)

// FrameBuffer holds one panel image. Its size is fixed for the
// buffer's lifetime. Out-of-range coordinates on reads and writes are
// clipped silently: drawing code routinely paints shapes partially off
// panel and must not have to bounds-check every pixel.
//
// FrameBuffer implements draw.Image, so the standard library and
// golang.org/x/image rasterizers can draw shapes, text and pictures
// straight onto it.
type FrameBuffer struct {
	width  int
	height int
	pix    []Color
}

// NewFrameBuffer allocates a black frame buffer for the given panel
// geometry.
func NewFrameBuffer(g Geometry) *FrameBuffer {
	return &FrameBuffer{
		width:  g.Width(),
		height: g.Height(),
		pix:    make([]Color, g.Width()*g.Height()),
	}
}

// Width returns the buffer width in pixels.
func (f *FrameBuffer) Width() int { return f.width }

// Height returns the buffer height in pixels.
func (f *FrameBuffer) Height() int { return f.height }

func (f *FrameBuffer) inRange(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// SetPixel writes a pixel. Out-of-range coordinates are ignored.
func (f *FrameBuffer) SetPixel(x, y int, c Color) {
	if !f.inRange(x, y) {
		return
	}
	f.pix[y*f.width+x] = c
}

// Pixel reads a pixel. Out-of-range coordinates read black.
func (f *FrameBuffer) Pixel(x, y int) Color {
	if !f.inRange(x, y) {
		return Black
	}
	return f.pix[y*f.width+x]
}

// Fill paints every pixel with the given color.
func (f *FrameBuffer) Fill(c Color) {
	for i := range f.pix {
		f.pix[i] = c
	}
}

// Clear paints every pixel black.
func (f *FrameBuffer) Clear() {
	f.Fill(Black)
}

// CopyFrom copies pixel data from another buffer of the same size.
// Buffers of a different size are ignored.
func (f *FrameBuffer) CopyFrom(other *FrameBuffer) {
	if other == nil || other.width != f.width || other.height != f.height {
		return
	}
	copy(f.pix, other.pix)
}

// Clone returns an independent copy of the buffer.
func (f *FrameBuffer) Clone() *FrameBuffer {
	c := &FrameBuffer{width: f.width, height: f.height, pix: make([]Color, len(f.pix))}
	copy(c.pix, f.pix)
	return c
}

// ColorModel implements image.Image.
func (f *FrameBuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (f *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// At implements image.Image. Out-of-range coordinates read black.
func (f *FrameBuffer) At(x, y int) color.Color {
	p := f.Pixel(x, y)
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
}

// Set implements draw.Image. Out-of-range coordinates are ignored.
func (f *FrameBuffer) Set(x, y int, c color.Color) {
	r, g, b, _ := c.RGBA()
	f.SetPixel(x, y, Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
}
