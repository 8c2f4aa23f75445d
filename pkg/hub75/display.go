package hub75

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRefreshInterval is the base hold unit of bitplane 0.
const DefaultRefreshInterval = 100 * time.Microsecond

// Display composes the frame buffers, the gamma table, the brightness
// and timing state and the BCM scan-out engine behind one draw/refresh
// surface.
//
// Drawing operations target the back buffer and refresh reads the
// front buffer. In single-buffered mode both are the same buffer, which
// saves one buffer of memory at the cost of possible visible tearing.
type Display struct {
	geom  Geometry
	pins  *Pins
	gamma *GammaTable

	mu     sync.Mutex
	bufs   [2]*FrameBuffer
	front  int
	double bool

	brightness atomic.Uint32
	interval   atomic.Int64
}

// Option configures a Display at construction.
type Option func(*Display)

// WithDoubleBuffering allocates a back buffer so draws never touch the
// buffer being scanned out.
func WithDoubleBuffering() Option {
	return func(d *Display) { d.double = true }
}

// WithBrightness sets the initial brightness.
func WithBrightness(b Brightness) Option {
	return func(d *Display) { d.brightness.Store(uint32(b)) }
}

// WithRefreshInterval sets the base hold unit multiplied into every
// bitplane hold. Shorter units raise the refresh rate; callers trade
// refresh rate against color depth through this unit and ColorBits.
func WithRefreshInterval(iv time.Duration) Option {
	return func(d *Display) { d.interval.Store(int64(iv)) }
}

// NewDisplay validates the geometry against the wired pins, drives all
// lines to their idle state and allocates the frame buffers. The only
// failure modes are configuration errors and pin I/O errors; a display
// that constructs cleanly cannot fail geometry checks later.
func NewDisplay(geom Geometry, pins *Pins, opts ...Option) (*Display, error) {
	if pins == nil {
		return nil, ErrPins
	}
	if err := pins.check(); err != nil {
		return nil, err
	}
	if geom.AddressBits() > pins.AddressPinCount() {
		return nil, fmt.Errorf("%w: %d rows need %d address lines, %d wired",
			ErrAddressLines, geom.Rows(), geom.AddressBits(), pins.AddressPinCount())
	}
	gamma, err := NewGammaTable(geom.ColorBits())
	if err != nil {
		return nil, err
	}
	if err := pins.Init(); err != nil {
		return nil, fmt.Errorf("hub75: pin init: %v", err)
	}

	d := &Display{
		geom:  geom,
		pins:  pins,
		gamma: gamma,
	}
	d.brightness.Store(uint32(DefaultBrightness))
	d.interval.Store(int64(DefaultRefreshInterval))
	for _, opt := range opts {
		opt(d)
	}

	d.bufs[0] = NewFrameBuffer(geom)
	if d.double {
		d.bufs[1] = NewFrameBuffer(geom)
	} else {
		d.bufs[1] = d.bufs[0]
	}
	return d, nil
}

// Geometry returns the panel geometry.
func (d *Display) Geometry() Geometry { return d.geom }

// Gamma returns the display's gamma table.
func (d *Display) Gamma() *GammaTable { return d.gamma }

// DoubleBuffered reports whether a separate back buffer exists.
func (d *Display) DoubleBuffered() bool { return d.double }

// SetBrightness stores the brightness level. It may be called at any
// time; the scan-out engine samples it at the start of each bitplane,
// so a change never affects a bitplane already on the panel.
func (d *Display) SetBrightness(b Brightness) {
	d.brightness.Store(uint32(b))
}

// Brightness returns the current brightness level.
func (d *Display) Brightness() Brightness {
	return Brightness(d.brightness.Load())
}

// SetRefreshInterval sets the base hold unit of bitplane 0.
func (d *Display) SetRefreshInterval(iv time.Duration) {
	d.interval.Store(int64(iv))
}

// RefreshInterval returns the base hold unit.
func (d *Display) RefreshInterval() time.Duration {
	return time.Duration(d.interval.Load())
}

// frontBuffer returns the buffer a refresh pass must read. The pass
// calls it once at pass start and keeps the pointer, so a swap during
// the pass takes effect only from the next pass onward.
func (d *Display) frontBuffer() *FrameBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bufs[d.front]
}

// backBuffer returns the current draw target.
func (d *Display) backBuffer() *FrameBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bufs[1-d.front]
}

// Back exposes the draw target for external rasterizers. The returned
// buffer implements draw.Image.
func (d *Display) Back() *FrameBuffer { return d.backBuffer() }

// SwapBuffers exchanges the roles of front and back by flipping the
// selector; no pixel data is copied. A no-op in single-buffered mode.
func (d *Display) SwapBuffers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.double {
		d.front = 1 - d.front
	}
}

// SetPixel writes a pixel into the back buffer. Out-of-range
// coordinates are ignored.
func (d *Display) SetPixel(x, y int, c Color) {
	d.backBuffer().SetPixel(x, y, c)
}

// Pixel reads a pixel from the front buffer, the image currently being
// scanned out. Out-of-range coordinates read black.
func (d *Display) Pixel(x, y int) Color {
	return d.frontBuffer().Pixel(x, y)
}

// Fill paints the back buffer with one color.
func (d *Display) Fill(c Color) {
	d.backBuffer().Fill(c)
}

// Clear paints the back buffer black.
func (d *Display) Clear() {
	d.backBuffer().Clear()
}

// ApplyFrame copies a frame into the back buffer and, when double
// buffered, swaps it to the front.
func (d *Display) ApplyFrame(f *FrameBuffer) {
	d.backBuffer().CopyFrom(f)
	d.SwapBuffers()
}

// Bounds implements the bounding-box query of the pixel-sink surface.
func (d *Display) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.geom.Width(), d.geom.Height())
}

// ColorModel implements image.Image.
func (d *Display) ColorModel() color.Model { return color.RGBAModel }

// At reads the draw surface, so draw.Draw composition modes see the
// pixels they are blending over.
func (d *Display) At(x, y int) color.Color {
	return d.backBuffer().At(x, y)
}

// Set implements draw.Image against the back buffer.
func (d *Display) Set(x, y int, c color.Color) {
	d.backBuffer().Set(x, y, c)
}

// planeHold computes the output-enable hold for one bitplane: the base
// unit shifted up by the plane weight, scaled by brightness. Brightness
// is sampled here, once per plane.
func (d *Display) planeHold(plane int) time.Duration {
	base := d.interval.Load() << uint(plane)
	return time.Duration(base * int64(d.brightness.Load()) / 255)
}

// RenderFrame scans one full refresh out of the front buffer:
// bitplanes in strictly increasing weight order, rows in strictly
// increasing address order. Per row it blanks the output, drives the
// address lines, shifts the six channel bits for every column, latches,
// lights the row and awaits the plane's hold via the Delayer.
//
// Rows that are completely dark in a plane stay blanked but still run
// the hold, keeping the refresh period independent of content.
//
// On every exit path, including cancellation through ctx, the output is
// left disabled; an interrupted refresh is reported as the context's
// error, never as panel corruption.
func (d *Display) RenderFrame(ctx context.Context, delay Delayer) error {
	fb := d.frontBuffer()
	// Blank on every exit path, normal or cancelled.
	defer func() { _ = d.pins.Control.disableOutput() }()

	width := d.geom.Width()
	rows := d.geom.Rows()
	for plane := 0; plane < d.geom.ColorBits(); plane++ {
		hold := d.planeHold(plane)
		for row := 0; row < rows; row++ {
			// Blank before touching the address lines so the previous
			// row's data cannot ghost onto the new row.
			if err := d.pins.Control.disableOutput(); err != nil {
				return err
			}
			if err := d.pins.Address.set(row); err != nil {
				return err
			}

			lit := false
			for x := 0; x < width; x++ {
				upper := fb.Pixel(x, row)
				lower := fb.Pixel(x, row+rows)
				r1 := d.gamma.Bit(upper.R, plane)
				g1 := d.gamma.Bit(upper.G, plane)
				b1 := d.gamma.Bit(upper.B, plane)
				r2 := d.gamma.Bit(lower.R, plane)
				g2 := d.gamma.Bit(lower.G, plane)
				b2 := d.gamma.Bit(lower.B, plane)
				lit = lit || r1 || g1 || b1 || r2 || g2 || b2
				if err := d.pins.RGB.set(r1, g1, b1, r2, g2, b2); err != nil {
					return err
				}
				if err := d.pins.Control.clockPulse(); err != nil {
					return err
				}
			}
			if err := d.pins.Control.latchPulse(); err != nil {
				return err
			}
			if lit {
				if err := d.pins.Control.enableOutput(); err != nil {
					return err
				}
			}
			if err := delay.Delay(ctx, hold); err != nil {
				return err
			}
			if err := d.pins.Control.disableOutput(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Refresh drives RenderFrame in a loop until ctx is cancelled. Callers
// sharing the display with drawing goroutines should serialize with a
// mutex held per pass and call RenderFrame themselves.
func (d *Display) Refresh(ctx context.Context, delay Delayer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.RenderFrame(ctx, delay); err != nil {
			return err
		}
	}
}
