package hub75

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePin records its level and fires a hook on each rising edge.
type fakePin struct {
	high   bool
	onRise func()
}

func (p *fakePin) SetHigh() error {
	if !p.high && p.onRise != nil {
		p.onRise()
	}
	p.high = true
	return nil
}

func (p *fakePin) SetLow() error {
	p.high = false
	return nil
}

// rgbSample captures the data line levels at one clock pulse.
type rgbSample struct {
	r1, g1, b1 bool
	r2, g2, b2 bool
}

// rig wires a full fake pinout and records the protocol traffic: the
// address latched with each LAT pulse and the data lines at each CLK
// rising edge.
type rig struct {
	r1, g1, b1, r2, g2, b2 *fakePin
	a, b, c, d, e          *fakePin
	clk, lat, oe           *fakePin

	rows    []int
	samples []rgbSample
}

// newRig builds a rig with the given number of address lines wired.
func newRig(addrLines int) *rig {
	r := &rig{
		r1: &fakePin{}, g1: &fakePin{}, b1: &fakePin{},
		r2: &fakePin{}, g2: &fakePin{}, b2: &fakePin{},
		a: &fakePin{}, b: &fakePin{}, c: &fakePin{},
		clk: &fakePin{}, lat: &fakePin{}, oe: &fakePin{},
	}
	if addrLines >= 4 {
		r.d = &fakePin{}
	}
	if addrLines >= 5 {
		r.e = &fakePin{}
	}
	r.clk.onRise = func() {
		r.samples = append(r.samples, rgbSample{
			r1: r.r1.high, g1: r.g1.high, b1: r.b1.high,
			r2: r.r2.high, g2: r.g2.high, b2: r.b2.high,
		})
	}
	r.lat.onRise = func() {
		r.rows = append(r.rows, r.address())
	}
	return r
}

// address decodes the current binary row select.
func (r *rig) address() int {
	row := 0
	if r.a.high {
		row |= 0x01
	}
	if r.b.high {
		row |= 0x02
	}
	if r.c.high {
		row |= 0x04
	}
	if r.d != nil && r.d.high {
		row |= 0x08
	}
	if r.e != nil && r.e.high {
		row |= 0x10
	}
	return row
}

func (r *rig) pins() *Pins {
	var dp, ep Pin
	if r.d != nil {
		dp = r.d
	}
	if r.e != nil {
		ep = r.e
	}
	return &Pins{
		RGB:     RGBPins{R1: r.r1, G1: r.g1, B1: r.b1, R2: r.r2, G2: r.g2, B2: r.b2},
		Address: AddressPins{A: r.a, B: r.b, C: r.c, D: dp, E: ep},
		Control: ControlPins{CLK: r.clk, LAT: r.lat, OE: r.oe},
	}
}

func (r *rig) reset() {
	r.rows = nil
	r.samples = nil
}

// fakeDelay records every hold it is asked to wait and accumulates the
// time the output was enabled. It never actually sleeps.
type fakeDelay struct {
	oe      *fakePin
	holds   []time.Duration
	oeTime  time.Duration
	onDelay func(n int)
}

func (f *fakeDelay) Delay(ctx context.Context, d time.Duration) error {
	if f.onDelay != nil {
		f.onDelay(len(f.holds))
	}
	f.holds = append(f.holds, d)
	if !f.oe.high {
		f.oeTime += d
	}
	return ctx.Err()
}

func TestNewDisplayRejectsNilPins(t *testing.T) {
	g := testGeometry(t, 64, 32, 6)
	_, err := NewDisplay(g, nil)
	assert.ErrorIs(t, err, ErrPins)

	r := newRig(4)
	p := r.pins()
	p.RGB.G2 = nil
	_, err = NewDisplay(g, p)
	assert.ErrorIs(t, err, ErrPins)
}

func TestNewDisplayRejectsTooFewAddressLines(t *testing.T) {
	// 64 rows of panel mean 32 addressable rows, needing 5 lines.
	g := testGeometry(t, 64, 64, 6)
	r := newRig(3)
	_, err := NewDisplay(g, r.pins())
	assert.ErrorIs(t, err, ErrAddressLines)

	// 16 addressable rows fit on 4 lines.
	g = testGeometry(t, 64, 32, 6)
	r = newRig(4)
	_, err = NewDisplay(g, r.pins())
	assert.NoError(t, err)
}

func TestNewDisplayInitializesIdleState(t *testing.T) {
	r := newRig(3)
	_, err := NewDisplay(testGeometry(t, 4, 4, 2), r.pins())
	require.NoError(t, err)

	assert.True(t, r.oe.high, "panel must start blanked")
	assert.False(t, r.clk.high)
	assert.False(t, r.lat.high)
	assert.False(t, r.r1.high)
	assert.Equal(t, 0, r.address())
}

func TestRenderFramePlaneAndRowOrder(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 4, 4, 3), r.pins(),
		WithBrightness(MaxBrightness))
	require.NoError(t, err)
	d.Fill(White)

	fd := &fakeDelay{oe: r.oe}
	require.NoError(t, d.RenderFrame(context.Background(), fd))

	us := time.Microsecond
	// Bitplanes in increasing weight order, both rows inside each plane.
	assert.Equal(t, []time.Duration{
		100 * us, 100 * us,
		200 * us, 200 * us,
		400 * us, 400 * us,
	}, fd.holds)
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1}, r.rows)

	// One clock per column per (plane, row) slice.
	assert.Len(t, r.samples, 3*2*4)
}

func TestRenderFrameExposureTracksIntensity(t *testing.T) {
	render := func(v uint8) time.Duration {
		r := newRig(3)
		d, err := NewDisplay(testGeometry(t, 1, 2, 4), r.pins(),
			WithBrightness(MaxBrightness))
		require.NoError(t, err)
		d.SetPixel(0, 0, Color{R: v})

		fd := &fakeDelay{oe: r.oe}
		require.NoError(t, d.RenderFrame(context.Background(), fd))
		return fd.oeTime
	}

	full := render(255)
	half := render(128)

	// Full intensity lights every plane: 100+200+400+800 microseconds.
	assert.Equal(t, 1500*time.Microsecond, full)
	assert.Greater(t, full, half)
	assert.Greater(t, half, time.Duration(0))
}

func TestRenderFrameDarkBufferNeverEnablesOutput(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 4, 4, 3), r.pins(),
		WithBrightness(MaxBrightness))
	require.NoError(t, err)

	fd := &fakeDelay{oe: r.oe}
	require.NoError(t, d.RenderFrame(context.Background(), fd))

	// The refresh period is content independent: every slice still runs
	// its hold, but the output stays blanked throughout.
	assert.Len(t, fd.holds, 3*2)
	assert.Equal(t, time.Duration(0), fd.oeTime)
}

func TestRenderFrameBrightnessScalesHolds(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 2, 2, 1), r.pins(),
		WithBrightness(128))
	require.NoError(t, err)
	d.Fill(White)

	fd := &fakeDelay{oe: r.oe}
	require.NoError(t, d.RenderFrame(context.Background(), fd))

	want := time.Duration(int64(100*time.Microsecond) * 128 / 255)
	require.Len(t, fd.holds, 1)
	assert.Equal(t, want, fd.holds[0])

	// Zero brightness keeps the cadence but collapses every hold.
	d.SetBrightness(MinBrightness)
	fd = &fakeDelay{oe: r.oe}
	require.NoError(t, d.RenderFrame(context.Background(), fd))
	assert.Equal(t, []time.Duration{0}, fd.holds)
}

func TestRenderFrameBrightnessSampledPerPlane(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 2, 4, 2), r.pins(),
		WithBrightness(MaxBrightness))
	require.NoError(t, err)
	d.Fill(White)

	fd := &fakeDelay{oe: r.oe}
	fd.onDelay = func(n int) {
		if n == 0 {
			d.SetBrightness(MinBrightness)
		}
	}
	require.NoError(t, d.RenderFrame(context.Background(), fd))

	// Plane 0's hold was computed before the change and covers both of
	// its rows; plane 1 picks up the new level.
	us := time.Microsecond
	assert.Equal(t, []time.Duration{100 * us, 100 * us, 0, 0}, fd.holds)
}

func TestRenderFrameUsesOneGenerationPerPass(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 2, 2, 1), r.pins(),
		WithDoubleBuffering(), WithBrightness(MaxBrightness))
	require.NoError(t, err)

	d.Fill(Red)
	d.SwapBuffers()
	d.Fill(Blue)

	fd := &fakeDelay{oe: r.oe}
	fd.onDelay = func(int) { d.SwapBuffers() }
	require.NoError(t, d.RenderFrame(context.Background(), fd))

	// The pass captured the front buffer before the swap; only red may
	// appear on the data lines.
	require.NotEmpty(t, r.samples)
	for i, s := range r.samples {
		assert.True(t, s.r1 && s.r2, "sample %d", i)
		assert.False(t, s.b1 || s.b2, "sample %d", i)
	}

	// The swap is visible from the next pass on.
	r.reset()
	fd = &fakeDelay{oe: r.oe}
	require.NoError(t, d.RenderFrame(context.Background(), fd))
	for i, s := range r.samples {
		assert.True(t, s.b1 && s.b2, "sample %d", i)
		assert.False(t, s.r1 || s.r2, "sample %d", i)
	}
}

func TestRenderFrameCancellationBlanksOutput(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 4, 4, 3), r.pins(),
		WithBrightness(MaxBrightness))
	require.NoError(t, err)
	d.Fill(White)

	ctx, cancel := context.WithCancel(context.Background())
	fd := &fakeDelay{oe: r.oe}
	fd.onDelay = func(n int) {
		if n == 2 {
			cancel()
		}
	}
	err = d.RenderFrame(ctx, fd)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, r.oe.high, "output must be blanked after cancellation")
}

func TestRefreshStopsOnCancel(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 2, 2, 1), r.pins())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	passes := 0
	fd := &fakeDelay{oe: r.oe}
	fd.onDelay = func(int) {
		passes++
		if passes == 3 {
			cancel()
		}
	}
	err = d.Refresh(ctx, fd)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, passes)
	assert.True(t, r.oe.high)
}

func TestSingleBufferedDrawsAreImmediatelyVisible(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 4, 4, 2), r.pins())
	require.NoError(t, err)

	d.SetPixel(1, 1, Green)
	assert.Equal(t, Green, d.Pixel(1, 1))

	// Swapping is a no-op without a back buffer.
	d.SwapBuffers()
	assert.Equal(t, Green, d.Pixel(1, 1))
	assert.False(t, d.DoubleBuffered())
}

func TestDoubleBufferedDrawsAppearOnSwap(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 4, 4, 2), r.pins(), WithDoubleBuffering())
	require.NoError(t, err)

	d.SetPixel(1, 1, Green)
	assert.Equal(t, Black, d.Pixel(1, 1), "draw must not show before swap")

	d.SwapBuffers()
	assert.Equal(t, Green, d.Pixel(1, 1))
	assert.Equal(t, Black, d.Back().Pixel(1, 1), "new back buffer is the old front")
	assert.True(t, d.DoubleBuffered())
}

func TestApplyFrame(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 4, 4, 2), r.pins(), WithDoubleBuffering())
	require.NoError(t, err)

	f := NewFrameBuffer(d.Geometry())
	f.Fill(Blue)
	d.ApplyFrame(f)
	assert.Equal(t, Blue, d.Pixel(0, 0))

	// A frame of the wrong size never reaches the panel.
	wrong := NewFrameBuffer(testGeometry(t, 2, 2, 2))
	wrong.Fill(Red)
	d.ApplyFrame(wrong)
	assert.NotEqual(t, Red, d.Pixel(0, 0))
}

func TestBrightnessSaturation(t *testing.T) {
	assert.Equal(t, MaxBrightness, Brightness(250).Add(20))
	assert.Equal(t, Brightness(130), Brightness(120).Add(10))
	assert.Equal(t, MinBrightness, Brightness(5).Sub(20))
	assert.Equal(t, Brightness(110), Brightness(120).Sub(10))
	assert.Equal(t, MaxBrightness, MaxBrightness.Add(1))
	assert.Equal(t, MinBrightness, MinBrightness.Sub(1))
}

func TestDisplayBrightnessAccessors(t *testing.T) {
	r := newRig(3)
	d, err := NewDisplay(testGeometry(t, 4, 4, 2), r.pins())
	require.NoError(t, err)

	assert.Equal(t, DefaultBrightness, d.Brightness())
	d.SetBrightness(d.Brightness().Add(200))
	assert.Equal(t, MaxBrightness, d.Brightness())
	d.SetBrightness(d.Brightness().Sub(255))
	assert.Equal(t, MinBrightness, d.Brightness())
}
