// Package hub75 drives HUB75 RGB LED matrix panels by bit-banging the
// row address, clock, latch and output-enable signals of the panel's
// shift-register chain.
//
// Perceived color depth beyond one bit per sub-pixel is produced with
// Binary Code Modulation: each refresh sweeps all rows once per
// bitplane, holding output-enable for a duration proportional to the
// plane's binary weight, so cumulative light exposure encodes the
// gamma-corrected intensity of every channel.
//
// The driver is agnostic to the underlying hardware. GPIO is consumed
// through the Pin capability (see hub75/pkg/gpio for a Linux character
// device backend and hub75/pkg/periphpin for a periph.io backend), and
// timing through the Delayer capability, whose Delay call is the only
// suspension point of a refresh pass.
//
// A Display owns one or two frame buffers. With double buffering
// enabled, drawing targets the back buffer and SwapBuffers flips a
// selector; a refresh pass latches the selector once at pass start, so
// a swap never tears a frame mid-pass. The frame buffers implement
// draw.Image, so any 2D rasterizer that draws into the standard
// library's image interfaces can render shapes, text or pictures onto
// the panel.
//
// A Display must not be refreshed and drawn to concurrently without
// external serialization: hold one mutex for the duration of a full
// RenderFrame pass or a full draw-then-swap sequence.
package hub75
