// Package frames turns image files and generated patterns into panel
// frame buffers. PNG, JPEG and GIF decode through the standard image
// registry, SVG renders through oksvg, and everything is rescaled to
// the panel geometry.
package frames

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"hub75/pkg/hub75"
)

// FromImage rescales any image onto a fresh frame buffer.
func FromImage(g hub75.Geometry, src image.Image) *hub75.FrameBuffer {
	fb := hub75.NewFrameBuffer(g)
	xdraw.ApproxBiLinear.Scale(fb, fb.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return fb
}

// LoadImage decodes a PNG or JPEG file into a single frame.
func LoadImage(path string, g hub75.Geometry) (*hub75.FrameBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("frames: decode %s: %w", path, err)
	}
	return FromImage(g, img), nil
}

// LoadGIF decodes an animated GIF into frames plus its total play
// time. GIF frames are deltas against the previous frame, so each is
// composited over a running canvas before rescaling.
func LoadGIF(path string, g hub75.Geometry) ([]*hub75.FrameBuffer, time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		return nil, 0, fmt.Errorf("frames: decode %s: %w", path, err)
	}
	if len(anim.Image) == 0 {
		return nil, 0, fmt.Errorf("frames: %s has no frames", path)
	}

	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() {
		bounds = anim.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]*hub75.FrameBuffer, 0, len(anim.Image))
	var total time.Duration
	for i, src := range anim.Image {
		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
		frames = append(frames, FromImage(g, canvas))
		// Delays are in hundredths of a second; zero means "as fast as
		// possible", which on a panel reads as one refresh tick.
		d := time.Duration(anim.Delay[i]) * 10 * time.Millisecond
		if d <= 0 {
			d = 10 * time.Millisecond
		}
		total += d
	}
	return frames, total, nil
}

// LoadSVG rasterizes an SVG at panel resolution.
func LoadSVG(path string, g hub75.Geometry) (*hub75.FrameBuffer, error) {
	icon, err := oksvg.ReadIcon(path, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("frames: parse %s: %w", path, err)
	}

	w, h := g.Width(), g.Height()
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	return FromImage(g, img), nil
}

// Load opens any supported file by extension. Still images come back
// as a single frame with a zero duration; the caller picks the pacing.
func Load(path string, g hub75.Geometry) ([]*hub75.FrameBuffer, time.Duration, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return LoadGIF(path, g)
	case ".svg":
		f, err := LoadSVG(path, g)
		if err != nil {
			return nil, 0, err
		}
		return []*hub75.FrameBuffer{f}, 0, nil
	case ".png", ".jpg", ".jpeg":
		f, err := LoadImage(path, g)
		if err != nil {
			return nil, 0, err
		}
		return []*hub75.FrameBuffer{f}, 0, nil
	default:
		return nil, 0, fmt.Errorf("frames: unsupported file %s", path)
	}
}
