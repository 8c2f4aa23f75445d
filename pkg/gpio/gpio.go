// Package gpio drives panel pins through the Linux GPIO character
// device using go-gpiocdev. It is the default backend on Raspberry Pi
// OS Bookworm and later, where the sysfs interface is gone.
package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// Line is one requested output line. It satisfies the hub75 Pin
// capability.
type Line struct {
	offset int
	line   *gpiocdev.Line
}

// SetHigh drives the line high.
func (l *Line) SetHigh() error {
	return l.line.SetValue(1)
}

// SetLow drives the line low.
func (l *Line) SetLow() error {
	return l.line.SetValue(0)
}

// Offset returns the line's offset on its chip.
func (l *Line) Offset() int { return l.offset }

// Close releases the line back to the kernel.
func (l *Line) Close() error {
	return l.line.Close()
}

// Chip hands out output lines on one GPIO character device and
// releases them all on Close. On a Raspberry Pi 4 the panel lines live
// on "gpiochip0"; on a Pi 5 the header is "gpiochip0" as well from
// kernel 6.6 onward but appeared as "gpiochip4" on early firmware, so
// the chip name stays configurable.
type Chip struct {
	name string

	mu    sync.Mutex
	lines []*Line
}

// NewChip returns a Chip for the named character device, for example
// "gpiochip0". The device itself is opened lazily per line request.
func NewChip(name string) *Chip {
	return &Chip{name: name}
}

// Name returns the chip's device name.
func (c *Chip) Name() string { return c.name }

// Line requests the line at offset as an output driven low and tracks
// it for Close.
func (c *Chip) Line(offset int) (*Line, error) {
	line, err := gpiocdev.RequestLine(c.name, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("gpio: request %s line %d: %w", c.name, offset, err)
	}
	l := &Line{offset: offset, line: line}
	c.mu.Lock()
	c.lines = append(c.lines, l)
	c.mu.Unlock()
	return l, nil
}

// Close releases every line requested through this chip. The first
// error is returned after all lines have been attempted.
func (c *Chip) Close() error {
	c.mu.Lock()
	lines := c.lines
	c.lines = nil
	c.mu.Unlock()

	var first error
	for _, l := range lines {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
