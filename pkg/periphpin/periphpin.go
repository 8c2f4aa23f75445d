// Package periphpin adapts periph.io GPIO pins to the hub75 Pin
// capability. It is an alternative to the character-device backend for
// hosts where a periph.io driver already owns the pins, and it picks
// up periph's pin name registry ("GPIO17", "P1_11", board aliases).
package periphpin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Init loads the periph.io host drivers. Call once before ByName.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periphpin: host init: %w", err)
	}
	return nil
}

// Pin wraps a periph.io output pin.
type Pin struct {
	out gpio.PinOut
}

// Wrap adapts an already resolved periph.io pin.
func Wrap(out gpio.PinOut) *Pin {
	return &Pin{out: out}
}

// ByName resolves a pin through the periph.io registry, for example
// "GPIO17".
func ByName(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("periphpin: no pin named %q", name)
	}
	return &Pin{out: p}, nil
}

// SetHigh drives the pin high.
func (p *Pin) SetHigh() error {
	return p.out.Out(gpio.High)
}

// SetLow drives the pin low.
func (p *Pin) SetLow() error {
	return p.out.Out(gpio.Low)
}

// Name returns the underlying pin's name.
func (p *Pin) Name() string { return p.out.Name() }
