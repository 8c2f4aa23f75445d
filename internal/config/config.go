// Package config loads and validates the panel configuration shared
// by the command line tools.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"hub75/pkg/gpio"
	"hub75/pkg/hub75"
	"hub75/pkg/memgpio"
	"hub75/pkg/periphpin"
)

// Pinout maps the HUB75 connector to GPIO line offsets. D and E are
// pointers so panels with 8 or fewer addressable rows can leave them
// unwired.
type Pinout struct {
	R1 int `yaml:"r1"`
	G1 int `yaml:"g1"`
	B1 int `yaml:"b1"`
	R2 int `yaml:"r2"`
	G2 int `yaml:"g2"`
	B2 int `yaml:"b2"`

	// D and E serialize as explicit nulls when unwired so a saved file
	// round-trips instead of falling back to the default offsets.
	A int  `yaml:"a"`
	B int  `yaml:"b"`
	C int  `yaml:"c"`
	D *int `yaml:"d"`
	E *int `yaml:"e"`

	CLK int `yaml:"clk"`
	LAT int `yaml:"lat"`
	OE  int `yaml:"oe"`
}

// Config is the full panel configuration.
type Config struct {
	Chip         string `yaml:"chip"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	ColorBits    int    `yaml:"color_bits"`
	Brightness   int    `yaml:"brightness"`
	RefreshUS    int    `yaml:"refresh_us"`
	DoubleBuffer bool   `yaml:"double_buffer"`
	Pins         Pinout `yaml:"pins"`
}

func intp(v int) *int { return &v }

// Default returns the configuration for a 64x32 panel on the Adafruit
// RGB Matrix Bonnet pinout.
func Default() *Config {
	return &Config{
		Chip:         "gpiochip0",
		Width:        64,
		Height:       32,
		ColorBits:    6,
		Brightness:   int(hub75.DefaultBrightness),
		RefreshUS:    int(hub75.DefaultRefreshInterval / time.Microsecond),
		DoubleBuffer: true,
		Pins: Pinout{
			R1: 5, G1: 13, B1: 6,
			R2: 12, G2: 16, B2: 23,
			A: 22, B: 26, C: 27, D: intp(20), E: intp(24),
			CLK: 17, LAT: 21, OE: 4,
		},
	}
}

// Load reads a YAML configuration file. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Save writes the configuration as YAML.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks the fields a bad config file could break.
func (c *Config) Validate() error {
	if c.Chip == "" {
		return fmt.Errorf("chip must be set")
	}
	if _, err := c.Geometry(); err != nil {
		return err
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		return fmt.Errorf("brightness %d out of range 0..255", c.Brightness)
	}
	if c.RefreshUS <= 0 {
		return fmt.Errorf("refresh_us must be positive, got %d", c.RefreshUS)
	}
	return nil
}

// Geometry builds the panel geometry from the configured dimensions.
func (c *Config) Geometry() (hub75.Geometry, error) {
	return hub75.NewGeometry(c.Width, c.Height, c.ColorBits)
}

// assemble requests every configured line through the given backend
// function and bundles the results into the driver's pinout. The first
// request error short-circuits the rest and is returned.
func (c *Config) assemble(request func(offset int) (hub75.Pin, error)) (*hub75.Pins, error) {
	var err error
	req := func(offset int) hub75.Pin {
		if err != nil {
			return nil
		}
		var p hub75.Pin
		p, err = request(offset)
		if err != nil {
			return nil
		}
		return p
	}
	reqOpt := func(offset *int) hub75.Pin {
		if offset == nil {
			return nil
		}
		return req(*offset)
	}

	pins := &hub75.Pins{
		RGB: hub75.RGBPins{
			R1: req(c.Pins.R1), G1: req(c.Pins.G1), B1: req(c.Pins.B1),
			R2: req(c.Pins.R2), G2: req(c.Pins.G2), B2: req(c.Pins.B2),
		},
		Address: hub75.AddressPins{
			A: req(c.Pins.A), B: req(c.Pins.B), C: req(c.Pins.C),
			D: reqOpt(c.Pins.D), E: reqOpt(c.Pins.E),
		},
		Control: hub75.ControlPins{
			CLK: req(c.Pins.CLK), LAT: req(c.Pins.LAT), OE: req(c.Pins.OE),
		},
	}
	if err != nil {
		return nil, err
	}
	return pins, nil
}

// RequestPins requests the configured lines from a GPIO character
// device chip. On error the caller still owns the chip and should
// close it to release partially requested lines.
func (c *Config) RequestPins(chip *gpio.Chip) (*hub75.Pins, error) {
	return c.assemble(func(offset int) (hub75.Pin, error) {
		return chip.Line(offset)
	})
}

// RequestMemPins resolves the configured offsets against a memory
// mapped register block. The fastest backend on Pi models up to the
// Pi 4.
func (c *Config) RequestMemPins(mem *memgpio.Mem) (*hub75.Pins, error) {
	return c.assemble(func(offset int) (hub75.Pin, error) {
		return mem.Pin(offset)
	})
}

// RequestPeriphPins resolves the configured offsets through the
// periph.io registry instead of the character device. Offsets map to
// the "GPIO<n>" names periph registers on the Pi.
func (c *Config) RequestPeriphPins() (*hub75.Pins, error) {
	if err := periphpin.Init(); err != nil {
		return nil, err
	}
	return c.assemble(func(offset int) (hub75.Pin, error) {
		return periphpin.ByName(fmt.Sprintf("GPIO%d", offset))
	})
}

// Options converts the tunable fields into display options.
func (c *Config) Options() []hub75.Option {
	opts := []hub75.Option{
		hub75.WithBrightness(hub75.Brightness(c.Brightness)),
		hub75.WithRefreshInterval(time.Duration(c.RefreshUS) * time.Microsecond),
	}
	if c.DoubleBuffer {
		opts = append(opts, hub75.WithDoubleBuffering())
	}
	return opts
}
