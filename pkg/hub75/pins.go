package hub75

import "fmt"

// Pin is a single digital output. It is the only GPIO capability the
// driver consumes; any backend that can drive a line high and low can
// run a panel.
type Pin interface {
	SetHigh() error
	SetLow() error
}

// RGBPins carries the six color data lines: R1/G1/B1 feed the upper
// half of the panel, R2/G2/B2 the lower half.
type RGBPins struct {
	R1, G1, B1 Pin
	R2, G2, B2 Pin
}

// AddressPins carries the binary-encoded row select lines. A, B and C
// are always wired; D and E may be nil on panels with 8 or fewer
// addressable rows per line count.
type AddressPins struct {
	A, B, C Pin
	D, E    Pin
}

// ControlPins carries the shift clock, the latch and the active-low
// output enable.
type ControlPins struct {
	CLK, LAT, OE Pin
}

// Pins bundles the full HUB75 pinout.
type Pins struct {
	RGB     RGBPins
	Address AddressPins
	Control ControlPins
}

func drive(p Pin, high bool) error {
	if high {
		return p.SetHigh()
	}
	return p.SetLow()
}

// check verifies all required pins are present.
func (p *Pins) check() error {
	required := map[string]Pin{
		"R1": p.RGB.R1, "G1": p.RGB.G1, "B1": p.RGB.B1,
		"R2": p.RGB.R2, "G2": p.RGB.G2, "B2": p.RGB.B2,
		"A": p.Address.A, "B": p.Address.B, "C": p.Address.C,
		"CLK": p.Control.CLK, "LAT": p.Control.LAT, "OE": p.Control.OE,
	}
	for name, pin := range required {
		if pin == nil {
			return fmt.Errorf("%w: %s is nil", ErrPins, name)
		}
	}
	return nil
}

// Init drives every line to its idle state: data, address, clock and
// latch low, output enable high (OE is active low, so the panel starts
// blanked).
func (p *Pins) Init() error {
	low := []Pin{
		p.RGB.R1, p.RGB.G1, p.RGB.B1,
		p.RGB.R2, p.RGB.G2, p.RGB.B2,
		p.Address.A, p.Address.B, p.Address.C,
		p.Control.CLK, p.Control.LAT,
	}
	if p.Address.D != nil {
		low = append(low, p.Address.D)
	}
	if p.Address.E != nil {
		low = append(low, p.Address.E)
	}
	for _, pin := range low {
		if err := pin.SetLow(); err != nil {
			return err
		}
	}
	return p.Control.OE.SetHigh()
}

// AddressPinCount returns how many address lines are wired.
func (p *Pins) AddressPinCount() int {
	n := 3
	if p.Address.D != nil {
		n++
	}
	if p.Address.E != nil {
		n++
	}
	return n
}

// MaxAddressableRows returns how many rows the wired address lines can
// select.
func (p *Pins) MaxAddressableRows() int {
	return 1 << uint(p.AddressPinCount())
}

// set drives the address lines to the binary encoding of row.
func (a *AddressPins) set(row int) error {
	if err := drive(a.A, row&0x01 != 0); err != nil {
		return err
	}
	if err := drive(a.B, row&0x02 != 0); err != nil {
		return err
	}
	if err := drive(a.C, row&0x04 != 0); err != nil {
		return err
	}
	if a.D != nil {
		if err := drive(a.D, row&0x08 != 0); err != nil {
			return err
		}
	}
	if a.E != nil {
		if err := drive(a.E, row&0x10 != 0); err != nil {
			return err
		}
	}
	return nil
}

// set drives the six color data lines for one column.
func (r *RGBPins) set(r1, g1, b1, r2, g2, b2 bool) error {
	if err := drive(r.R1, r1); err != nil {
		return err
	}
	if err := drive(r.G1, g1); err != nil {
		return err
	}
	if err := drive(r.B1, b1); err != nil {
		return err
	}
	if err := drive(r.R2, r2); err != nil {
		return err
	}
	if err := drive(r.G2, g2); err != nil {
		return err
	}
	return drive(r.B2, b2)
}

// clockPulse shifts the data lines into the panel's shift register.
func (c *ControlPins) clockPulse() error {
	if err := c.CLK.SetHigh(); err != nil {
		return err
	}
	return c.CLK.SetLow()
}

// latchPulse commits the shifted row to the output drivers.
func (c *ControlPins) latchPulse() error {
	if err := c.LAT.SetHigh(); err != nil {
		return err
	}
	return c.LAT.SetLow()
}

// enableOutput lights the selected row (OE is active low).
func (c *ControlPins) enableOutput() error {
	return c.OE.SetLow()
}

// disableOutput blanks the panel.
func (c *ControlPins) disableOutput() error {
	return c.OE.SetHigh()
}
