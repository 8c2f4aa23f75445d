// Package memgpio drives panel pins through memory mapped BCM283x
// GPIO registers. Register writes avoid the per-edge syscall of the
// character device, which matters when a refresh pass toggles the
// clock thousands of times. Works on Raspberry Pi models up to the
// Pi 4 via /dev/gpiomem; the Pi 5's RP1 has a different register
// block and needs the character device backend instead.
package memgpio

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"
)

const (
	devPath  = "/dev/gpiomem"
	mapSize  = 4096
	lastLine = 53

	// Register indexes into the GPIO block, in 32-bit words.
	fsel0 = 0 // function select, 10 lines per register
	set0  = 7 // output set, 32 lines per register
	clr0  = 10
)

// Mem is one mapping of the GPIO register block.
type Mem struct {
	mu     sync.Mutex
	region []byte
	regs   []uint32
}

// Open maps the GPIO registers. The mapping is shared by every Pin
// derived from it and released by Close.
func Open() (*Mem, error) {
	f, err := os.OpenFile(devPath, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("memgpio: open %s: %w", devPath, err)
	}
	defer f.Close()

	region, err := syscall.Mmap(int(f.Fd()), 0, mapSize,
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("memgpio: mmap: %w", err)
	}
	return &Mem{
		region: region,
		regs:   unsafe.Slice((*uint32)(unsafe.Pointer(&region[0])), mapSize/4),
	}, nil
}

// Close unmaps the registers. Pins derived from this mapping must not
// be used afterwards.
func (m *Mem) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.region == nil {
		return nil
	}
	region := m.region
	m.region = nil
	m.regs = nil
	return syscall.Munmap(region)
}

// Pin configures the line as an output and returns it. The function
// select write is serialized; SetHigh and SetLow hit set/clear
// registers that need no read-modify-write and stay lock free.
func (m *Mem) Pin(line int) (*Pin, error) {
	if line < 0 || line > lastLine {
		return nil, fmt.Errorf("memgpio: line %d out of range 0..%d", line, lastLine)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.regs == nil {
		return nil, fmt.Errorf("memgpio: mapping closed")
	}

	// Function select: 3 bits per line, 001 selects output.
	reg := fsel0 + line/10
	shift := uint(line%10) * 3
	v := m.regs[reg]
	v &^= 0x7 << shift
	v |= 0x1 << shift
	m.regs[reg] = v

	return &Pin{
		mem:  m,
		set:  set0 + line/32,
		clr:  clr0 + line/32,
		mask: 1 << uint(line%32),
	}, nil
}

// Pin is one output line. It satisfies the hub75 Pin capability.
type Pin struct {
	mem      *Mem
	set, clr int
	mask     uint32
}

// SetHigh drives the line high.
func (p *Pin) SetHigh() error {
	p.mem.regs[p.set] = p.mask
	return nil
}

// SetLow drives the line low.
func (p *Pin) SetLow() error {
	p.mem.regs[p.clr] = p.mask
	return nil
}
