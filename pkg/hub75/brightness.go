package hub75

// Brightness scales every bitplane hold duration, 0 (dark) to 255
// (full). Arithmetic saturates at the bounds instead of wrapping.
type Brightness uint8

const (
	// MinBrightness turns the panel fully dark.
	MinBrightness Brightness = 0
	// MaxBrightness disables scaling.
	MaxBrightness Brightness = 255
	// DefaultBrightness is 50%.
	DefaultBrightness Brightness = 128
)

// Add raises the level, saturating at 255.
func (b Brightness) Add(n uint8) Brightness {
	if uint16(b)+uint16(n) > 255 {
		return MaxBrightness
	}
	return b + Brightness(n)
}

// Sub lowers the level, saturating at 0.
func (b Brightness) Sub(n uint8) Brightness {
	if uint8(b) < n {
		return MinBrightness
	}
	return b - Brightness(n)
}
