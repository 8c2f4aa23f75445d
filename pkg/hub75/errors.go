package hub75

import "errors"

// Configuration errors are reported at construction time only; a
// correctly constructed display has no runtime failure path besides
// pin I/O errors and context cancellation.
var (
	// ErrGeometry indicates invalid panel dimensions or color depth.
	ErrGeometry = errors.New("hub75: invalid geometry")
	// ErrAddressLines indicates the panel needs more address lines than are wired.
	ErrAddressLines = errors.New("hub75: not enough address lines wired")
	// ErrPins indicates a required pin is missing from the bundle.
	ErrPins = errors.New("hub75: incomplete pin bundle")
	// ErrNoFrames indicates an animation was constructed without source frames.
	ErrNoFrames = errors.New("hub75: animation has no frames")
	// ErrDuration indicates an animation was constructed with a non-positive duration.
	ErrDuration = errors.New("hub75: animation duration must be positive")
	// ErrFrameSize indicates animation source frames with mismatched dimensions.
	ErrFrameSize = errors.New("hub75: animation frames differ in size")
)
