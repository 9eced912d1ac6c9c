// Package gpio provides button input reading with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the button level.
type Reader interface {
	// Read returns the logical button state (true = pressed).
	// The raw GPIO value is inverted: the contact pulls the line to ground,
	// so raw inactive (0) = pressed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Default line definitions.
const (
	DefaultChip   = "gpiochip0"
	DefaultButton = 17 // BCM numbering
)
