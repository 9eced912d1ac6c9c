//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: button input requires the Linux character device")

// RealReader is a placeholder so the command builds off-target.
type RealReader struct{}

func NewRealReader(chipName string, offset int) (*RealReader, error) {
	return nil, errUnsupported
}

func (r *RealReader) Read() (bool, error) { return false, errUnsupported }

func (r *RealReader) Close() error { return nil }
