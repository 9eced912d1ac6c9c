// Package storage provides byte-addressed persistent storage with an
// abstraction for testing. The real implementation keeps an EEPROM-style
// image in a file; the fake keeps it in memory.
package storage

import (
	"errors"
	"fmt"
)

// DefaultSize is the size of a storage image in bytes.
const DefaultSize = 1024

// Erased is the value of a byte that has never been written.
const Erased byte = 0xFF

// ErrOutOfRange is returned for accesses outside the image.
var ErrOutOfRange = errors.New("storage: address out of range")

// Storage reads and writes bytes at fixed addresses.
type Storage interface {
	// Read returns n bytes starting at addr.
	Read(addr, n int) ([]byte, error)

	// Write stores b starting at addr. The data is durable once Write returns.
	Write(addr int, b []byte) error

	// Close releases the underlying resources.
	Close() error
}

func checkRange(addr, n, size int) error {
	if addr < 0 || n < 0 || addr+n > size {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, addr, addr+n, size)
	}
	return nil
}
