package storage

import (
	"bytes"
	"errors"
)

// Memory is an in-memory Storage for tests. It can simulate failed and
// torn writes.
type Memory struct {
	// Image is the raw storage contents.
	Image []byte

	// Writes counts successful Write calls.
	Writes int

	// WriteError, if set, is returned by Write without modifying Image.
	WriteError error

	// TearAt, if > 0, counts down on every Write. The Write that brings it
	// to zero stores only the first TearBytes bytes and returns ErrTorn.
	TearAt    int
	TearBytes int

	// Closed tracks if Close was called.
	Closed bool
}

// ErrTorn is returned by Memory.Write when a torn write is simulated.
var ErrTorn = errors.New("storage: torn write")

// NewMemory creates an erased in-memory image of the given size.
func NewMemory(size int) *Memory {
	return &Memory{Image: bytes.Repeat([]byte{Erased}, size)}
}

// Read returns n bytes starting at addr.
func (m *Memory) Read(addr, n int) ([]byte, error) {
	if err := checkRange(addr, n, len(m.Image)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.Image[addr:addr+n])
	return out, nil
}

// Write stores b at addr, honouring the injected failures.
func (m *Memory) Write(addr int, b []byte) error {
	if err := checkRange(addr, len(b), len(m.Image)); err != nil {
		return err
	}
	if m.WriteError != nil {
		return m.WriteError
	}
	if m.TearAt > 0 {
		m.TearAt--
		if m.TearAt == 0 {
			n := min(m.TearBytes, len(b))
			copy(m.Image[addr:], b[:n])
			return ErrTorn
		}
	}
	copy(m.Image[addr:], b)
	m.Writes++
	return nil
}

// Close marks the storage as closed.
func (m *Memory) Close() error {
	m.Closed = true
	return nil
}
