package gpio

import "errors"

// FakeReader is a test double that replays a scripted button level, one
// entry per poll.
type FakeReader struct {
	// Samples is the pressed level returned by successive Read calls.
	Samples []bool

	next int

	// Reads counts Read calls, including failed ones.
	Reads int

	// ReadError, if set, is returned by Read without consuming a sample.
	ReadError error

	Closed bool
}

// NewFakeReader creates a FakeReader with the given levels.
func NewFakeReader(samples []bool) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Hold appends n polls at the given level and returns f, so presses can be
// scripted as NewFakeReader(nil).Hold(true, 10).Hold(false, 10).
func (f *FakeReader) Hold(pressed bool, n int) *FakeReader {
	for i := 0; i < n; i++ {
		f.Samples = append(f.Samples, pressed)
	}
	return f
}

// Read returns the next scripted level. Once the script is exhausted the
// last level is held.
func (f *FakeReader) Read() (bool, error) {
	f.Reads++
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	level := f.Samples[len(f.Samples)-1]
	if f.next < len(f.Samples) {
		level = f.Samples[f.next]
		f.next++
	}
	return level, nil
}

// Remaining returns the number of unread scripted polls.
func (f *FakeReader) Remaining() int {
	return len(f.Samples) - f.next
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the script.
func (f *FakeReader) Reset() {
	f.next = 0
	f.Reads = 0
	f.Closed = false
}
