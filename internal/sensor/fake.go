package sensor

import "errors"

// Fake is a test double that returns scripted readings.
type Fake struct {
	// Readings contains scripted readings to return.
	// Each call to Sample() consumes the next one.
	Readings []Reading

	// next is the index of the next unread reading
	next int

	// Calls counts Sample calls.
	Calls int

	// SampleError, if set, will be returned by Sample().
	SampleError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFake creates a Fake with the given readings.
func NewFake(readings ...Reading) *Fake {
	return &Fake{Readings: readings}
}

// Sample returns the next scripted reading.
// If readings are exhausted, returns the last reading repeatedly.
// Invalid readings are returned with ErrInvalidReading, like the real sensor.
func (f *Fake) Sample() (Reading, error) {
	f.Calls++
	if f.SampleError != nil {
		return Reading{}, f.SampleError
	}
	if len(f.Readings) == 0 {
		return Reading{}, errors.New("no readings configured")
	}

	r := f.Readings[len(f.Readings)-1]
	if f.next < len(f.Readings) {
		r = f.Readings[f.next]
		f.next++
	}
	if !r.Valid() {
		return r, ErrInvalidReading
	}
	return r, nil
}

// Push appends readings to the script. The next Sample returns the first
// pushed reading once the earlier ones are consumed.
func (f *Fake) Push(readings ...Reading) {
	f.Readings = append(f.Readings, readings...)
}

// Close marks the sensor as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}
