// Package record keeps the all-time minimum temperature in persistent storage.
//
// Layout (byte addresses):
//
//	0..3  value, float32 little-endian
//	4     init marker, Sentinel when written
//
// Every update erases the marker, writes the value and then writes the
// marker again. A write torn at any point therefore reads back as
// uninitialized storage, never as a wrong minimum.
package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/sweeney/barometer/internal/storage"
)

// Storage addresses and markers.
const (
	AddrValue  = 0
	AddrMarker = 4

	// Sentinel marks an initialized record.
	Sentinel byte = 0xAA

	// Unset is the placeholder minimum for uninitialized storage. Any real
	// reading is lower.
	Unset = 999.0
)

// ErrInvalidValue is returned when a non-finite value is stored.
var ErrInvalidValue = errors.New("record: value is not a finite number")

// Status describes what Load found in storage.
type Status string

const (
	// StatusLoaded means a validated minimum was read.
	StatusLoaded Status = "LOADED"
	// StatusUninitialized means first-boot or unreadable storage; the
	// in-memory minimum was seeded with Unset.
	StatusUninitialized Status = "UNINITIALIZED"
)

// Tracker owns the persistent minimum temperature.
// Not safe for concurrent use.
type Tracker struct {
	store       storage.Storage
	value       float64
	initialized bool

	// dirty is set while the in-memory minimum has not reached storage.
	dirty bool
}

// NewTracker creates a Tracker over store. Call Load before use.
func NewTracker(store storage.Storage) *Tracker {
	return &Tracker{store: store, value: Unset}
}

// Load reads the record from storage. Uninitialized storage is not an
// error: the minimum is seeded with Unset and storage is left untouched.
func (t *Tracker) Load() (Status, error) {
	raw, err := t.store.Read(AddrValue, AddrMarker+1)
	if err != nil {
		return "", fmt.Errorf("load minimum: %w", err)
	}

	valueBytes := raw[AddrValue : AddrValue+4]
	v := float64(math.Float32frombits(binary.LittleEndian.Uint32(valueBytes)))

	if raw[AddrMarker] != Sentinel || !finite(v) {
		t.value = Unset
		t.initialized = false
		return StatusUninitialized, nil
	}

	t.value = v
	t.initialized = true
	return StatusLoaded, nil
}

// Observe records a new reading. The minimum is lowered and persisted when
// v is below it; non-finite readings are ignored. A minimum that failed to
// persist earlier is written again on the next call. It reports whether the
// in-memory minimum changed, even when persisting it failed.
func (t *Tracker) Observe(v float64) (bool, error) {
	if finite(v) && v < t.value {
		return true, t.set(v)
	}
	if t.dirty {
		return false, t.persist()
	}
	return false, nil
}

// ResetTo sets the minimum to exactly v and persists it.
func (t *Tracker) ResetTo(v float64) error {
	if !finite(v) {
		return ErrInvalidValue
	}
	return t.set(v)
}

// Clear invalidates the stored record so the next Load sees first-boot storage.
func (t *Tracker) Clear() error {
	if err := t.store.Write(AddrMarker, []byte{storage.Erased}); err != nil {
		return fmt.Errorf("clear minimum: %w", err)
	}
	t.value = Unset
	t.initialized = false
	t.dirty = false
	return nil
}

// Dirty reports whether the in-memory minimum is still waiting to be
// persisted after a failed write.
func (t *Tracker) Dirty() bool {
	return t.dirty
}

// Value returns the in-memory minimum.
func (t *Tracker) Value() float64 {
	return t.value
}

// Initialized reports whether the minimum holds a real reading.
func (t *Tracker) Initialized() bool {
	return t.initialized
}

func (t *Tracker) set(v float64) error {
	// The in-memory value follows the reading even if persisting fails;
	// dirty keeps it queued for the next Observe.
	t.value = v
	t.initialized = true
	t.dirty = true
	return t.persist()
}

// persist writes the in-memory minimum and clears dirty on success.
func (t *Tracker) persist() error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(t.value)))

	if err := t.store.Write(AddrMarker, []byte{storage.Erased}); err != nil {
		return fmt.Errorf("invalidate marker: %w", err)
	}
	if err := t.store.Write(AddrValue, buf); err != nil {
		return fmt.Errorf("persist minimum: %w", err)
	}
	if err := t.store.Write(AddrMarker, []byte{Sentinel}); err != nil {
		return fmt.Errorf("persist marker: %w", err)
	}
	t.dirty = false
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
