// Package status provides point-in-time snapshots of the barometer session.
// Snapshots are logged as heartbeats and printed by the status command.
package status

import (
	"time"

	"github.com/sweeney/barometer/internal/logic"
	"github.com/sweeney/barometer/internal/sensor"
)

// Config contains session configuration for display.
type Config struct {
	Schedule      string
	PollMs        int64
	DebounceMs    int64
	HoldConfirmMs int64
	TrendGateMs   int64
	Storage       string
}

// Counts tracks session activity since startup.
type Counts struct {
	Samples       int
	SensorErrors  int
	MinimumResets int
	PersistErrors int
}

// Snapshot is a point-in-time view of session state.
// It is a value type and safe to keep after the session moves on.
type Snapshot struct {
	StartTime time.Time
	Now       time.Time
	DisplayOn bool
	Button    logic.ButtonState

	// Reading is the last valid sample; nil until there is one.
	Reading    *sensor.Reading
	LastSample time.Time

	Minimum            float64
	MinimumInitialized bool

	Trend  logic.TrendEstimate
	Counts Counts
	Config Config
}

// Uptime returns the duration since the session started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}
