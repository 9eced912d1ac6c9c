// Package logic contains the pure control logic of the barometer: button
// debouncing, gesture classification and pressure trend estimation.
// This package has NO external dependencies (no GPIO, I2C, storage, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// ButtonState is the state of the gesture classifier.
type ButtonState string

const (
	ButtonIdle          ButtonState = "IDLE"
	ButtonPressed       ButtonState = "PRESSED"
	ButtonHeldConfirmed ButtonState = "HELD_CONFIRMED"
)

// GestureType identifies a discrete button gesture.
type GestureType string

const (
	// GestureShortPress is emitted on release before the progress threshold.
	GestureShortPress GestureType = "SHORT_PRESS"
	// GestureHoldProgress is emitted on every poll while held past the
	// progress threshold and before confirmation.
	GestureHoldProgress GestureType = "HOLD_PROGRESS"
	// GestureHoldComplete is emitted once per press when the hold is confirmed.
	GestureHoldComplete GestureType = "HOLD_COMPLETE"
	// GestureHoldCancelled is emitted on release after the progress threshold
	// but before confirmation.
	GestureHoldCancelled GestureType = "HOLD_CANCELLED"
)

// Gesture is a classified button event.
type Gesture struct {
	Timestamp time.Time
	Type      GestureType
	// Held is how long the button had been held when the gesture fired.
	Held time.Duration
}

// TrendClass is the directional classification of the pressure slope.
type TrendClass string

const (
	TrendInsufficient TrendClass = "INSUFFICIENT_DATA"
	TrendRisingFast   TrendClass = "RISING_FAST"
	TrendRising       TrendClass = "RISING"
	TrendStable       TrendClass = "STABLE"
	TrendFalling      TrendClass = "FALLING"
	TrendFallingFast  TrendClass = "FALLING_FAST"
)

// Short returns the compact label used on the display.
func (c TrendClass) Short() string {
	switch c {
	case TrendRisingFast:
		return "Rise+"
	case TrendRising:
		return "Rise"
	case TrendStable:
		return "Stab"
	case TrendFalling:
		return "Fall"
	case TrendFallingFast:
		return "Fall+"
	default:
		return "Wait"
	}
}

// TrendEstimate is the latest derived pressure trend.
type TrendEstimate struct {
	// Slope is the least-squares slope scaled to change per full window.
	Slope float64
	// Ready is false until the minimum observation period has elapsed.
	Ready bool
	Class TrendClass
}

// Thresholds are the slope boundaries used by Classify.
// Fast must be greater than Steady; both are positive.
type Thresholds struct {
	Fast   float64
	Steady float64
}

// DefaultThresholds are tuned for pressure in mmHg per window.
var DefaultThresholds = Thresholds{Fast: 1.5, Steady: 0.5}
