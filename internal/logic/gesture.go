package logic

import "time"

// Default gesture thresholds.
const (
	DefaultHoldProgress = 500 * time.Millisecond
	DefaultHoldConfirm  = 3000 * time.Millisecond
)

// Classifier turns the debounced button level into gestures.
type Classifier struct {
	progress   time.Duration
	confirm    time.Duration
	state      ButtonState
	pressStart time.Time
}

// NewClassifier creates a Classifier. progress is the hold duration after
// which HoldProgress events start, confirm is the hold duration that
// completes the hold gesture.
func NewClassifier(progress, confirm time.Duration) *Classifier {
	return &Classifier{
		progress: progress,
		confirm:  confirm,
		state:    ButtonIdle,
	}
}

// Update takes the current stable level and returns the gestures it produced.
// While held between the progress and confirm thresholds a HoldProgress is
// returned on every call. On the call that crosses the confirm threshold both
// HoldProgress and HoldComplete are returned, in that order.
func (c *Classifier) Update(pressed bool, now time.Time) []Gesture {
	if c.state == ButtonIdle {
		if pressed {
			c.state = ButtonPressed
			c.pressStart = now
		}
		return nil
	}

	held := now.Sub(c.pressStart)

	if !pressed {
		// Released
		prev := c.state
		c.state = ButtonIdle
		c.pressStart = time.Time{}
		switch {
		case held < c.progress:
			return []Gesture{{Timestamp: now, Type: GestureShortPress, Held: held}}
		case prev != ButtonHeldConfirmed:
			return []Gesture{{Timestamp: now, Type: GestureHoldCancelled, Held: held}}
		default:
			return nil
		}
	}

	if c.state == ButtonHeldConfirmed {
		return nil
	}

	var gestures []Gesture
	if held >= c.progress {
		gestures = append(gestures, Gesture{Timestamp: now, Type: GestureHoldProgress, Held: held})
	}
	if held >= c.confirm {
		c.state = ButtonHeldConfirmed
		gestures = append(gestures, Gesture{Timestamp: now, Type: GestureHoldComplete, Held: held})
	}
	return gestures
}

// State returns the current classifier state.
func (c *Classifier) State() ButtonState {
	return c.state
}

// Confirm returns the hold-confirm threshold.
func (c *Classifier) Confirm() time.Duration {
	return c.confirm
}

// Progress returns held as a fraction of the confirm threshold, clamped to [0, 1].
func (c *Classifier) Progress(held time.Duration) float64 {
	if c.confirm <= 0 || held >= c.confirm {
		return 1
	}
	if held <= 0 {
		return 0
	}
	return float64(held) / float64(c.confirm)
}
