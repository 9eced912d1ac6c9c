package logic

import (
	"testing"
	"time"
)

// pressFor drives the classifier with pressed=true every step from start until
// start+d, then releases. It returns all gestures in order.
func pressFor(c *Classifier, start time.Time, d, step time.Duration) []Gesture {
	var out []Gesture
	for at := time.Duration(0); at <= d; at += step {
		out = append(out, c.Update(true, start.Add(at))...)
	}
	out = append(out, c.Update(false, start.Add(d+step))...)
	return out
}

func countType(gs []Gesture, typ GestureType) int {
	n := 0
	for _, g := range gs {
		if g.Type == typ {
			n++
		}
	}
	return n
}

func TestNewClassifier(t *testing.T) {
	c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
	if c.State() != ButtonIdle {
		t.Errorf("expected IDLE, got %s", c.State())
	}
	if c.Confirm() != 3*time.Second {
		t.Errorf("expected confirm 3s, got %v", c.Confirm())
	}
}

func TestShortPress(t *testing.T) {
	c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if gs := c.Update(true, now); len(gs) != 0 {
		t.Fatalf("expected no gestures on press, got %v", gs)
	}
	if c.State() != ButtonPressed {
		t.Errorf("expected PRESSED, got %s", c.State())
	}

	gs := c.Update(false, now.Add(200*time.Millisecond))
	if len(gs) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(gs))
	}
	if gs[0].Type != GestureShortPress {
		t.Errorf("expected SHORT_PRESS, got %s", gs[0].Type)
	}
	if gs[0].Held != 200*time.Millisecond {
		t.Errorf("expected held 200ms, got %v", gs[0].Held)
	}
	if c.State() != ButtonIdle {
		t.Errorf("expected IDLE after release, got %s", c.State())
	}
}

func TestReleaseBeforeProgressNeverCancels(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, d := range []time.Duration{0, 10 * time.Millisecond, 250 * time.Millisecond, 480 * time.Millisecond} {
		c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
		gs := pressFor(c, start, d, 10*time.Millisecond)
		if countType(gs, GestureShortPress) != 1 {
			t.Errorf("held %v: expected 1 SHORT_PRESS, got %v", d, gs)
		}
		if countType(gs, GestureHoldCancelled) != 0 {
			t.Errorf("held %v: unexpected HOLD_CANCELLED", d)
		}
		if countType(gs, GestureHoldProgress) != 0 {
			t.Errorf("held %v: unexpected HOLD_PROGRESS", d)
		}
	}
}

func TestHoldProgressIsContinuous(t *testing.T) {
	c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c.Update(true, now)
	if gs := c.Update(true, now.Add(499*time.Millisecond)); len(gs) != 0 {
		t.Fatalf("expected no progress before threshold, got %v", gs)
	}

	for i, at := range []time.Duration{500, 600, 700, 1500} {
		gs := c.Update(true, now.Add(at*time.Millisecond))
		if len(gs) != 1 || gs[0].Type != GestureHoldProgress {
			t.Fatalf("poll %d: expected HOLD_PROGRESS, got %v", i, gs)
		}
		if gs[0].Held != at*time.Millisecond {
			t.Errorf("poll %d: expected held %v, got %v", i, at*time.Millisecond, gs[0].Held)
		}
	}
}

func TestHoldCompleteFiresOnce(t *testing.T) {
	c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Hold far past the confirm threshold
	gs := pressFor(c, start, 10*time.Second, 20*time.Millisecond)
	if n := countType(gs, GestureHoldComplete); n != 1 {
		t.Errorf("expected exactly 1 HOLD_COMPLETE, got %d", n)
	}
	if n := countType(gs, GestureHoldCancelled); n != 0 {
		t.Errorf("expected no HOLD_CANCELLED after confirmation, got %d", n)
	}
	if n := countType(gs, GestureShortPress); n != 0 {
		t.Errorf("expected no SHORT_PRESS, got %d", n)
	}
	if c.State() != ButtonIdle {
		t.Errorf("expected IDLE after release, got %s", c.State())
	}
}

func TestHoldCrossingConfirmEmitsProgressThenComplete(t *testing.T) {
	c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c.Update(true, now)
	gs := c.Update(true, now.Add(3*time.Second))
	if len(gs) != 2 {
		t.Fatalf("expected 2 gestures, got %v", gs)
	}
	if gs[0].Type != GestureHoldProgress || gs[1].Type != GestureHoldComplete {
		t.Errorf("expected HOLD_PROGRESS then HOLD_COMPLETE, got %s, %s", gs[0].Type, gs[1].Type)
	}
	if c.State() != ButtonHeldConfirmed {
		t.Errorf("expected HELD_CONFIRMED, got %s", c.State())
	}

	// No progress after confirmation
	if gs := c.Update(true, now.Add(3500*time.Millisecond)); len(gs) != 0 {
		t.Errorf("expected no gestures while confirmed, got %v", gs)
	}
}

func TestHoldCancelled(t *testing.T) {
	c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	gs := pressFor(c, start, 1200*time.Millisecond, 100*time.Millisecond)
	last := gs[len(gs)-1]
	if last.Type != GestureHoldCancelled {
		t.Errorf("expected last gesture HOLD_CANCELLED, got %s", last.Type)
	}
	if countType(gs, GestureHoldComplete) != 0 {
		t.Error("unexpected HOLD_COMPLETE")
	}
}

func TestHoldCompleteEachPressCycle(t *testing.T) {
	c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first := pressFor(c, start, 3200*time.Millisecond, 100*time.Millisecond)
	second := pressFor(c, start.Add(time.Minute), 3200*time.Millisecond, 100*time.Millisecond)
	if countType(first, GestureHoldComplete) != 1 || countType(second, GestureHoldComplete) != 1 {
		t.Errorf("expected one HOLD_COMPLETE per press cycle, got %d and %d",
			countType(first, GestureHoldComplete), countType(second, GestureHoldComplete))
	}
}

func TestClassifierProgress(t *testing.T) {
	c := NewClassifier(DefaultHoldProgress, DefaultHoldConfirm)
	tests := []struct {
		held time.Duration
		want float64
	}{
		{-time.Second, 0},
		{0, 0},
		{1500 * time.Millisecond, 0.5},
		{3 * time.Second, 1},
		{5 * time.Second, 1},
	}
	for _, tt := range tests {
		if got := c.Progress(tt.held); got != tt.want {
			t.Errorf("Progress(%v) = %v, want %v", tt.held, got, tt.want)
		}
	}
}
