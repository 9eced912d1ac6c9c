package logic

import (
	"math"
	"time"
)

// TrendWindow is the number of pressure samples in the regression window.
const TrendWindow = 20

// DefaultTrendGate is the observation period before a trend is reported.
const DefaultTrendGate = time.Hour

// TrendEstimator keeps a ring of the last TrendWindow pressure samples and
// recomputes a least-squares slope every time the ring wraps.
// Not safe for concurrent use.
type TrendEstimator struct {
	samples    [TrendWindow]float64
	index      int
	gate       time.Duration
	thresholds Thresholds

	first   time.Time
	started bool
	slope   float64
	count   int
	cycles  int
}

// NewTrendEstimator creates an estimator that withholds classification until
// gate has elapsed since the first recorded sample.
func NewTrendEstimator(gate time.Duration, thresholds Thresholds) *TrendEstimator {
	return &TrendEstimator{
		gate:       gate,
		thresholds: thresholds,
	}
}

// Record stores one sample at the write index. Non-finite values are
// rejected and leave the estimator untouched.
func (t *TrendEstimator) Record(value float64, at time.Time) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	if !t.started {
		t.first = at
		t.started = true
	}

	t.samples[t.index] = value
	t.index = (t.index + 1) % TrendWindow
	t.count++

	if t.index == 0 {
		t.slope = regressionSlope(t.samples[:]) * TrendWindow
		t.cycles++
	}
	return true
}

// Estimate returns the retained slope and its classification at now.
func (t *TrendEstimator) Estimate(now time.Time) TrendEstimate {
	if !t.started || now.Sub(t.first) < t.gate {
		return TrendEstimate{Slope: t.slope, Class: TrendInsufficient}
	}
	return TrendEstimate{
		Slope: t.slope,
		Ready: true,
		Class: Classify(t.slope, t.thresholds),
	}
}

// Samples returns the number of accepted samples since creation.
func (t *TrendEstimator) Samples() int {
	return t.count
}

// Cycles returns how many full windows have been recomputed.
func (t *TrendEstimator) Cycles() int {
	return t.cycles
}

// Classify maps a per-window slope onto a TrendClass.
func Classify(slope float64, th Thresholds) TrendClass {
	switch {
	case slope > th.Fast:
		return TrendRisingFast
	case slope > th.Steady:
		return TrendRising
	case slope > -th.Steady:
		return TrendStable
	case slope > -th.Fast:
		return TrendFalling
	default:
		return TrendFallingFast
	}
}

// regressionSlope is the ordinary least-squares slope of ys against their index.
func regressionSlope(ys []float64) float64 {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	den := n*sumX2 - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}
