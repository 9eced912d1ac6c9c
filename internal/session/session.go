// Package session runs the barometer's control loop: it turns debounced
// button input into gestures, samples the sensor on a schedule, keeps the
// persistent minimum and trend current and decides what the display shows.
//
// The controller is single-threaded and time-injected. All blocking I/O
// happens behind the sensor, display and storage interfaces.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sweeney/barometer/internal/display"
	"github.com/sweeney/barometer/internal/logic"
	"github.com/sweeney/barometer/internal/record"
	"github.com/sweeney/barometer/internal/sensor"
	"github.com/sweeney/barometer/internal/status"
	"github.com/sweeney/barometer/internal/units"
)

// Deps are the collaborators of a Controller.
type Deps struct {
	Sensor   sensor.Sensor
	Display  display.Display
	Minimum  *record.Tracker
	Schedule cron.Schedule
	Logger   *zap.Logger
}

// Options tune the controller's timing and classification.
type Options struct {
	Debounce     time.Duration
	HoldProgress time.Duration
	HoldConfirm  time.Duration
	// ConfirmFor is how long the reset confirmation stays on screen.
	ConfirmFor time.Duration
	// Splash is how long the ready screen is shown after Start (0 skips it).
	Splash     time.Duration
	TrendGate  time.Duration
	Thresholds logic.Thresholds
	// Info is reported unchanged in snapshots.
	Info status.Config
}

// DefaultOptions returns the stock timing.
func DefaultOptions() Options {
	return Options{
		Debounce:     logic.DefaultDebounce,
		HoldProgress: logic.DefaultHoldProgress,
		HoldConfirm:  logic.DefaultHoldConfirm,
		ConfirmFor:   2 * time.Second,
		Splash:       1500 * time.Millisecond,
		TrendGate:    logic.DefaultTrendGate,
		Thresholds:   logic.DefaultThresholds,
	}
}

// Controller owns the session state. It is not safe for concurrent use.
type Controller struct {
	deps Deps
	opts Options
	log  *zap.Logger

	debouncer  *logic.Debouncer
	classifier *logic.Classifier
	trend      *logic.TrendEstimator

	started   time.Time
	nextTick  time.Time
	displayOn bool
	// panelOn tracks the hardware state, which a hold may force on.
	panelOn bool

	// holding is set while the reset progress screen is up.
	holding bool
	// overlayUntil is non-zero while a timed screen is shown.
	overlayUntil time.Time

	reading   sensor.Reading
	haveValid bool
	lastValid time.Time
	sensorOK  bool
	counts    status.Counts
}

// New creates a controller. Start must be called before Poll.
func New(deps Deps, opts Options) *Controller {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		deps:       deps,
		opts:       opts,
		log:        log,
		debouncer:  logic.NewDebouncer(opts.Debounce),
		classifier: logic.NewClassifier(opts.HoldProgress, opts.HoldConfirm),
		trend:      logic.NewTrendEstimator(opts.TrendGate, opts.Thresholds),
		displayOn:  true,
		panelOn:    true,
	}
}

// Start loads the persistent minimum, takes the first measurement and
// shows it, after the ready screen when a splash duration is set.
func (c *Controller) Start(now time.Time) error {
	st, err := c.deps.Minimum.Load()
	if err != nil {
		return fmt.Errorf("load minimum: %w", err)
	}
	c.log.Info("minimum loaded",
		zap.String("status", string(st)),
		zap.Float64("value", c.deps.Minimum.Value()))

	c.started = now
	c.nextTick = c.deps.Schedule.Next(now)
	c.measure(now)

	if c.opts.Splash > 0 {
		c.render(ReadyScene())
		c.overlayUntil = now.Add(c.opts.Splash)
		return nil
	}
	c.render(c.current(now))
	return nil
}

// Poll runs one control loop iteration with the raw button level.
func (c *Controller) Poll(pressed bool, now time.Time) {
	stable := c.debouncer.Poll(pressed, now)
	for _, g := range c.classifier.Update(stable, now) {
		c.handle(g)
	}

	if !c.overlayUntil.IsZero() && !now.Before(c.overlayUntil) {
		c.overlayUntil = time.Time{}
		c.restore(now)
	}

	if !now.Before(c.nextTick) {
		c.tick(now)
		c.nextTick = c.deps.Schedule.Next(now)
	}
}

// DisplayOn reports the user-selected display power state.
func (c *Controller) DisplayOn() bool {
	return c.displayOn
}

// Shutdown blanks the panel and switches it off.
func (c *Controller) Shutdown() {
	c.overlayUntil = time.Time{}
	c.holding = false
	c.render(BlankScene())
	c.power(false)
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot(now time.Time) status.Snapshot {
	snap := status.Snapshot{
		StartTime:          c.started,
		Now:                now,
		DisplayOn:          c.displayOn,
		Button:             c.classifier.State(),
		Minimum:            c.deps.Minimum.Value(),
		MinimumInitialized: c.deps.Minimum.Initialized(),
		Trend:              c.trend.Estimate(now),
		Counts:             c.counts,
		Config:             c.opts.Info,
	}
	if c.haveValid {
		r := c.reading
		snap.Reading = &r
		snap.LastSample = c.lastValid
	}
	return snap
}

func (c *Controller) handle(g logic.Gesture) {
	c.overlayUntil = time.Time{}

	switch g.Type {
	case logic.GestureShortPress:
		c.holding = false
		c.displayOn = !c.displayOn
		c.log.Info("display toggled", zap.Bool("on", c.displayOn))
		c.restore(g.Timestamp)

	case logic.GestureHoldProgress:
		if !c.holding {
			c.log.Debug("minimum reset hold started")
		}
		c.holding = true
		if !c.displayOn {
			c.power(true)
		}
		c.render(ResetProgressScene(g.Held, c.classifier.Confirm()))

	case logic.GestureHoldComplete:
		c.holding = false
		c.resetMinimum(g.Timestamp)

	case logic.GestureHoldCancelled:
		c.holding = false
		c.log.Info("minimum reset cancelled", zap.Duration("held", g.Held))
		c.restore(g.Timestamp)
	}
}

func (c *Controller) resetMinimum(now time.Time) {
	if !c.haveValid {
		c.log.Warn("minimum reset skipped: no valid reading yet")
		c.restore(now)
		return
	}
	if !c.sensorOK {
		c.log.Warn("minimum reset skipped: sensor unavailable",
			zap.Float64("last_valid_c", c.reading.Temperature),
			zap.Time("last_valid_at", c.lastValid))
		c.restore(now)
		return
	}

	err := c.deps.Minimum.ResetTo(c.reading.Temperature)
	c.counts.MinimumResets++
	if err != nil {
		c.counts.PersistErrors++
		c.log.Error("minimum not saved", zap.Error(err))
	}
	c.log.Info("minimum reset", zap.Float64("value", c.deps.Minimum.Value()))

	c.render(ResetDoneScene(c.deps.Minimum.Value()))
	c.overlayUntil = now.Add(c.opts.ConfirmFor)
}

func (c *Controller) tick(now time.Time) {
	c.measure(now)
	if c.holding || !c.overlayUntil.IsZero() || !c.displayOn {
		return
	}
	c.render(c.current(now))
}

// measure samples the sensor and feeds a valid reading to the trend
// estimator and the minimum tracker.
func (c *Controller) measure(now time.Time) {
	c.counts.Samples++
	r, err := c.deps.Sensor.Sample()
	if err != nil {
		c.sensorOK = false
		c.counts.SensorErrors++
		if errors.Is(err, sensor.ErrInvalidReading) {
			c.log.Warn("invalid sensor reading", zap.Error(err))
		} else {
			c.log.Error("sample sensor", zap.Error(err))
		}
		return
	}

	c.sensorOK = true
	c.reading = r
	c.haveValid = true
	c.lastValid = now

	c.trend.Record(units.PascalToMmHg(r.Pressure), now)

	changed, err := c.deps.Minimum.Observe(r.Temperature)
	if err != nil {
		c.counts.PersistErrors++
		c.log.Error("minimum not saved", zap.Error(err))
	}
	if changed {
		c.log.Info("new minimum", zap.Float64("value", c.deps.Minimum.Value()))
	}

	c.log.Debug("sample",
		zap.Float64("temperature_c", r.Temperature),
		zap.Float64("pressure_pa", r.Pressure),
		zap.Float64("humidity_pct", r.Humidity))
}

func (c *Controller) current(now time.Time) display.Scene {
	if !c.sensorOK {
		return SensorErrorScene()
	}
	return MeasurementsScene(c.reading, c.deps.Minimum.Value(), c.deps.Minimum.Initialized(), c.trend.Estimate(now))
}

// restore shows what belongs on the panel for the current power state.
func (c *Controller) restore(now time.Time) {
	if c.displayOn {
		c.power(true)
		c.render(c.current(now))
		return
	}
	c.render(BlankScene())
	c.power(false)
}

func (c *Controller) render(scene display.Scene) {
	if err := c.deps.Display.Render(scene); err != nil {
		c.log.Warn("render", zap.String("scene", scene.Name), zap.Error(err))
	}
}

func (c *Controller) power(on bool) {
	if c.panelOn == on {
		return
	}
	if err := c.deps.Display.Power(on); err != nil {
		c.log.Warn("display power", zap.Bool("on", on), zap.Error(err))
		return
	}
	c.panelOn = on
}
