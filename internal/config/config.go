// Package config holds the barometer configuration. Values come from
// defaults, an optional .env file, BAROMETER_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"

	"github.com/sweeney/barometer/internal/gpio"
	"github.com/sweeney/barometer/internal/logic"
	"github.com/sweeney/barometer/internal/units"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Display drivers.
const (
	DisplaySSD1306 = "ssd1306"
	DisplayLog     = "log"
)

// EnvPrefix prefixes every environment variable name.
const EnvPrefix = "BAROMETER_"

// Config contains all runtime settings.
type Config struct {
	// Schedule is the cron spec of the periodic measurement tick.
	Schedule string
	// Poll is the button polling interval of the control loop.
	Poll time.Duration
	// Heartbeat is the status log interval (0 disables).
	Heartbeat time.Duration

	Debounce     time.Duration
	HoldProgress time.Duration
	HoldConfirm  time.Duration
	// ConfirmFor is how long the reset confirmation stays on screen.
	ConfirmFor time.Duration

	TrendGate   time.Duration
	TrendFast   float64
	TrendSteady float64
	SeaLevelHPa float64

	I2CBus      string
	GPIOChip    string
	ButtonPin   int
	StoragePath string
	Display     string

	LogLevel string
	LogJSON  bool
}

// Default returns the factory configuration.
func Default() Config {
	return Config{
		Schedule:     "@every 3m",
		Poll:         10 * time.Millisecond,
		Heartbeat:    15 * time.Minute,
		Debounce:     logic.DefaultDebounce,
		HoldProgress: logic.DefaultHoldProgress,
		HoldConfirm:  logic.DefaultHoldConfirm,
		ConfirmFor:   2 * time.Second,
		TrendGate:    logic.DefaultTrendGate,
		TrendFast:    logic.DefaultThresholds.Fast,
		TrendSteady:  logic.DefaultThresholds.Steady,
		SeaLevelHPa:  units.StandardSeaLevelHPa,
		I2CBus:       "",
		GPIOChip:     gpio.DefaultChip,
		ButtonPin:    gpio.DefaultButton,
		StoragePath:  "/var/lib/barometer/eeprom.bin",
		Display:      DisplaySSD1306,
		LogLevel:     "info",
		LogJSON:      true,
	}
}

// Load loads .env files (missing files are ignored) and then applies the
// process environment on top of the defaults.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(Default(), os.Getenv)
}

// FromEnv applies BAROMETER_* variables read through getenv to base.
func FromEnv(base Config, getenv func(string) string) (Config, error) {
	e := envReader{getenv: getenv}
	c := base

	c.Schedule = e.getString("SCHEDULE", c.Schedule)
	c.Poll = e.getDuration("POLL", c.Poll)
	c.Heartbeat = e.getDuration("HEARTBEAT", c.Heartbeat)
	c.Debounce = e.getDuration("DEBOUNCE", c.Debounce)
	c.HoldProgress = e.getDuration("HOLD_PROGRESS", c.HoldProgress)
	c.HoldConfirm = e.getDuration("HOLD_CONFIRM", c.HoldConfirm)
	c.ConfirmFor = e.getDuration("CONFIRM_FOR", c.ConfirmFor)
	c.TrendGate = e.getDuration("TREND_GATE", c.TrendGate)
	c.TrendFast = e.getFloat("TREND_FAST", c.TrendFast)
	c.TrendSteady = e.getFloat("TREND_STEADY", c.TrendSteady)
	c.SeaLevelHPa = e.getFloat("SEA_LEVEL_HPA", c.SeaLevelHPa)
	c.I2CBus = e.getString("I2C_BUS", c.I2CBus)
	c.GPIOChip = e.getString("GPIO_CHIP", c.GPIOChip)
	c.ButtonPin = e.getInt("BUTTON_PIN", c.ButtonPin)
	c.StoragePath = e.getString("STORAGE", c.StoragePath)
	c.Display = e.getString("DISPLAY", c.Display)
	c.LogLevel = e.getString("LOG_LEVEL", c.LogLevel)
	c.LogJSON = e.getBool("LOG_JSON", c.LogJSON)

	if err := errors.Join(e.errs...); err != nil {
		return Config{}, err
	}
	return c, nil
}

// BindFlags registers a flag for every setting, defaulting to the values in c.
func BindFlags(fs *pflag.FlagSet, c *Config) {
	fs.StringVar(&c.Schedule, "schedule", c.Schedule, `Measurement schedule (cron spec or "@every 3m")`)
	fs.DurationVar(&c.Poll, "poll", c.Poll, "Button polling interval")
	fs.DurationVar(&c.Heartbeat, "heartbeat", c.Heartbeat, "Status log interval (0 to disable)")
	fs.DurationVar(&c.Debounce, "debounce", c.Debounce, "Button debounce window")
	fs.DurationVar(&c.HoldProgress, "hold-progress", c.HoldProgress, "Hold time before the reset countdown shows")
	fs.DurationVar(&c.HoldConfirm, "hold-confirm", c.HoldConfirm, "Hold time that resets the minimum")
	fs.DurationVar(&c.ConfirmFor, "confirm-for", c.ConfirmFor, "How long the reset confirmation is shown")
	fs.DurationVar(&c.TrendGate, "trend-gate", c.TrendGate, "Observation period before a trend is shown")
	fs.Float64Var(&c.TrendFast, "trend-fast", c.TrendFast, "Slope (mmHg per window) for a fast trend")
	fs.Float64Var(&c.TrendSteady, "trend-steady", c.TrendSteady, "Slope (mmHg per window) below which pressure is stable")
	fs.Float64Var(&c.SeaLevelHPa, "sea-level", c.SeaLevelHPa, "Sea-level reference pressure in hPa for altitude")
	fs.StringVar(&c.I2CBus, "i2c-bus", c.I2CBus, "I2C bus name (empty for the first bus)")
	fs.StringVar(&c.GPIOChip, "gpio-chip", c.GPIOChip, "GPIO chip of the button")
	fs.IntVar(&c.ButtonPin, "pin-button", c.ButtonPin, "Line offset (BCM pin) of the button")
	fs.StringVar(&c.StoragePath, "storage", c.StoragePath, "Path of the persistent storage image")
	fs.StringVar(&c.Display, "display", c.Display, `Display driver ("ssd1306" or "log")`)
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level")
	fs.BoolVar(&c.LogJSON, "log-json", c.LogJSON, "Log as JSON")
}

// Validate checks that the settings are usable together.
func (c Config) Validate() error {
	var errs []error
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"poll", c.Poll},
		{"debounce", c.Debounce},
		{"hold-progress", c.HoldProgress},
		{"hold-confirm", c.HoldConfirm},
		{"confirm-for", c.ConfirmFor},
	}
	for _, p := range positive {
		if p.d <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.d))
		}
	}
	if c.Heartbeat < 0 || c.TrendGate < 0 {
		errs = append(errs, fmt.Errorf("%w: heartbeat and trend-gate must not be negative", ErrInvalid))
	}
	if c.Debounce >= c.HoldProgress || c.HoldProgress >= c.HoldConfirm {
		errs = append(errs, fmt.Errorf("%w: durations must ascend: debounce %v < hold-progress %v < hold-confirm %v",
			ErrInvalid, c.Debounce, c.HoldProgress, c.HoldConfirm))
	}
	if c.TrendSteady <= 0 || c.TrendFast <= c.TrendSteady {
		errs = append(errs, fmt.Errorf("%w: need 0 < trend-steady (%v) < trend-fast (%v)", ErrInvalid, c.TrendSteady, c.TrendFast))
	}
	if c.SeaLevelHPa <= 0 {
		errs = append(errs, fmt.Errorf("%w: sea-level must be positive, got %v", ErrInvalid, c.SeaLevelHPa))
	}
	if c.Display != DisplaySSD1306 && c.Display != DisplayLog {
		errs = append(errs, fmt.Errorf("%w: unknown display %q", ErrInvalid, c.Display))
	}
	if c.StoragePath == "" {
		errs = append(errs, fmt.Errorf("%w: storage path is empty", ErrInvalid))
	}
	if _, err := c.ParseSchedule(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseSchedule parses Schedule with the standard cron parser.
func (c Config) ParseSchedule() (cron.Schedule, error) {
	s, err := cron.ParseStandard(c.Schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %v", ErrInvalid, c.Schedule, err)
	}
	return s, nil
}

// Thresholds returns the trend classification thresholds.
func (c Config) Thresholds() logic.Thresholds {
	return logic.Thresholds{Fast: c.TrendFast, Steady: c.TrendSteady}
}

// envReader reads prefixed variables and collects parse errors.
type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) lookup(key string) (string, bool) {
	v := e.getenv(EnvPrefix + key)
	return v, v != ""
}

func (e *envReader) getString(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e *envReader) getDuration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err))
		return def
	}
	return d
}

func (e *envReader) getFloat(key string, def float64) float64 {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err))
		return def
	}
	return f
}

func (e *envReader) getInt(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err))
		return def
	}
	return n
}

func (e *envReader) getBool(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err))
		return def
	}
	return b
}
