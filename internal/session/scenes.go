package session

import (
	"fmt"
	"math"
	"time"

	"github.com/sweeney/barometer/internal/display"
	"github.com/sweeney/barometer/internal/logic"
	"github.com/sweeney/barometer/internal/sensor"
	"github.com/sweeney/barometer/internal/units"
)

// Scene names.
const (
	SceneBoot          = "boot"
	SceneReady         = "ready"
	SceneSensorMissing = "sensor-missing"
	SceneMeasurements  = "measurements"
	SceneSensorError   = "sensor-error"
	SceneResetProgress = "reset-progress"
	SceneResetDone     = "reset-done"
	SceneBlank         = "blank"
)

// Reset progress bar geometry.
const (
	barX = 10
	barY = 45
	barW = 108
	barH = 10
)

// BootScene is shown before the sensor is probed.
func BootScene() display.Scene {
	return display.Scene{
		Name:  SceneBoot,
		Texts: []display.Text{{X: 15, Y: 25, Scale: 1, Value: "Initializing..."}},
	}
}

// ReadyScene is shown once the sensor has been found.
func ReadyScene() display.Scene {
	return display.Scene{
		Name:  SceneReady,
		Texts: []display.Text{{X: 20, Y: 25, Scale: 2, Value: "Ready!"}},
	}
}

// SensorMissingScene is shown when no sensor answers at startup.
func SensorMissingScene() display.Scene {
	return display.Scene{
		Name: SceneSensorMissing,
		Texts: []display.Text{
			{X: 0, Y: 0, Scale: 1, Value: "ERROR!"},
			{X: 0, Y: 12, Scale: 1, Value: "BME280 not found"},
			{X: 0, Y: 24, Scale: 1, Value: "Check wiring:"},
			{X: 0, Y: 36, Scale: 1, Value: "SDA, SCL on I2C"},
			{X: 0, Y: 48, Scale: 1, Value: "3.3V -> BME280"},
		},
	}
}

// SensorErrorScene is shown when a periodic sample is invalid.
func SensorErrorScene() display.Scene {
	return display.Scene{
		Name: SceneSensorError,
		Texts: []display.Text{
			{X: 10, Y: 5, Scale: 1, Value: "SENSOR ERROR"},
			{X: 5, Y: 20, Scale: 1, Value: "Check connection"},
			{X: 15, Y: 35, Scale: 1, Value: "BME280 and power"},
			{X: 25, Y: 50, Scale: 1, Value: "3.3V -> BME280"},
		},
	}
}

// MeasurementsScene lays out a valid reading, the recorded minimum and the
// pressure trend. An unset minimum is shown as "--.-".
func MeasurementsScene(r sensor.Reading, minimum float64, haveMin bool, trend logic.TrendEstimate) display.Scene {
	minText := "--.-"
	if haveMin {
		minText = fmt.Sprintf("%.1f", minimum)
	}
	slope := trend.Slope
	if math.Abs(slope) < 0.05 {
		// avoid printing -0.0
		slope = 0
	}
	altitude := "-- m"
	if !math.IsNaN(r.Altitude) {
		altitude = fmt.Sprintf("%.0f m", r.Altitude)
	}

	return display.Scene{
		Name: SceneMeasurements,
		Texts: []display.Text{
			{X: 0, Y: 0, Scale: 2, Value: fmt.Sprintf("%.1f", r.Temperature)},
			{X: 80, Y: 0, Scale: 2, Value: minText},
			{X: 0, Y: 22, Scale: 1, Value: fmt.Sprintf("Humid: %.0f%%", r.Humidity)},
			{X: 0, Y: 32, Scale: 1, Value: fmt.Sprintf("Press: %.1f mmHg", units.PascalToMmHg(r.Pressure))},
			{X: 0, Y: 42, Scale: 1, Value: fmt.Sprintf("Trend: %.1f (%s)", slope, trend.Class.Short())},
			{X: 0, Y: 52, Scale: 1, Value: "Alt:   " + altitude},
		},
		Rules: []display.Rule{{X: 0, Y: 18, W: display.Width}},
	}
}

// ResetProgressScene shows the seconds left until the hold confirms and a
// bar filled in proportion to held/confirm.
func ResetProgressScene(held, confirm time.Duration) display.Scene {
	remaining := int((confirm-held)/time.Second) + 1
	if remaining < 1 {
		remaining = 1
	}
	fill := 0
	if confirm > 0 {
		fill = int(int64(held) * barW / int64(confirm))
	}
	fill = min(max(fill, 0), barW)

	return display.Scene{
		Name: SceneResetProgress,
		Texts: []display.Text{
			{X: 10, Y: 10, Scale: 1, Value: "Reset Min Temp?"},
			{X: 10, Y: 25, Scale: 1, Value: fmt.Sprintf("Hold: %ds", remaining)},
		},
		Bars: []display.Bar{{X: barX, Y: barY, W: barW, H: barH, Fill: fill}},
	}
}

// ResetDoneScene confirms the new minimum.
func ResetDoneScene(minimum float64) display.Scene {
	return display.Scene{
		Name: SceneResetDone,
		Texts: []display.Text{
			{X: 15, Y: 15, Scale: 2, Value: "RESET!"},
			{X: 10, Y: 40, Scale: 1, Value: fmt.Sprintf("Min temp: %.1fC", minimum)},
		},
	}
}

// BlankScene clears the frame.
func BlankScene() display.Scene {
	return display.Scene{Name: SceneBlank}
}
