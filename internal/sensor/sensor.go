// Package sensor provides environmental readings with hardware abstraction.
// The real implementation drives a BME280 over I2C using periph.io.
// The fake implementation allows testing without hardware.
package sensor

import (
	"errors"
	"math"
)

var (
	// ErrUnavailable means the sensor could not be found or initialised.
	ErrUnavailable = errors.New("sensor unavailable")

	// ErrInvalidReading means a sample contained a non-numeric field.
	ErrInvalidReading = errors.New("invalid sensor reading")
)

// Reading is one sample set from the sensor.
type Reading struct {
	Temperature float64 // °C
	Pressure    float64 // Pa
	Humidity    float64 // %RH
	Altitude    float64 // m, derived from Pressure
}

// Valid reports whether temperature, pressure and humidity are all finite.
// Altitude is derived and not checked.
func (r Reading) Valid() bool {
	return finite(r.Temperature) && finite(r.Pressure) && finite(r.Humidity)
}

// Sensor samples the environment.
type Sensor interface {
	// Sample performs one measurement. An invalid sample is returned
	// together with ErrInvalidReading.
	Sample() (Reading, error)

	// Close releases sensor resources.
	Close() error
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
