package sensor

import (
	"errors"
	"fmt"

	"github.com/sweeney/barometer/internal/units"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// DefaultAddrs are the BME280 I2C addresses probed in order.
var DefaultAddrs = []uint16{0x76, 0x77}

// BME280 reads a Bosch BME280 on an I2C bus in forced mode.
type BME280 struct {
	bus         i2c.BusCloser
	dev         *bmxx80.Dev
	addr        uint16
	seaLevelHPa float64
}

// NewBME280 opens the named I2C bus ("" for the first one) and probes addrs
// until a BME280 answers. seaLevelHPa is the reference used for altitude.
func NewBME280(busName string, addrs []uint16, seaLevelHPa float64) (*BME280, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: init host: %v", ErrUnavailable, err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("%w: open i2c bus %q: %v", ErrUnavailable, busName, err)
	}

	// Single oversampling, no IIR filter: one forced conversion per Sample
	opts := bmxx80.Opts{
		Temperature: bmxx80.O1x,
		Pressure:    bmxx80.O1x,
		Humidity:    bmxx80.O1x,
		Filter:      bmxx80.NoFilter,
	}

	var errs []error
	for _, addr := range addrs {
		dev, err := bmxx80.NewI2C(bus, addr, &opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("addr %#x: %w", addr, err))
			continue
		}
		return &BME280{
			bus:         bus,
			dev:         dev,
			addr:        addr,
			seaLevelHPa: seaLevelHPa,
		}, nil
	}

	bus.Close()
	return nil, fmt.Errorf("%w: no BME280 found: %v", ErrUnavailable, errors.Join(errs...))
}

// Addr returns the I2C address the sensor answered on.
func (s *BME280) Addr() uint16 {
	return s.addr
}

// Sample performs one forced measurement.
func (s *BME280) Sample() (Reading, error) {
	var env physic.Env
	if err := s.dev.Sense(&env); err != nil {
		return Reading{}, fmt.Errorf("sense: %w", err)
	}
	return readingFromEnv(env, s.seaLevelHPa)
}

// Close halts the device and releases the bus.
func (s *BME280) Close() error {
	var errs []error
	if s.dev != nil {
		if err := s.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt sensor: %w", err))
		}
	}
	if s.bus != nil {
		if err := s.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
	}
	return errors.Join(errs...)
}

// readingFromEnv converts periph units into a Reading.
func readingFromEnv(env physic.Env, seaLevelHPa float64) (Reading, error) {
	pa := float64(env.Pressure) / float64(physic.Pascal)
	r := Reading{
		Temperature: float64(env.Temperature-physic.ZeroCelsius) / float64(physic.Celsius),
		Pressure:    pa,
		Humidity:    float64(env.Humidity) / float64(physic.PercentRH),
		Altitude:    units.AltitudeMeters(pa, seaLevelHPa),
	}
	if !r.Valid() {
		return r, ErrInvalidReading
	}
	return r, nil
}
