// Package units holds the unit conversions used between the sensor and the display.
package units

import "math"

// StandardSeaLevelHPa is the ICAO standard atmosphere pressure at sea level.
const StandardSeaLevelHPa = 1013.25

// mmHgPerPascal converts pascals to millimetres of mercury.
const mmHgPerPascal = 0.00750062

// PascalToMmHg converts a pressure in Pa to mmHg.
func PascalToMmHg(pa float64) float64 {
	return pa * mmHgPerPascal
}

// PascalToHPa converts a pressure in Pa to hPa.
func PascalToHPa(pa float64) float64 {
	return pa / 100
}

// AltitudeMeters estimates altitude in metres from the station pressure in Pa
// and the sea-level reference pressure in hPa, using the international
// barometric formula. It returns NaN for non-positive inputs.
func AltitudeMeters(pa, seaLevelHPa float64) float64 {
	if pa <= 0 || seaLevelHPa <= 0 {
		return math.NaN()
	}
	return 44330.0 * (1.0 - math.Pow(PascalToHPa(pa)/seaLevelHPa, 0.1903))
}
