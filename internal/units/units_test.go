package units

import (
	"math"
	"testing"
)

func TestPascalToMmHg(t *testing.T) {
	// One standard atmosphere is 760 mmHg
	got := PascalToMmHg(101325)
	if math.Abs(got-760) > 0.01 {
		t.Errorf("PascalToMmHg(101325) = %v, want ~760", got)
	}
	if PascalToMmHg(0) != 0 {
		t.Error("PascalToMmHg(0) should be 0")
	}
}

func TestAltitudeMeters(t *testing.T) {
	if got := AltitudeMeters(101325, StandardSeaLevelHPa); math.Abs(got) > 1e-6 {
		t.Errorf("altitude at sea-level pressure = %v, want 0", got)
	}

	// ~1500m in the standard atmosphere
	got := AltitudeMeters(84556, StandardSeaLevelHPa)
	if math.Abs(got-1500) > 10 {
		t.Errorf("AltitudeMeters(84556) = %v, want ~1500", got)
	}

	// Lower pressure means higher altitude
	if AltitudeMeters(90000, StandardSeaLevelHPa) <= AltitudeMeters(95000, StandardSeaLevelHPa) {
		t.Error("altitude should increase as pressure drops")
	}
}

func TestAltitudeMetersInvalid(t *testing.T) {
	if !math.IsNaN(AltitudeMeters(0, StandardSeaLevelHPa)) {
		t.Error("expected NaN for zero pressure")
	}
	if !math.IsNaN(AltitudeMeters(101325, 0)) {
		t.Error("expected NaN for zero sea-level reference")
	}
}
