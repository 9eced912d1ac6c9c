package status

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/barometer/internal/units"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	DisplayOn     bool         `json:"display_on"`
	Button        string       `json:"button"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Reading       *ReadingJSON `json:"reading,omitempty"`
	Minimum       MinimumJSON  `json:"minimum"`
	Trend         TrendJSON    `json:"trend"`
	Counts        CountsJSON   `json:"counts"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of the last reading.
type ReadingJSON struct {
	Timestamp    string   `json:"timestamp"`
	TemperatureC float64  `json:"temperature_c"`
	PressureMmHg float64  `json:"pressure_mmhg"`
	HumidityPct  float64  `json:"humidity_pct"`
	AltitudeM    *float64 `json:"altitude_m,omitempty"`
}

// MinimumJSON reports the persistent minimum. ValueC is omitted until a
// real reading has been recorded.
type MinimumJSON struct {
	Initialized bool     `json:"initialized"`
	ValueC      *float64 `json:"value_c,omitempty"`
}

// TrendJSON reports the pressure trend.
type TrendJSON struct {
	Ready bool    `json:"ready"`
	Class string  `json:"class"`
	Slope float64 `json:"slope_mmhg_per_window"`
}

// CountsJSON is the JSON representation of session counts.
type CountsJSON struct {
	Samples       int `json:"samples"`
	SensorErrors  int `json:"sensor_errors"`
	MinimumResets int `json:"minimum_resets"`
	PersistErrors int `json:"persist_errors"`
}

// ConfigJSON is the JSON representation of session config.
type ConfigJSON struct {
	Schedule      string `json:"schedule"`
	PollMs        int64  `json:"poll_ms"`
	DebounceMs    int64  `json:"debounce_ms"`
	HoldConfirmMs int64  `json:"hold_confirm_ms"`
	TrendGateMs   int64  `json:"trend_gate_ms"`
	Storage       string `json:"storage"`
}

func buildInner(snap Snapshot) StatusInner {
	button := string(snap.Button)
	if button == "" {
		button = "UNKNOWN"
	}

	inner := StatusInner{
		DisplayOn:     snap.DisplayOn,
		Button:        button,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Minimum:       MinimumJSON{Initialized: snap.MinimumInitialized},
		Trend: TrendJSON{
			Ready: snap.Trend.Ready,
			Class: string(snap.Trend.Class),
			Slope: snap.Trend.Slope,
		},
		Counts: CountsJSON{
			Samples:       snap.Counts.Samples,
			SensorErrors:  snap.Counts.SensorErrors,
			MinimumResets: snap.Counts.MinimumResets,
			PersistErrors: snap.Counts.PersistErrors,
		},
		Config: ConfigJSON{
			Schedule:      snap.Config.Schedule,
			PollMs:        snap.Config.PollMs,
			DebounceMs:    snap.Config.DebounceMs,
			HoldConfirmMs: snap.Config.HoldConfirmMs,
			TrendGateMs:   snap.Config.TrendGateMs,
			Storage:       snap.Config.Storage,
		},
	}

	if snap.MinimumInitialized {
		v := snap.Minimum
		inner.Minimum.ValueC = &v
	}

	// NaN does not marshal; invalid readings are left out
	if r := snap.Reading; r != nil && r.Valid() {
		inner.Reading = &ReadingJSON{
			Timestamp:    snap.LastSample.UTC().Format(time.RFC3339),
			TemperatureC: r.Temperature,
			PressureMmHg: units.PascalToMmHg(r.Pressure),
			HumidityPct:  r.Humidity,
		}
		if !math.IsNaN(r.Altitude) && !math.IsInf(r.Altitude, 0) {
			alt := r.Altitude
			inner.Reading.AltitudeM = &alt
		}
	}
	return inner
}

// FormatJSON returns the indented JSON status for the status command.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status for a lifecycle event
// (STARTUP, HEARTBEAT, SHUTDOWN).
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
