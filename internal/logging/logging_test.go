package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	for _, json := range []bool{true, false} {
		logger, err := New("warn", json)
		if err != nil {
			t.Fatalf("New(warn, %v): %v", json, err)
		}
		if logger.Core().Enabled(zap.InfoLevel) {
			t.Errorf("json=%v: info should be disabled at warn level", json)
		}
		if !logger.Core().Enabled(zap.ErrorLevel) {
			t.Errorf("json=%v: error should be enabled at warn level", json)
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("loud", true); err == nil {
		t.Error("expected error for unknown level")
	}
}
