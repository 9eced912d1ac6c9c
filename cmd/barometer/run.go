package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/barometer/internal/config"
	"github.com/sweeney/barometer/internal/display"
	"github.com/sweeney/barometer/internal/gpio"
	"github.com/sweeney/barometer/internal/record"
	"github.com/sweeney/barometer/internal/sensor"
	"github.com/sweeney/barometer/internal/session"
	"github.com/sweeney/barometer/internal/status"
	"github.com/sweeney/barometer/internal/storage"
)

func (a *app) run() error {
	cfg, logger := a.cfg, a.logger

	schedule, err := cfg.ParseSchedule()
	if err != nil {
		return err
	}

	disp, err := openDisplay(cfg, logger)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	if err := disp.Render(session.BootScene()); err != nil {
		logger.Warn("render boot screen", zap.Error(err))
	}

	sens, err := sensor.NewBME280(cfg.I2CBus, sensor.DefaultAddrs, cfg.SeaLevelHPa)
	if err != nil {
		// Leave the wiring hint on the panel; Close would blank it.
		if rerr := disp.Render(session.SensorMissingScene()); rerr != nil {
			logger.Warn("render sensor-missing screen", zap.Error(rerr))
		}
		return fmt.Errorf("init sensor: %w", err)
	}
	defer sens.Close()
	defer disp.Close()
	logger.Info("sensor found", zap.String("addr", fmt.Sprintf("%#x", sens.Addr())))

	reader, err := gpio.NewRealReader(cfg.GPIOChip, cfg.ButtonPin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	store, err := storage.OpenFile(cfg.StoragePath, storage.DefaultSize)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	ctrl := session.New(session.Deps{
		Sensor:   sens,
		Display:  disp,
		Minimum:  record.NewTracker(store),
		Schedule: schedule,
		Logger:   logger.Named("session"),
	}, sessionOptions(cfg))

	if err := ctrl.Start(time.Now()); err != nil {
		return err
	}

	logger.Info("started",
		zap.String("schedule", cfg.Schedule),
		zap.Duration("poll", cfg.Poll),
		zap.Duration("debounce", cfg.Debounce),
		zap.Duration("heartbeat", cfg.Heartbeat),
		zap.String("storage", cfg.StoragePath),
		zap.String("display", cfg.Display))

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, ctrl, logger, cfg.Heartbeat, time.Now, ticker.C, sigCh)
}

func openDisplay(cfg config.Config, logger *zap.Logger) (display.Display, error) {
	if cfg.Display == config.DisplayLog {
		return display.NewLog(logger), nil
	}
	return display.NewSSD1306(cfg.I2CBus)
}

func sessionOptions(cfg config.Config) session.Options {
	opts := session.DefaultOptions()
	opts.Debounce = cfg.Debounce
	opts.HoldProgress = cfg.HoldProgress
	opts.HoldConfirm = cfg.HoldConfirm
	opts.ConfirmFor = cfg.ConfirmFor
	opts.TrendGate = cfg.TrendGate
	opts.Thresholds = cfg.Thresholds()
	opts.Info = statusConfig(cfg)
	return opts
}

// runLoop polls the button on every tick and drives the controller until a
// signal arrives. It logs a status event at startup, every heartbeat and at
// shutdown.
func runLoop(reader gpio.Reader, ctrl *session.Controller, logger *zap.Logger, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastBeat := now()
	logEvent(logger, "startup", status.FormatStatusEvent(ctrl.Snapshot(lastBeat), "STARTUP", ""))

	// A failed read keeps the last level so a flaky line does not end a hold.
	pressed := false

	for {
		select {
		case s := <-sig:
			name := signalName(s)
			logger.Info("received signal, shutting down", zap.String("signal", name))
			logEvent(logger, "shutdown", status.FormatStatusEvent(ctrl.Snapshot(now()), "SHUTDOWN", name))
			ctrl.Shutdown()
			return nil

		case <-tick:
			t := now()
			level, err := reader.Read()
			if err != nil {
				logger.Warn("gpio read error", zap.Error(err))
			} else {
				pressed = level
			}

			ctrl.Poll(pressed, t)

			if heartbeat > 0 && t.Sub(lastBeat) >= heartbeat {
				lastBeat = t
				logEvent(logger, "heartbeat", status.FormatStatusEvent(ctrl.Snapshot(t), "HEARTBEAT", ""))
			}
		}
	}
}

func logEvent(logger *zap.Logger, msg string, payload []byte) {
	logger.Info(msg, zap.Reflect("status", json.RawMessage(payload)))
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}
