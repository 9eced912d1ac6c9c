// Command barometer runs a stand-alone weather station: it samples a BME280
// on a schedule, keeps the lowest temperature across power cycles and shows
// readings and the pressure trend on an SSD1306 OLED driven by one button.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sweeney/barometer/internal/config"
	"github.com/sweeney/barometer/internal/gpio"
	"github.com/sweeney/barometer/internal/logging"
	"github.com/sweeney/barometer/internal/logic"
	"github.com/sweeney/barometer/internal/record"
	"github.com/sweeney/barometer/internal/sensor"
	"github.com/sweeney/barometer/internal/status"
	"github.com/sweeney/barometer/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// app carries the resolved configuration and logger into the subcommands.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cfg, loadErr := config.Load(".env")
	if loadErr == nil {
		a.cfg = cfg
	} else {
		a.cfg = config.Default()
	}

	root := &cobra.Command{
		Use:           "barometer",
		Short:         "barometer - BME280 weather station with OLED display",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			logger, err := logging.New(a.cfg.LogLevel, a.cfg.LogJSON)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run()
		},
	}
	config.BindFlags(root.PersistentFlags(), &a.cfg)

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the station (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run()
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the stored minimum and one live reading as JSON",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.printStatus(cmd)
			},
		},
		a.minCmd(),
	)
	return root
}

func (a *app) minCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "min",
		Short: "Maintain the stored minimum temperature (stop the station first)",
	}

	var to float64
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set the stored minimum to a value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withMinimum(func(tr *record.Tracker) error {
				return resetMinimum(tr, to, a.logger)
			})
		},
	}
	resetCmd.Flags().Float64Var(&to, "to", 0, "New minimum in °C")
	_ = resetCmd.MarkFlagRequired("to")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored minimum",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withMinimum(func(tr *record.Tracker) error {
				return clearMinimum(tr, a.logger)
			})
		},
	}

	cmd.AddCommand(resetCmd, clearCmd)
	return cmd
}

// withMinimum opens the storage image and runs fn with a loaded tracker.
func (a *app) withMinimum(fn func(*record.Tracker) error) error {
	store, err := storage.OpenFile(a.cfg.StoragePath, storage.DefaultSize)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	tr := record.NewTracker(store)
	if _, err := tr.Load(); err != nil {
		return err
	}
	return fn(tr)
}

func resetMinimum(tr *record.Tracker, to float64, logger *zap.Logger) error {
	prev, had := tr.Value(), tr.Initialized()
	if err := tr.ResetTo(to); err != nil {
		return fmt.Errorf("reset minimum: %w", err)
	}
	logger.Info("minimum reset",
		zap.Float64("value", tr.Value()),
		zap.Float64("previous", prev),
		zap.Bool("previous_set", had))
	return nil
}

func clearMinimum(tr *record.Tracker, logger *zap.Logger) error {
	if err := tr.Clear(); err != nil {
		return err
	}
	logger.Info("minimum cleared")
	return nil
}

func (a *app) printStatus(cmd *cobra.Command) error {
	store, err := storage.OpenFile(a.cfg.StoragePath, storage.DefaultSize)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()
	tr := record.NewTracker(store)
	if _, err := tr.Load(); err != nil {
		return err
	}

	var sens sensor.Sensor
	if s, err := sensor.NewBME280(a.cfg.I2CBus, sensor.DefaultAddrs, a.cfg.SeaLevelHPa); err != nil {
		a.logger.Warn("sensor unavailable", zap.Error(err))
	} else {
		defer s.Close()
		sens = s
	}

	var reader gpio.Reader
	if r, err := gpio.NewRealReader(a.cfg.GPIOChip, a.cfg.ButtonPin); err != nil {
		a.logger.Warn("button unavailable", zap.Error(err))
	} else {
		defer r.Close()
		reader = r
	}

	snap := buildStatus(tr, sens, reader, statusConfig(a.cfg), time.Now(), a.logger)
	fmt.Fprintln(cmd.OutOrStdout(), string(status.FormatJSON(snap)))
	return nil
}

// buildStatus assembles a one-shot snapshot. A nil sensor or reader is
// reported as missing data.
func buildStatus(tr *record.Tracker, sens sensor.Sensor, reader gpio.Reader, cfg status.Config, now time.Time, logger *zap.Logger) status.Snapshot {
	snap := status.Snapshot{
		StartTime:          now,
		Now:                now,
		Minimum:            tr.Value(),
		MinimumInitialized: tr.Initialized(),
		Trend:              logic.TrendEstimate{Class: logic.TrendInsufficient},
		Config:             cfg,
	}

	if sens != nil {
		snap.Counts.Samples++
		r, err := sens.Sample()
		if err != nil {
			snap.Counts.SensorErrors++
			logger.Warn("sample sensor", zap.Error(err))
		} else {
			snap.Reading = &r
			snap.LastSample = now
		}
	}

	if reader != nil {
		pressed, err := reader.Read()
		switch {
		case err != nil:
			logger.Warn("read button", zap.Error(err))
		case pressed:
			snap.Button = logic.ButtonPressed
		default:
			snap.Button = logic.ButtonIdle
		}
	}
	return snap
}

func statusConfig(c config.Config) status.Config {
	return status.Config{
		Schedule:      c.Schedule,
		PollMs:        c.Poll.Milliseconds(),
		DebounceMs:    c.Debounce.Milliseconds(),
		HoldConfirmMs: c.HoldConfirm.Milliseconds(),
		TrendGateMs:   c.TrendGate.Milliseconds(),
		Storage:       c.StoragePath,
	}
}
