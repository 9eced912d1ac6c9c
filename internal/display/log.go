package display

import "go.uber.org/zap"

// Log is a headless Display that writes every scene to a logger.
type Log struct {
	logger *zap.Logger
	on     bool
}

// NewLog creates a Log display.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger.Named("display"), on: true}
}

// Render logs the scene text. Scenes rendered while off are logged at debug level.
func (d *Log) Render(scene Scene) error {
	fields := []zap.Field{
		zap.String("scene", scene.Name),
		zap.Strings("lines", scene.Lines()),
	}
	for _, b := range scene.Bars {
		fields = append(fields, zap.Int("bar_fill", b.Fill), zap.Int("bar_width", b.W))
	}
	if !d.on {
		d.logger.Debug("render (panel off)", fields...)
		return nil
	}
	d.logger.Info("render", fields...)
	return nil
}

// Power logs panel power changes.
func (d *Log) Power(on bool) error {
	if on != d.on {
		d.logger.Info("power", zap.Bool("on", on))
	}
	d.on = on
	return nil
}

// Close flushes the logger.
func (d *Log) Close() error {
	_ = d.logger.Sync()
	return nil
}
