// Package logging builds the process-wide zap logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const ModeProduction = "production"

// New builds a logger writing to stdout and, when file is set, to a rotated
// JSON log file.
func New(mode, file string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == ModeProduction {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}

	if file == "" {
		return cfg.Build(zap.AddCaller())
	}

	rotated := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			cfg.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg.EncoderConfig),
			zapcore.AddSync(os.Stdout),
			cfg.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}

// Bootstrap installs a console logger on w for the startup phase, before the
// configured logger exists. The returned function restores the previous
// globals.
func Bootstrap(w zapcore.WriteSyncer) func() {
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), w, zap.InfoLevel)
	return zap.ReplaceGlobals(zap.New(core))
}

// Setup installs the logger as zap's global logger and returns a function
// that flushes it.
func Setup(mode, file string) (func(), error) {
	logger, err := New(mode, file)
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}, nil
}
