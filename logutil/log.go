// Package logutil sets up the zap logger of the command line tool.
package logutil

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel only lets warnings and errors through.
const DefaultLevel = "warn"

// InitLogger builds a console logger writing to out at level and makes it the
// global logger.
func InitLogger(level string, out io.Writer) (*zap.Logger, error) {
	l := zap.NewAtomicLevel()
	if level == "" {
		level = DefaultLevel
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(out), l)
	logger := zap.New(core, zap.AddStacktrace(zapcore.FatalLevel))
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// BgLogger returns the global logger. It discards everything until
// InitLogger is called.
func BgLogger() *zap.Logger {
	return zap.L()
}
