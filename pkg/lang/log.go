package lang

import (
	"io"
	"time"

	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerTo returns a development-style console logger writing to w.
func LoggerTo(w io.Writer, level zapcore.Level) *zap.Logger {
	zapcfg := zap.NewDevelopmentEncoderConfig()
	zapcfg.EncodeLevel = zapcore.LowercaseColorLevelEncoder
	zapcfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("15:04:05.000"))
	}

	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapcfg),
		zapcore.AddSync(w),
		level,
	))
}

// Logger logs to stderr, translating color codes on terminals which need it.
func Logger(level zapcore.Level) *zap.Logger {
	return LoggerTo(colorable.NewColorableStderr(), level)
}
