/* pkg/logger/fallback.go */

package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConsoleLogger builds a console logger writing to w at the given level.
func NewConsoleLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// InitializeWithFallback sets up console logging on stderr and, when
// WHATBUMP_LOG_FILE is set and writable, a JSON tee into that file.
// stdout stays clean for command output.
func InitializeWithFallback() {
	level.SetLevel(ParseLogLevel(os.Getenv(LevelEnv)))
	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)

	path := os.Getenv(FileEnv)
	if path == "" {
		SetLogger(zap.New(console, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
		return
	}

	writer, err := GetLogFileWriter(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Could not write to log file, logging to console only:", err)
		SetLogger(zap.New(console, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
		return
	}

	core := zapcore.NewTee(
		console,
		zapcore.NewCore(zapcore.NewJSONEncoder(DefaultJSONEncoderConfig()), writer, level),
	)
	SetLogger(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
	L().Debug("File logging enabled", zap.String("log_path", path))
}
