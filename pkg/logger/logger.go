package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// Logger is a leveled logger. It writes to stderr so log lines never land in
// the middle of a rendered stats table on stdout.
type Logger struct {
	level Level
	zap   *zap.Logger
}

func New(levelStr string) *Logger {
	return NewWithWriter(levelStr, os.Stderr)
}

// NewWithWriter builds a Logger that writes console-encoded entries to w.
func NewWithWriter(levelStr string, w io.Writer) *Logger {
	level := parseLevel(levelStr)

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		level,
	)

	return &Logger{
		level: level,
		zap:   zap.New(core),
	}
}

func NewNop() *Logger {
	return &Logger{level: ErrorLevel, zap: zap.NewNop()}
}

func parseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) log(level Level, v ...interface{}) {
	if l == nil || l.zap == nil {
		return
	}
	msg := strings.TrimSuffix(fmt.Sprintln(v...), "\n")
	if ce := l.zap.Check(level, msg); ce != nil {
		ce.Write()
	}
}

func (l *Logger) Debug(v ...interface{}) {
	l.log(DebugLevel, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.log(InfoLevel, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(WarnLevel, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.log(ErrorLevel, v...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.log(ErrorLevel, v...)
	l.Sync()
	os.Exit(1)
}

func (l *Logger) Sync() {
	if l == nil || l.zap == nil {
		return
	}
	_ = l.zap.Sync()
}
