package logger

import (
	"fmt"
	"log/slog"
	"os"
)

var log *slog.Logger

func Init() {
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func current() *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Infof(format string, v ...any) {
	current().Info(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func Errorf(format string, v ...any) {
	current().Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

func Debugf(format string, v ...any) {
	current().Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string) {
	current().Error(msg)
	os.Exit(1)
}

func Fatalf(format string, v ...any) {
	current().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
