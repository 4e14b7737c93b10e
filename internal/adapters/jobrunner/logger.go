package jobrunner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// asynqLogger routes asynq's internal logging through slog.
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.With("component", "asynq")}
}

func (l *asynqLogger) log(level slog.Level, args ...any) {
	l.logger.Log(context.Background(), level, fmt.Sprint(args...))
}

func (l *asynqLogger) Debug(args ...any) { l.log(slog.LevelDebug, args...) }
func (l *asynqLogger) Info(args ...any)  { l.log(slog.LevelInfo, args...) }
func (l *asynqLogger) Warn(args ...any)  { l.log(slog.LevelWarn, args...) }
func (l *asynqLogger) Error(args ...any) { l.log(slog.LevelError, args...) }

// Fatal logs and exits, as asynq expects.
func (l *asynqLogger) Fatal(args ...any) {
	l.log(slog.LevelError, args...)
	os.Exit(1)
}
