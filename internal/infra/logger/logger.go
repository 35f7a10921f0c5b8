package logger

import (
	"log/slog"
	"os"
)

// New возвращает логгер процесса: в dev — читаемый текст с debug-уровнем,
// иначе JSON для сборщика логов.
func New(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
