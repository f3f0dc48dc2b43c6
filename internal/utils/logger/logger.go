package logger

import (
	"os"

	"golang.org/x/exp/slog"

	"gymsync/internal/app/server/config"
)

// New создает логгер в зависимости от окружения:
// local — текстовый вывод с уровнем Debug, dev — JSON с Debug, prod — JSON с Info.
func New(env string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case config.EnvDev:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	case config.EnvProd:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return slog.New(handler)
}
