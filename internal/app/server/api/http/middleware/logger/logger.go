package logger

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Logger пишет строку журнала на каждый обработанный HTTP-запрос.
type Logger struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Logger {
	return &Logger{
		log: log.With(slog.String("component", "http")),
	}
}

// Middleware оборачивает обработчик; атрибуты запроса снимаются до вызова,
// статус и длительность после.
func (l *Logger) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()
		attrs := []slog.Attr{
			slog.String("method", ctx.Method()),
			slog.String("path", ctx.URL().Path),
			slog.String("remote_addr", ctx.RemoteAddr()),
		}

		next(ctx)

		attrs = append(attrs,
			slog.Int("status", ctx.Status()),
			slog.Duration("duration", time.Since(start)),
		)
		l.log.LogAttrs(ctx.Context(), slog.LevelInfo, "запрос обработан", attrs...)
	}
}
