package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

// RateLimit — ограничение частоты запросов по адресу клиента.
type RateLimit struct {
	log   *slog.Logger
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(rps float64, burst int, log *slog.Logger) *RateLimit {
	return &RateLimit{
		log:      log.With(slog.String("component", "ratelimit")),
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Middleware отклоняет запросы сверх лимита со статусом 429.
func (r *RateLimit) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if r.rps <= 0 {
			next(ctx)
			return
		}

		host, _, err := net.SplitHostPort(ctx.RemoteAddr())
		if err != nil {
			host = ctx.RemoteAddr()
		}

		if !r.limiter(host).Allow() {
			r.log.Warn("Превышен лимит запросов", "remote_addr", host)

			ctx.SetStatus(http.StatusTooManyRequests)
			ctx.SetHeader("Content-Type", "application/json")
			_ = json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
				"error": "Too Many Requests",
			})
			return
		}

		next(ctx)
	}
}

func (r *RateLimit) limiter(host string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, ok := r.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(r.rps, r.burst)
		r.limiters[host] = limiter
	}

	return limiter
}
