package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/rs/zerolog"
)

// NewRateLimitMiddleware 以來源 IP 為 key 限流
// limiter 本身出錯時放行, 只記錄警告
func NewRateLimitMiddleware(limiter ratelimit.ILimiter) func(http.Handler) http.Handler {
	if limiter == nil {
		panic("limiter cannot be nil")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), util.ClientIP(r))
			if err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
