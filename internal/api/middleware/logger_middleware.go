package middleware

import (
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// 沒有呼叫 WriteHeader 時視為 200
func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func getRequestID(r *http.Request) string {
	if id := util.GetRequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return "unknown"
}

// 記錄request 請求
// request logger 放進 ctx, 後面的 auth middleware 會補上 user_id
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = &log.Logger
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recoder := &StatusRecoder{
				ResponseWriter: w,
			}

			reqLogger := logger.With().Str("request_id", getRequestID(r)).Logger()
			ctx := reqLogger.WithContext(r.Context())

			next.ServeHTTP(recoder, r.WithContext(ctx))

			l := zerolog.Ctx(ctx)
			var evt *zerolog.Event
			switch status := recoder.Status(); {
			case status >= http.StatusInternalServerError:
				evt = l.Error()
			case status >= http.StatusBadRequest:
				evt = l.Warn()
			default:
				evt = l.Info()
			}
			evt.Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("ip", util.ClientIP(r)).
				Int("status", recoder.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
