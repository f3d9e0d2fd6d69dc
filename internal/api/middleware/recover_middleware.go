package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/rs/zerolog"
)

// RecoverMiddleware 需放在 LoggerMiddleware 之後, 才拿得到 request logger
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				var errMsg string
				if e, ok := rec.(error); ok {
					errMsg = e.Error()
				} else {
					errMsg = fmt.Sprintf("%v", rec)
				}
				zerolog.Ctx(r.Context()).Error().
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("error", errMsg).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				api.ErrorJSON(w, apperr.New(apperr.KindUnknown, ""))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
