package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/rs/zerolog"
)

// 解析 cookie 內的 token, 任何錯誤都不會中斷, 只是不設置 context
// 前台與後台各用自己的 cookie, scope 不符視同沒有登入
func AuthPayloadMiddleware(tokenMaker token.Maker, cookieName string, scope token.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := checkAuthPayload(tokenMaker, r, cookieName, scope)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Int("user_id", payload.UserID).Str("scope", string(payload.Scope))
			})
			next.ServeHTTP(w, r.WithContext(util.WithTokenPayload(r.Context(), payload)))
		})
	}
}

func checkAuthPayload(tokenMaker token.Maker, r *http.Request, cookieName string, scope token.Scope) (*token.Payload, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	payload, err := tokenMaker.VertifyToken(cookie.Value)
	if err != nil {
		return nil, false
	}
	if payload.Scope != scope {
		return nil, false
	}
	return payload, true
}
