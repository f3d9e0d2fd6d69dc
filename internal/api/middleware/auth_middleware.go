package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
)

const (
	msgLoginRequired = "Please log in to continue."
	msgAdminRequired = "Access denied. Admin privileges required."
)

// 驗證是ctx是否有token payload
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if util.GetTokenPayloadFromContext(r.Context()) == nil {
			api.ErrorJSON(w, apperr.New(apperr.Unauthenticated, msgLoginRequired))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// 後台 token 必須是 admin scope 且角色為 Admin
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := util.GetTokenPayloadFromContext(r.Context())
		if payload == nil {
			api.ErrorJSON(w, apperr.New(apperr.Unauthenticated, msgLoginRequired))
			return
		}
		if payload.Scope != token.ScopeAdmin || payload.Role != string(model.RoleAdmin) {
			api.ErrorJSON(w, apperr.New(apperr.Unauthorized, msgAdminRequired))
			return
		}
		next.ServeHTTP(w, r)
	})
}
