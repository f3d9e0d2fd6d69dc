package util

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
)

func GetTokenPayloadFromContext(ctx context.Context) *token.Payload {
	var tokenPayload *token.Payload

	if v := ctx.Value(constants.AuthorizationPayloadKey); v != nil {
		tokenPayload, _ = v.(*token.Payload)
	}

	return tokenPayload
}

func WithTokenPayload(ctx context.Context, payload *token.Payload) context.Context {
	return context.WithValue(ctx, constants.AuthorizationPayloadKey, payload)
}

func GetRequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(constants.RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// ClientIP 取得來源 IP, 只看 RemoteAddr
// 信任代理時由 chi RealIP 先改寫 RemoteAddr, 此時不帶 port
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
