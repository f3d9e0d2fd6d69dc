package util

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
	"github.com/stretchr/testify/require"
)

func TestTokenPayloadContext(t *testing.T) {
	ctx := context.Background()
	require.Nil(t, GetTokenPayloadFromContext(ctx))

	ctx = WithTokenPayload(ctx, &token.Payload{UserID: 3})
	require.Equal(t, 3, GetTokenPayloadFromContext(ctx).UserID)

	ctx = context.WithValue(context.Background(), constants.AuthorizationPayloadKey, "not a payload")
	require.Nil(t, GetTokenPayloadFromContext(ctx))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	require.Equal(t, "10.1.2.3", ClientIP(r))

	r.RemoteAddr = "10.1.2.4"
	require.Equal(t, "10.1.2.4", ClientIP(r))
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), constants.RequestIDKey, "abc")
	require.Equal(t, "abc", GetRequestIDFromContext(ctx))
	require.Equal(t, "", GetRequestIDFromContext(context.Background()))
}
