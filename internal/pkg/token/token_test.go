package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestJWTMakerRoundTrip(t *testing.T) {
	maker, err := NewJWTMaker(testKey, "storefront")
	require.NoError(t, err)

	signed, payload, err := maker.CreateToken(7, "ada@example.com", "Ada", "Customer", ScopeCustomer, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.NotEmpty(t, payload.ID)

	got, err := maker.VertifyToken(signed)
	require.NoError(t, err)
	require.Equal(t, 7, got.UserID)
	require.Equal(t, "ada@example.com", got.Email)
	require.Equal(t, ScopeCustomer, got.Scope)
	require.Equal(t, "storefront", got.Issuer)
}

func TestJWTMakerExpired(t *testing.T) {
	maker, err := NewJWTMaker(testKey, "storefront")
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Hour)
	maker.now = func() time.Time { return issued }
	signed, _, err := maker.CreateToken(1, "a@b.c", "A", "Admin", ScopeAdmin, time.Hour)
	require.NoError(t, err)

	maker.now = time.Now
	_, err = maker.VertifyToken(signed)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTMakerRejectsForeignTokens(t *testing.T) {
	maker, err := NewJWTMaker(testKey, "storefront")
	require.NoError(t, err)

	other, err := NewJWTMaker("ffffffffffffffffffffffffffffffff", "storefront")
	require.NoError(t, err)
	signed, _, err := other.CreateToken(1, "a@b.c", "A", "Customer", ScopeCustomer, time.Hour)
	require.NoError(t, err)
	_, err = maker.VertifyToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Payload{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = maker.VertifyToken(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = maker.VertifyToken("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTMakerKeySize(t *testing.T) {
	_, err := NewJWTMaker("short", "storefront")
	require.Error(t, err)
}
