package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection reset")
	err := Wrap(PersistenceFailure, "could not save order", base)

	require.Equal(t, PersistenceFailure, KindOf(err))
	require.ErrorIs(t, err, base)

	wrapped := fmt.Errorf("place order: %w", err)
	require.Equal(t, PersistenceFailure, KindOf(wrapped))
	require.True(t, IsKind(wrapped, PersistenceFailure))
	require.Equal(t, "could not save order", MessageOf(wrapped, "fallback"))

	require.Equal(t, KindUnknown, KindOf(base))
	require.Equal(t, "fallback", MessageOf(base, "fallback"))
	require.False(t, IsKind(nil, KindUnknown))
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := Newf(InsufficientStock, "Insufficient stock for %s", "Arcade Stick")

	require.ErrorIs(t, err, New(InsufficientStock, ""))
	require.NotErrorIs(t, err, New(NotFound, ""))
	require.Equal(t, "InsufficientStock: Insufficient stock for Arcade Stick", err.Error())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "EmptyCart", EmptyCart.String())
	require.Equal(t, "Kind(99)", Kind(99).String())
}
