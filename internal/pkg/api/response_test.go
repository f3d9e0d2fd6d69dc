package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusNotFound, StatusOf(apperr.NotFound))
	require.Equal(t, http.StatusLocked, StatusOf(apperr.LockedOut))
	require.Equal(t, http.StatusForbidden, StatusOf(apperr.Unauthorized))
	require.Equal(t, http.StatusInternalServerError, StatusOf(apperr.KindUnknown))
}

func TestErrorJSONHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorJSON(rec, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ResponseError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusInternalServerError, body.Code)
	require.Equal(t, "Internal Server Error", body.Message)
}

func TestErrorJSONUsesKindMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorJSON(rec, apperr.New(apperr.LockedOut, "Account is locked. Try again in 15 minutes."))

	require.Equal(t, http.StatusLocked, rec.Code)
	var body ResponseError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int(apperr.LockedOut), body.Code)
	require.Equal(t, "Account is locked. Try again in 15 minutes.", body.Message)
}

func TestSuccessJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessJSON(rec, map[string]int{"count": 2}, "ok")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"code":0,"message":"ok","data":{"count":2}}`, rec.Body.String())
}
