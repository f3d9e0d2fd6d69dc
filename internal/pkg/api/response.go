package api

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/rs/zerolog/log"
)

const msgInternalError = "Internal Server Error"

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var kindStatus = map[apperr.Kind]int{
	apperr.EmptyCart:          http.StatusBadRequest,
	apperr.InsufficientStock:  http.StatusConflict,
	apperr.OutOfStock:         http.StatusConflict,
	apperr.InvalidStatus:      http.StatusBadRequest,
	apperr.InvalidArgument:    http.StatusBadRequest,
	apperr.NotFound:           http.StatusNotFound,
	apperr.Conflict:           http.StatusConflict,
	apperr.Unauthenticated:    http.StatusUnauthorized,
	apperr.Unauthorized:       http.StatusForbidden,
	apperr.LockedOut:          http.StatusLocked,
	apperr.PersistenceFailure: http.StatusInternalServerError,
}

// StatusOf 未分類的錯誤一律 500
func StatusOf(kind apperr.Kind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func SuccessJSON(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Response{Code: 0, Message: message, Data: data})
}

func CreatedJSON(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusCreated, Response{Code: 0, Message: message, Data: data})
}

// ErrorJSON 依錯誤分類決定 http status
// 非 apperr 的錯誤不把內容回給前端
func ErrorJSON(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)
	message := apperr.MessageOf(err, msgInternalError)
	code := int(kind)
	if kind == apperr.KindUnknown {
		code = status
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", kind.String()).Msg("request failed")
	}
	writeJSON(w, status, ResponseError{Code: code, Message: message})
}

// BadRequest 請求格式錯誤, 尚未進入 service
func BadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ResponseError{Code: int(apperr.InvalidArgument), Message: message})
}
