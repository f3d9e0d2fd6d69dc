package apperr

import (
	"errors"
	"fmt"
)

// Kind 錯誤分類, handler 依此決定回應
type Kind int

const (
	KindUnknown Kind = iota
	EmptyCart
	InsufficientStock
	OutOfStock
	NotFound
	InvalidStatus
	InvalidArgument
	Conflict
	Unauthenticated
	Unauthorized
	LockedOut
	PersistenceFailure
)

var kindNames = map[Kind]string{
	KindUnknown:        "Unknown",
	EmptyCart:          "EmptyCart",
	InsufficientStock:  "InsufficientStock",
	OutOfStock:         "OutOfStock",
	NotFound:           "NotFound",
	InvalidStatus:      "InvalidStatus",
	InvalidArgument:    "InvalidArgument",
	Conflict:           "Conflict",
	Unauthenticated:    "Unauthenticated",
	Unauthorized:       "Unauthorized",
	LockedOut:          "LockedOut",
	PersistenceFailure: "PersistenceFailure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error 帶有分類與給使用者看的訊息, Err 為底層原因
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 只比對 Kind, 讓 errors.Is(err, apperr.New(apperr.NotFound, "")) 可用
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 取出錯誤分類, 非 *Error 一律視為 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf 取出使用者訊息, 非 *Error 時回傳 fallback
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
