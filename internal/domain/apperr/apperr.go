package apperr

import (
	"errors"
	"fmt"
)

// 錯誤分類
// validation / not_found / conflict / insufficient_inventory / authorization
// 對應呼叫端 4xx 行為, gateway / internal 見 gateway.go 與 Internal
type Kind string

const (
	KindValidation            Kind = "validation"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindInsufficientInventory Kind = "insufficient_inventory"
	KindAuthorization         Kind = "authorization"
	KindInternal              Kind = "internal"
)

type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.err
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InsufficientInventory(format string, args ...any) *Error {
	return &Error{Kind: KindInsufficientInventory, Message: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Internal 包裝非預期錯誤，保留底層錯誤供log
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, err: err}
}

// IsKind 檢查err是否屬於指定分類
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsValidation(err error) bool            { return IsKind(err, KindValidation) }
func IsNotFound(err error) bool              { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool              { return IsKind(err, KindConflict) }
func IsInsufficientInventory(err error) bool { return IsKind(err, KindInsufficientInventory) }
func IsAuthorization(err error) bool         { return IsKind(err, KindAuthorization) }
func IsInternal(err error) bool              { return IsKind(err, KindInternal) }
