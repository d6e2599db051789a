package apperr

import (
	"errors"
	"fmt"
)

// 金流gateway錯誤分類
type GatewayErrorKind string

const (
	GatewayNetwork        GatewayErrorKind = "network"
	GatewayRateLimit      GatewayErrorKind = "rate_limit"
	GatewayInvalidRequest GatewayErrorKind = "invalid_request"
	GatewayAuth           GatewayErrorKind = "auth"
	GatewayUnknown        GatewayErrorKind = "unknown"
)

// ErrPaymentUnavailable 對外統一的金流錯誤訊息
// gateway細節只進log與管理員通知，不外洩provider內部資訊
var ErrPaymentUnavailable = errors.New("payment could not be processed, try again later")

// GatewayError 外部金流provider失敗
// 呼叫端看到的是 ErrPaymentUnavailable，這個型別只在reconciler邊界內部流動
type GatewayError struct {
	GatewayKind GatewayErrorKind
	Detail      string
	err         error
}

func (e *GatewayError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.GatewayKind, e.Detail, e.err)
	}
	return fmt.Sprintf("gateway %s: %s", e.GatewayKind, e.Detail)
}

func (e *GatewayError) Unwrap() error {
	return e.err
}

func Gateway(kind GatewayErrorKind, detail string, err error) *GatewayError {
	return &GatewayError{GatewayKind: kind, Detail: detail, err: err}
}

func IsGateway(err error) bool {
	var e *GatewayError
	return errors.As(err, &e)
}

// GatewayKindOf 取出gateway錯誤分類，非gateway錯誤回傳unknown
func GatewayKindOf(err error) GatewayErrorKind {
	var e *GatewayError
	if errors.As(err, &e) {
		return e.GatewayKind
	}
	return GatewayUnknown
}
