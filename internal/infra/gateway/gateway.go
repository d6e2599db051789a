package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// VerifyResult gateway對一筆付款reference的裁決
// Succeeded只在err == nil時有意義
type VerifyResult struct {
	Succeeded bool
}

// PaymentGateway 外部金流provider的窄介面
// 只做reference驗證/扣款確認，reconciler不關心provider內部
// 實作要在ctx逾時內回覆，逾時視為gateway network錯誤
type PaymentGateway interface {
	Verify(ctx context.Context, reference string, amount decimal.Decimal, currency string) (*VerifyResult, error)
}
