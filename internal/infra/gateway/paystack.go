package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// PaystackGateway 以Paystack verify endpoint確認付款
// GET {base}/transaction/verify/{reference}
type PaystackGateway struct {
	client    *http.Client
	baseURL   string
	secretKey string
	timeout   time.Duration
}

func NewPaystackGateway(baseURL, secretKey string, timeout time.Duration) *PaystackGateway {
	return &PaystackGateway{
		client:    &http.Client{},
		baseURL:   baseURL,
		secretKey: secretKey,
		timeout:   timeout,
	}
}

// paystack verify回應的必要欄位
type paystackVerifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
}

// Verify 驗證付款reference
// 逾時、連線失敗等都轉成GatewayError，不會hang住呼叫端
func (g *PaystackGateway) Verify(ctx context.Context, reference string, amount decimal.Decimal, currency string) (*VerifyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Gateway(apperr.GatewayInvalidRequest, "build verify request", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperr.Gateway(apperr.GatewayNetwork, "verify request timed out", err)
		}
		return nil, apperr.Gateway(apperr.GatewayNetwork, "verify request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperr.Gateway(apperr.GatewayAuth, fmt.Sprintf("verify returned %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperr.Gateway(apperr.GatewayRateLimit, "verify rate limited", nil)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, apperr.Gateway(apperr.GatewayInvalidRequest, fmt.Sprintf("verify returned %d", resp.StatusCode), nil)
	case resp.StatusCode >= 500:
		return nil, apperr.Gateway(apperr.GatewayUnknown, fmt.Sprintf("verify returned %d", resp.StatusCode), nil)
	}

	var body paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperr.Gateway(apperr.GatewayUnknown, "malformed verify response", err)
	}

	return &VerifyResult{
		Succeeded: body.Status && body.Data.Status == "success",
	}, nil
}

var _ PaymentGateway = (*PaystackGateway)(nil)
