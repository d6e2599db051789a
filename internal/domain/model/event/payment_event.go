package event

import (
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentCompletedEvent struct {
	BaseEvent
	TransactionID uint            `json:"transaction_id"`
	OrderID       uint            `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

func (e *PaymentCompletedEvent) Type() EventType {
	return PaymentCompletedEventName
}

type PaymentFailedEvent struct {
	BaseEvent
	TransactionID uint            `json:"transaction_id"`
	OrderID       uint            `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

func (e *PaymentFailedEvent) Type() EventType {
	return PaymentFailedEventName
}

// NewPaymentEvent 依transaction結果產生對應事件
func NewPaymentEvent(txn *model.Transaction) Event {
	base := BaseEvent{
		EventID:     uuid.NewString(),
		AggregateID: fmt.Sprintf("order-%d", txn.OrderID),
		CreatedAt:   time.Now().UTC(),
	}

	if txn.Status == model.TransactionStatusCompleted {
		base.EventType = PaymentCompletedEventName
		return &PaymentCompletedEvent{
			BaseEvent:     base,
			TransactionID: txn.TransactionID,
			OrderID:       txn.OrderID,
			Amount:        txn.Amount,
			PaymentMethod: string(txn.PaymentMethod),
		}
	}

	base.EventType = PaymentFailedEventName
	return &PaymentFailedEvent{
		BaseEvent:     base,
		TransactionID: txn.TransactionID,
		OrderID:       txn.OrderID,
		Amount:        txn.Amount,
		PaymentMethod: string(txn.PaymentMethod),
	}
}
