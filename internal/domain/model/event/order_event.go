package event

import (
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderPlacedEvent struct {
	BaseEvent
	OrderID     uint            `json:"order_id"`
	UserID      uint            `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
}

func (e *OrderPlacedEvent) Type() EventType {
	return OrderPlacedEventName
}

func NewOrderPlacedEvent(order *model.Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.NewString(),
			AggregateID: fmt.Sprintf("order-%d", order.OrderID),
			CreatedAt:   time.Now().UTC(),
			EventType:   OrderPlacedEventName,
		},
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
	}
}

type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    uint   `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

func (e *OrderStatusChangedEvent) Type() EventType {
	return OrderStatusChangedEventName
}

func NewOrderStatusChangedEvent(orderID uint, from, to model.OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.NewString(),
			AggregateID: fmt.Sprintf("order-%d", orderID),
			CreatedAt:   time.Now().UTC(),
			EventType:   OrderStatusChangedEventName,
		},
		OrderID:    orderID,
		FromStatus: string(from),
		ToStatus:   string(to),
	}
}
