package model

import (
	"github.com/shopspring/decimal"
)

// 訂單狀態
// pending -> processing -> shipped -> delivered 為正常流程
// paid / failed 由金流結果驅動, canceled 只會從 pending 進入
// delivered / canceled / failed 為終態
// 注意: 目前僅驗證狀態值合法，不強制狀態機邊，任何合法狀態都可互轉
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusFailed     OrderStatus = "failed"
)

var orderStatusSet = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
	OrderStatusCanceled:   {},
	OrderStatusPaid:       {},
	OrderStatusFailed:     {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusSet[s]
	return ok
}

// OrderStatusValues 回傳所有合法狀態，錯誤訊息用
func OrderStatusValues() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCanceled,
		OrderStatusPaid,
		OrderStatusFailed,
	}
}

// Order 訂單
// TotalAmount 恆等於所有order item的 quantity * price 總和
// 每次異動order item後重新計算，不信任外部輸入
type Order struct {
	OrderID     uint            `gorm:"primaryKey" json:"order_id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"` // 外鍵，關聯到 User
	OrderItems  []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	TotalAmount decimal.Decimal `gorm:"not null;type:decimal(10,2);default:0" json:"total_amount"`
	Status      OrderStatus     `gorm:"not null;type:varchar(20);default:'pending'" json:"status"`
	BaseModel
}

// OrderItem 訂單項目
// Price 為建立當下的商品單價快照，之後商品調價不影響
type OrderItem struct {
	OrderItemID uint            `gorm:"primaryKey" json:"order_item_id"`
	OrderID     uint            `gorm:"not null;uniqueIndex:idx_order_product" json:"order_id"`
	ProductID   uint            `gorm:"not null;uniqueIndex:idx_order_product" json:"product_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	BaseModel
}

// Subtotal 單項小計
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotal 由order items計算訂單總額
func CalculateTotal(items []OrderItem) decimal.Decimal {
	total := decimal.NewFromInt(0)
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
