package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusFailed, TransactionStatusRefunded:
		return true
	}
	return false
}

// 支援的付款方式
type PaymentMethod string

const (
	PaymentMethodPaystack     PaymentMethod = "paystack"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodPaystack, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Transaction 付款紀錄
// 一張訂單只會有一筆 (order_id 唯一索引，於寫入時強制)
// Amount 於建立時由訂單總額複製，建立後不可變
type Transaction struct {
	TransactionID    uint              `gorm:"primaryKey" json:"transaction_id"`
	OrderID          uint              `gorm:"not null;uniqueIndex" json:"order_id"` // 外鍵，關聯到 Order
	Amount           decimal.Decimal   `gorm:"not null;type:decimal(10,2)" json:"amount"`
	PaymentMethod    PaymentMethod     `gorm:"not null;type:varchar(50)" json:"payment_method"`
	PaymentReference string            `gorm:"not null;type:varchar(255)" json:"payment_reference"`
	Status           TransactionStatus `gorm:"not null;type:varchar(20)" json:"status"`
	TransactionDate  time.Time         `gorm:"not null;default:now()" json:"transaction_date"`
	BaseModel
}

// PaymentAttempt 付款嘗試紀錄
// 於呼叫gateway前先落地，commit後標記reconciled
// gateway成功但本地寫入失敗時，這是唯一可以追查的線索 (沒有自動replay)
type PaymentAttempt struct {
	AttemptID        uint      `gorm:"primaryKey" json:"attempt_id"`
	OrderID          uint      `gorm:"not null;index" json:"order_id"`
	PaymentReference string    `gorm:"not null;index;type:varchar(255)" json:"payment_reference"`
	Reconciled       bool      `gorm:"not null;default:false" json:"reconciled"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
}
