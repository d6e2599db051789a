package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   uint            `gorm:"primaryKey" json:"product_id"`
	Code        string          `gorm:"not null;type:varchar(100);unique" json:"code"`
	Name        string          `gorm:"not null;type:varchar(100)" json:"name"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Inventory   uint            `gorm:"not null;type:int;default:0" json:"inventory"`
	SellerID    uint            `gorm:"not null" json:"seller_id"` // 外鍵，關聯到 User (seller)
	Description string          `gorm:"not null;type:text" json:"description"`
	InStock     bool            `gorm:"not null;default:true" json:"in_stock"`
	Deactivated bool            `gorm:"not null;default:false" json:"deactivated"`
	BaseModel                   // CreatedAt, UpdatedAt, DeletedAt
}
