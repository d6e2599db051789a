package model

import (
	"github.com/shopspring/decimal"
)

// Cart 一個買家只會有一個購物車 (user_id 唯一索引)
// Cart本身不儲存總金額，總金額於讀取時依目前商品價格計算
type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"` // 外鍵，關聯到 User
	CartItems []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cart_items"`
	BaseModel
}

// CartItem 同一購物車同一商品只會有一筆 (cart_id, product_id 唯一)
// quantity 恆大於 0，歸零時直接刪除
type CartItem struct {
	CartItemID uint `gorm:"primaryKey" json:"cart_item_id"`
	CartID     uint `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID  uint `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity   int  `gorm:"not null" json:"quantity"`
	BaseModel
}

// CartView 回傳給呼叫端的購物車視圖，帶計算後總金額
type CartView struct {
	Cart
	TotalAmount decimal.Decimal `json:"total_amount"`
}
