package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

// Create - 創建購物車，連同初始items一次寫入
// 同一買家已有購物車時回傳conflict (靠user_id唯一索引，不做先查再建)
func (s *CartRepo) CreateCart(ctx context.Context, cart *model.Cart) error {
	err := s.db.WithContext(ctx).Create(cart).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("user %d already has a cart", cart.UserID)
	}
	return err
}

// Read - 根據ID查詢購物車
func (s *CartRepo) GetCartByID(ctx context.Context, cartID uint) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).Preload("CartItems").First(&cart, "cart_id = ?", cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("cart %d not found", cartID)
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Read - 根據用戶ID查詢購物車
func (s *CartRepo) GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).Preload("CartItems").First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("cart for user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Read - 查詢所有購物車 (admin用)
func (s *CartRepo) GetAllCarts(ctx context.Context) ([]model.Cart, error) {
	var carts []model.Cart
	err := s.db.WithContext(ctx).Preload("CartItems").Order("cart_id").Find(&carts).Error
	return carts, err
}

// AddItem - 同商品已存在則數量累加，否則新增一筆
// 鎖住cart row，兩個並發add不會互吃增量
func (s *CartRepo) AddItem(ctx context.Context, cartID, productID uint, quantity int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCart(tx, cartID); err != nil {
			return err
		}

		var item model.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.CartItem{
				CartID:    cartID,
				ProductID: productID,
				Quantity:  quantity,
			}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&item).Update("quantity", item.Quantity+quantity).Error
	})
}

// UpdateItem - 覆寫數量，不存在則建立 (跟AddItem的累加語意不同)
func (s *CartRepo) UpdateItem(ctx context.Context, cartID, productID uint, quantity int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCart(tx, cartID); err != nil {
			return err
		}

		var item model.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.CartItem{
				CartID:    cartID,
				ProductID: productID,
				Quantity:  quantity,
			}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&item).Update("quantity", quantity).Error
	})
}

// RemoveItem - 整條line刪除，不是減量
func (s *CartRepo) RemoveItem(ctx context.Context, cartID, productID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCart(tx, cartID); err != nil {
			return err
		}

		result := tx.Unscoped().Where("cart_id = ? AND product_id = ?", cartID, productID).
			Delete(&model.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("product %d not in cart %d", productID, cartID)
		}
		return nil
	})
}

// Clear - 清空購物車
// 空車clear視為使用者錯誤，不是no-op
func (s *CartRepo) Clear(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCart(tx, cartID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.CartItem{}).Where("cart_id = ?", cartID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.Validation("the cart is already empty")
		}

		return tx.Unscoped().Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
	})
}

// Delete - 硬刪除購物車 (user刪除時cascade)
func (s *CartRepo) HardDeleteCart(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).Unscoped().Where("cart_id = ?", cartID).Delete(&model.Cart{}).Error
}

// lockCart 以 SELECT ... FOR UPDATE 鎖住cart row
// 同一購物車的異動靠這裡序列化
func lockCart(tx *gorm.DB, cartID uint) error {
	var cart model.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "cart_id = ?", cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("cart %d not found", cartID)
	}
	return err
}
