package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// InitPendingOrderIndex 同一買家同時只能有一張pending訂單
// AutoMigrate做不了partial index，這裡自己補
// 冪等性
func (s *OrderRepo) InitPendingOrderIndex() error {
	return s.db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_user_pending
		 ON orders (user_id) WHERE status = 'pending' AND deleted_at IS NULL`,
	).Error
}

// Create - 創建訂單，order與所有items一次寫入
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 根據用戶ID查詢訂單
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").Where("user_id = ?", userID).
		Order("order_id").Find(&orders).Error
	return orders, err
}

// Read - 查詢所有訂單
func (s *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").Order("order_id").Find(&orders).Error
	return orders, err
}

// 分頁查詢訂單
func (s *OrderRepo) GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize

	if err := s.db.WithContext(ctx).Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := s.db.WithContext(ctx).Preload("OrderItems").Order("order_id").
		Offset(offset).Limit(pageSize).Find(&orders).Error

	return orders, total, err
}

// AddItemToPendingOrder - get-or-create pending訂單後掛上line
// pending訂單以 ON CONFLICT DO NOTHING 取得: 撞到唯一索引時insert不落地也不會讓
// postgres transaction進入aborted狀態，RowsAffected為0就改鎖既有的那張
// line已存在時數量累加，price維持建立當下快照，不重抓
// total每次異動後由所有line重算
func (s *OrderRepo) AddItemToPendingOrder(ctx context.Context, userID uint, product *model.Product, quantity int) (*model.Order, error) {
	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := &model.Order{
			UserID: userID,
			Status: model.OrderStatusPending,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(order)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// 已有pending訂單，鎖住後沿用
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(order, "user_id = ? AND status = ?", userID, model.OrderStatusPending).Error
			if err != nil {
				return err
			}
		}
		orderID = order.OrderID

		var item model.OrderItem
		err := tx.Where("order_id = ? AND product_id = ?", order.OrderID, product.ProductID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tx.Create(&model.OrderItem{
				OrderID:   order.OrderID,
				ProductID: product.ProductID,
				Quantity:  quantity,
				Price:     product.Price, // 單價快照
			}).Error
		} else if err == nil {
			err = tx.Model(&item).Update("quantity", item.Quantity+quantity).Error
		}
		if err != nil {
			return err
		}

		return recomputeTotal(tx, order.OrderID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrderByID(ctx, orderID)
}

// Update - 更新訂單狀態
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("order %d not found", orderID)
	}
	return nil
}

// ReconcileOrder - 以提交的lines對既有lines做三方diff (update / create / delete)
// 有OrderItemID且存在的覆寫，沒有的新增，既有但未提交的刪除
// 全部在一個transaction內，中途失敗訂單保持原狀
func (s *OrderRepo) ReconcileOrder(ctx context.Context, orderID uint, status *model.OrderStatus, items []model.OrderItem) (*model.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "order_id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("order %d not found", orderID)
		}
		if err != nil {
			return err
		}

		if status != nil {
			if err := tx.Model(&order).Update("status", *status).Error; err != nil {
				return err
			}
		}

		if items != nil {
			var existing []model.OrderItem
			if err := tx.Where("order_id = ?", orderID).Find(&existing).Error; err != nil {
				return err
			}
			existingMap := make(map[uint]model.OrderItem, len(existing))
			for _, item := range existing {
				existingMap[item.OrderItemID] = item
			}

			submitted := make(map[uint]struct{}, len(items))
			for _, item := range items {
				if item.OrderItemID != 0 {
					submitted[item.OrderItemID] = struct{}{}
				}
				if old, ok := existingMap[item.OrderItemID]; item.OrderItemID != 0 && ok {
					err = tx.Model(&old).Updates(map[string]interface{}{
						"product_id": item.ProductID,
						"quantity":   item.Quantity,
						"price":      item.Price,
					}).Error
				} else {
					err = tx.Create(&model.OrderItem{
						OrderID:   orderID,
						ProductID: item.ProductID,
						Quantity:  item.Quantity,
						Price:     item.Price,
					}).Error
				}
				if err != nil {
					return err
				}
			}

			// 未提交的既有line刪除
			for id := range existingMap {
				if _, keep := submitted[id]; !keep {
					if err := tx.Unscoped().Delete(&model.OrderItem{}, "order_item_id = ?", id).Error; err != nil {
						return err
					}
				}
			}
		}

		return recomputeTotal(tx, orderID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrderByID(ctx, orderID)
}

// Delete - 硬刪除訂單
// 已有transaction的訂單不可刪除，財務紀錄要留
func (s *OrderRepo) HardDeleteOrder(ctx context.Context, orderID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Transaction{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("order %d has a linked transaction and cannot be deleted", orderID)
		}

		result := tx.Unscoped().Where("order_id = ?", orderID).Delete(&model.Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("order %d not found", orderID)
		}
		return tx.Unscoped().Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error
	})
}

// recomputeTotal 由lines重算訂單總額後寫回
// total永遠是計算值，不信任外部輸入
func recomputeTotal(tx *gorm.DB, orderID uint) error {
	var items []model.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	return tx.Model(&model.Order{}).Where("order_id = ?", orderID).
		Update("total_amount", model.CalculateTotal(items)).Error
}
