package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	err := s.db.WithContext(ctx).Create(product).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("product code %s already exists", product.Code)
	}
	return err
}

func (s *ProductRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product %d not found", productID)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetProductByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Order("product_id").Find(&products).Error
	return products, err
}

func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

func (s *ProductRepo) GetProductInventory(ctx context.Context, productID uint) (int, error) {
	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return int(product.Inventory), nil
}

// AddProductInventory 增加庫存，回傳異動後數量
func (s *ProductRepo) AddProductInventory(ctx context.Context, productID uint, quantity uint) (int, error) {
	var current int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", productID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product %d not found", productID)
			}
			return err
		}

		if err := tx.Model(&model.Product{}).
			Where("product_id = ?", productID).
			Update("inventory", gorm.Expr("inventory + ?", quantity)).Error; err != nil {
			return err
		}

		current = int(product.Inventory) + int(quantity)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return current, nil
}

// DeductProductInventory 扣減庫存，不足時回傳insufficient inventory
// 檢查前先鎖住product row，兩個並發扣減不會都通過檢查把庫存扣成負的
// 注意: 訂單/金流流程目前只驗證庫存不扣減，這個方法給賣家盤點用
func (s *ProductRepo) DeductProductInventory(ctx context.Context, productID uint, quantity uint) (int, error) {
	var current int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", productID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product %d not found", productID)
			}
			return err
		}

		if product.Inventory < quantity {
			return apperr.InsufficientInventory("insufficient inventory for product %d", productID)
		}

		if err := tx.Model(&model.Product{}).
			Where("product_id = ?", productID).
			Update("inventory", gorm.Expr("inventory - ?", quantity)).Error; err != nil {
			return err
		}

		current = int(product.Inventory) - int(quantity)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return current, nil
}

func (s *ProductRepo) HardDeleteProduct(ctx context.Context, productID uint) error {
	return s.db.WithContext(ctx).Unscoped().Where("product_id = ?", productID).Delete(&model.Product{}).Error
}
