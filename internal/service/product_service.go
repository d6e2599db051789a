package service

import (
	"context"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Code        string
	Name        string
	Price       decimal.Decimal
	Inventory   uint
	Description string
}

type IProductService interface {
	CreateProduct(ctx context.Context, actor model.Actor, input ProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)
	GetProductByCode(ctx context.Context, code string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, actor model.Actor, product *model.Product) error
	AddInventory(ctx context.Context, actor model.Actor, productID uint, quantity uint) (int, error)
	DeductInventory(ctx context.Context, actor model.Actor, productID uint, quantity uint) (int, error)
	DeleteProduct(ctx context.Context, actor model.Actor, productID uint) error
}

// ProductService 商品目錄
// productRepo通常注入redis_decorator包過的版本，讀取走cache-aside
type ProductService struct {
	productRepo db.IProductRepository
}

func NewProductService(productRepo db.IProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) CreateProduct(ctx context.Context, actor model.Actor, input ProductInput) (*model.Product, error) {
	if actor.Role != model.RoleSeller && !actor.IsAdmin() {
		return nil, apperr.Authorization("only sellers can create products")
	}
	if input.Code == "" {
		return nil, apperr.Validation("product code is required")
	}
	if input.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperr.Validation("product price must not be negative")
	}

	product := &model.Product{
		Code:        input.Code,
		Name:        input.Name,
		Price:       input.Price,
		Inventory:   input.Inventory,
		SellerID:    actor.UserID,
		Description: input.Description,
		InStock:     input.Inventory > 0,
	}
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	return s.productRepo.GetProductByID(ctx, productID)
}

func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*model.Product, error) {
	return s.productRepo.GetProductByCode(ctx, code)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.GetAllProducts(ctx)
}

// UpdateProduct 只有商品擁有者或admin可以改
func (s *ProductService) UpdateProduct(ctx context.Context, actor model.Actor, product *model.Product) error {
	existing, err := s.productRepo.GetProductByID(ctx, product.ProductID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !actor.Owns(existing.SellerID) {
		return apperr.Authorization("only the product owner can update it")
	}
	product.SellerID = existing.SellerID
	return s.productRepo.UpdateProduct(ctx, product)
}

func (s *ProductService) AddInventory(ctx context.Context, actor model.Actor, productID uint, quantity uint) (int, error) {
	if err := s.checkProductOwner(ctx, actor, productID); err != nil {
		return 0, err
	}
	return s.productRepo.AddProductInventory(ctx, productID, quantity)
}

func (s *ProductService) DeductInventory(ctx context.Context, actor model.Actor, productID uint, quantity uint) (int, error) {
	if err := s.checkProductOwner(ctx, actor, productID); err != nil {
		return 0, err
	}
	return s.productRepo.DeductProductInventory(ctx, productID, quantity)
}

func (s *ProductService) DeleteProduct(ctx context.Context, actor model.Actor, productID uint) error {
	if err := s.checkProductOwner(ctx, actor, productID); err != nil {
		return err
	}
	return s.productRepo.HardDeleteProduct(ctx, productID)
}

func (s *ProductService) checkProductOwner(ctx context.Context, actor model.Actor, productID uint) error {
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !actor.Owns(product.SellerID) {
		return apperr.Authorization("only the product owner can manage inventory")
	}
	return nil
}

var _ IProductService = (*ProductService)(nil)
