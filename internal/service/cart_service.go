package service

import (
	"context"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

// CartItemInput 建立購物車時的初始item
type CartItemInput struct {
	ProductID uint
	Quantity  int
}

type ICartService interface {
	CreateCart(ctx context.Context, actor model.Actor, items []CartItemInput) (*model.CartView, error)
	GetCart(ctx context.Context, actor model.Actor, cartID uint) (*model.CartView, error)
	ListCarts(ctx context.Context, actor model.Actor) ([]model.CartView, error)
	AddItem(ctx context.Context, actor model.Actor, cartID, productID uint, quantity int) (*model.CartView, error)
	RemoveItem(ctx context.Context, actor model.Actor, cartID, productID uint) (*model.CartView, error)
	UpdateItem(ctx context.Context, actor model.Actor, cartID, productID uint, quantity int) (*model.CartView, error)
	Clear(ctx context.Context, actor model.Actor, cartID uint) (*model.CartView, error)
}

// 購物車本身不存總金額，讀取時依目前商品價格計算
type CartService struct {
	cartRepo    db.ICartRepository
	productRepo db.IProductRepository
}

func NewCartService(cartRepo db.ICartRepository, productRepo db.IProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// CreateCart 創建購物車
// 一人一車，已有購物車回傳conflict
// 初始items要全部驗證通過才會寫入，任何一筆失敗整台車都不會建立
func (s *CartService) CreateCart(ctx context.Context, actor model.Actor, items []CartItemInput) (*model.CartView, error) {
	cartItems := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("Quantity must be greater than zero.")
		}
		if _, err := s.productRepo.GetProductByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
		cartItems = append(cartItems, model.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	cart := &model.Cart{
		UserID:    actor.UserID,
		CartItems: cartItems,
	}
	if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
		return nil, err
	}

	return s.buildView(ctx, cart)
}

func (s *CartService) GetCart(ctx context.Context, actor model.Actor, cartID uint) (*model.CartView, error) {
	cart, err := s.getOwnedCart(ctx, actor, cartID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

// ListCarts admin看全部，買家只看自己的
func (s *CartService) ListCarts(ctx context.Context, actor model.Actor) ([]model.CartView, error) {
	var carts []model.Cart
	var err error
	if actor.IsAdmin() {
		carts, err = s.cartRepo.GetAllCarts(ctx)
	} else {
		var cart *model.Cart
		cart, err = s.cartRepo.GetCartByUserID(ctx, actor.UserID)
		if apperr.IsNotFound(err) {
			return []model.CartView{}, nil
		}
		if cart != nil {
			carts = []model.Cart{*cart}
		}
	}
	if err != nil {
		return nil, err
	}

	views := make([]model.CartView, 0, len(carts))
	for i := range carts {
		view, err := s.buildView(ctx, &carts[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// AddItem 同商品已存在則數量累加
func (s *CartService) AddItem(ctx context.Context, actor model.Actor, cartID, productID uint, quantity int) (*model.CartView, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("Quantity must be a positive integer.")
	}
	if _, err := s.getOwnedCart(ctx, actor, cartID); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.AddItem(ctx, cartID, productID, quantity); err != nil {
		return nil, err
	}

	return s.refresh(ctx, cartID)
}

// RemoveItem 整條line刪除
func (s *CartService) RemoveItem(ctx context.Context, actor model.Actor, cartID, productID uint) (*model.CartView, error) {
	if _, err := s.getOwnedCart(ctx, actor, cartID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.RemoveItem(ctx, cartID, productID); err != nil {
		return nil, err
	}

	return s.refresh(ctx, cartID)
}

// UpdateItem 覆寫數量 (與AddItem的累加語意不同)
func (s *CartService) UpdateItem(ctx context.Context, actor model.Actor, cartID, productID uint, quantity int) (*model.CartView, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("Quantity must be greater than zero.")
	}
	if _, err := s.getOwnedCart(ctx, actor, cartID); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.UpdateItem(ctx, cartID, productID, quantity); err != nil {
		return nil, err
	}

	return s.refresh(ctx, cartID)
}

// Clear 清空購物車，空車clear算使用者錯誤
func (s *CartService) Clear(ctx context.Context, actor model.Actor, cartID uint) (*model.CartView, error) {
	if _, err := s.getOwnedCart(ctx, actor, cartID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, cartID); err != nil {
		return nil, err
	}

	return s.refresh(ctx, cartID)
}

// CalculateCartAmount 依目前商品價格計算購物車總額
func (s *CartService) CalculateCartAmount(ctx context.Context, cartItems ...model.CartItem) (decimal.Decimal, error) {
	amount := decimal.NewFromInt(0)
	for _, cartItem := range cartItems {
		product, err := s.productRepo.GetProductByID(ctx, cartItem.ProductID)
		if err != nil {
			return decimal.Decimal{}, err
		}
		amount = amount.Add(product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))
	}
	return amount, nil
}

// getOwnedCart 讀取cart並檢查擁有權，admin不受限
func (s *CartService) getOwnedCart(ctx context.Context, actor model.Actor, cartID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(cart.UserID) {
		// 對非擁有者隱藏購物車存在
		return nil, apperr.NotFound("cart %d not found", cartID)
	}
	return cart, nil
}

func (s *CartService) refresh(ctx context.Context, cartID uint) (*model.CartView, error) {
	cart, err := s.cartRepo.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

func (s *CartService) buildView(ctx context.Context, cart *model.Cart) (*model.CartView, error) {
	total, err := s.CalculateCartAmount(ctx, cart.CartItems...)
	if err != nil {
		return nil, err
	}
	return &model.CartView{Cart: *cart, TotalAmount: total}, nil
}

var _ ICartService = (*CartService)(nil)
