package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	evt_model "github.com/RoyceAzure/lab/ecomhub/internal/domain/model/event"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/producer"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/db"
	"github.com/rs/zerolog/log"
)

// OrderItemInput 建立訂單時的line輸入
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// OrderItemUpdate 更新訂單時的line輸入
// OrderItemID為0表示新line
type OrderItemUpdate struct {
	OrderItemID uint
	ProductID   uint
	Quantity    int
}

type IOrderService interface {
	CreateOrder(ctx context.Context, actor model.Actor, items []OrderItemInput) (*model.Order, error)
	AddToCart(ctx context.Context, actor model.Actor, productID uint, quantity int) (string, error)
	GetOrder(ctx context.Context, actor model.Actor, orderID uint) (*model.Order, error)
	ListOrders(ctx context.Context, actor model.Actor) ([]model.Order, error)
	ChangeStatus(ctx context.Context, actor model.Actor, orderID uint, status model.OrderStatus) (*model.Order, error)
	UpdateOrder(ctx context.Context, actor model.Actor, orderID uint, status *model.OrderStatus, items []OrderItemUpdate) (*model.Order, error)
	DeleteOrder(ctx context.Context, actor model.Actor, orderID uint) error
}

type OrderService struct {
	orderRepo   db.IOrderRepository
	productRepo db.IProductRepository
	producer    producer.IOrderEventProducer // 可為nil，事件發布失敗不影響主流程
}

func NewOrderService(orderRepo db.IOrderRepository, productRepo db.IProductRepository, producer producer.IOrderEventProducer) *OrderService {
	return &OrderService{orderRepo: orderRepo, productRepo: productRepo, producer: producer}
}

// CreateOrder 創建訂單
// 每條line的單價於此刻由商品目錄快照，total = sum(quantity * price)
// 注意: 庫存驗證只看第一條line就返回，跟來源行為一致，先不修
func (s *OrderService) CreateOrder(ctx context.Context, actor model.Actor, items []OrderItemInput) (*model.Order, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("order items are required")
	}

	orderItems := make([]model.OrderItem, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("Quantity must be greater than zero.")
		}
		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		if i == 0 && int(product.Inventory) < item.Quantity {
			return nil, apperr.InsufficientInventory("Insufficient inventory for product %d", product.ProductID)
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price, // 單價快照
		})
	}

	order := &model.Order{
		UserID:      actor.UserID,
		Status:      model.OrderStatusPending,
		OrderItems:  orderItems,
		TotalAmount: model.CalculateTotal(orderItems),
	}
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order.OrderID, evt_model.NewOrderPlacedEvent(order))
	return order, nil
}

// AddToCart 掛商品到pending訂單
// 沒有pending訂單就建一張 (原子upsert，沒有get-or-create空窗)
// line已存在則數量累加，price維持第一次的快照
func (s *OrderService) AddToCart(ctx context.Context, actor model.Actor, productID uint, quantity int) (string, error) {
	if quantity <= 0 {
		return "", apperr.Validation("Quantity must be positive")
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if int(product.Inventory) < quantity {
		return "", apperr.InsufficientInventory("Insufficient inventory")
	}

	if _, err := s.orderRepo.AddItemToPendingOrder(ctx, actor.UserID, product, quantity); err != nil {
		return "", err
	}

	return fmt.Sprintf("Product '%s' (ID: %d) added to cart. Quantity: %d",
		product.Name, product.ProductID, quantity), nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor model.Actor, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(order.UserID) {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	return order, nil
}

// ListOrders admin看全部，買家只看自己的
func (s *OrderService) ListOrders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if actor.IsAdmin() {
		return s.orderRepo.GetAllOrders(ctx)
	}
	return s.orderRepo.GetOrdersByUserID(ctx, actor.UserID)
}

// ChangeStatus 變更訂單狀態，admin限定
// 只驗證狀態值合法，不驗證狀態機邊 (任何合法狀態可互轉，與來源一致)
func (s *OrderService) ChangeStatus(ctx context.Context, actor model.Actor, orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("only administrators can change order status")
	}
	if !status.IsValid() {
		return nil, apperr.Validation("Invalid status. Allowed values are: %s", allowedStatusValues())
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	s.publish(ctx, orderID, evt_model.NewOrderStatusChangedEvent(orderID, from, status))
	return s.orderRepo.GetOrderByID(ctx, orderID)
}

// UpdateOrder admin限定，提交的lines與既有lines做三方diff
// 有id的覆寫，沒id的新增，未提交的刪除，全程一個transaction
func (s *OrderService) UpdateOrder(ctx context.Context, actor model.Actor, orderID uint, status *model.OrderStatus, items []OrderItemUpdate) (*model.Order, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("only administrators can update orders")
	}
	if status != nil && !status.IsValid() {
		return nil, apperr.Validation("Invalid status. Allowed values are: %s", allowedStatusValues())
	}

	var orderItems []model.OrderItem
	if items != nil {
		orderItems = make([]model.OrderItem, 0, len(items))
		for _, item := range items {
			if item.Quantity <= 0 {
				return nil, apperr.Validation("Quantity must be greater than zero.")
			}
			product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			orderItems = append(orderItems, model.OrderItem{
				OrderItemID: item.OrderItemID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				Price:       product.Price,
			})
		}
	}

	return s.orderRepo.ReconcileOrder(ctx, orderID, status, orderItems)
}

// DeleteOrder admin限定，有transaction的訂單repo會擋下
func (s *OrderService) DeleteOrder(ctx context.Context, actor model.Actor, orderID uint) error {
	if !actor.IsAdmin() {
		return apperr.Authorization("only administrators can delete orders")
	}
	return s.orderRepo.HardDeleteOrder(ctx, orderID)
}

// publish 發布領域事件，失敗只記log
func (s *OrderService) publish(ctx context.Context, orderID uint, evt evt_model.Event) {
	if s.producer == nil {
		return
	}
	if err := s.producer.ProduceEvent(ctx, orderID, evt); err != nil {
		log.Error().Err(err).Uint("order_id", orderID).Str("event", string(evt.Type())).
			Msg("produce order event failed")
	}
}

var _ IOrderService = (*OrderService)(nil)

func allowedStatusValues() string {
	values := model.OrderStatusValues()
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = string(v)
	}
	return strings.Join(strs, ",")
}
