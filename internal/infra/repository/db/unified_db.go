package db

import (
	"context"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"gorm.io/gorm"
)

// UnifiedDB 統一的資料庫介面
type UnifiedDB interface {
	// 基礎操作
	GetDB() *gorm.DB
	InitMigrate() error

	ICartRepository
	IOrderRepository
	IProductRepository
	ITransactionRepository
	IUserRepository
}

// ICartRepository Cart 相關操作介面
type ICartRepository interface {
	CreateCart(ctx context.Context, cart *model.Cart) error
	GetCartByID(ctx context.Context, cartID uint) (*model.Cart, error)
	GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error)
	GetAllCarts(ctx context.Context) ([]model.Cart, error)
	AddItem(ctx context.Context, cartID, productID uint, quantity int) error
	UpdateItem(ctx context.Context, cartID, productID uint, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uint) error
	Clear(ctx context.Context, cartID uint) error
	HardDeleteCart(ctx context.Context, cartID uint) error
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	InitPendingOrderIndex() error
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error)
	AddItemToPendingOrder(ctx context.Context, userID uint, product *model.Product, quantity int) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) error
	ReconcileOrder(ctx context.Context, orderID uint, status *model.OrderStatus, items []model.OrderItem) (*model.Order, error)
	HardDeleteOrder(ctx context.Context, orderID uint) error
}

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID uint) (*model.Product, error)
	GetProductByCode(ctx context.Context, code string) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	GetProductInventory(ctx context.Context, productID uint) (int, error)
	AddProductInventory(ctx context.Context, productID uint, quantity uint) (int, error)
	DeductProductInventory(ctx context.Context, productID uint, quantity uint) (int, error)
	HardDeleteProduct(ctx context.Context, productID uint) error
}

// ITransactionRepository Transaction 相關操作介面
type ITransactionRepository interface {
	CreateWithOrderStatus(ctx context.Context, txn *model.Transaction, orderStatus model.OrderStatus) error
	GetTransactionByID(ctx context.Context, transactionID uint) (*model.Transaction, error)
	GetTransactionByOrderID(ctx context.Context, orderID uint) (*model.Transaction, error)
	GetTransactionsByUserID(ctx context.Context, userID uint) ([]model.Transaction, error)
	GetAllTransactions(ctx context.Context) ([]model.Transaction, error)
	UpdateStatusWithOrder(ctx context.Context, transactionID uint, status model.TransactionStatus) (*model.Transaction, error)
	CreatePaymentAttempt(ctx context.Context, attempt *model.PaymentAttempt) error
	MarkAttemptReconciled(ctx context.Context, attemptID uint) error
	ListUnreconciledAttempts(ctx context.Context) ([]model.PaymentAttempt, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, userID uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, userID uint) error
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*CartRepo
	*OrderRepo
	*ProductRepo
	*TransactionRepo
	*UserRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(db *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(db)
	return &UnifiedDBImpl{
		db:              db,
		dbDao:           dbDao,
		CartRepo:        NewCartRepo(dbDao),
		OrderRepo:       NewOrderRepo(dbDao),
		ProductRepo:     NewProductRepo(dbDao),
		TransactionRepo: NewTransactionRepo(dbDao),
		UserRepo:        NewUserRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	if err := u.dbDao.InitMigrate(); err != nil {
		return err
	}
	return u.OrderRepo.InitPendingOrderIndex()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.db
}

var _ UnifiedDB = (*UnifiedDBImpl)(nil)
