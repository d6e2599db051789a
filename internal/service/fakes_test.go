package service

import (
	"context"
	"sort"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	evt_model "github.com/RoyceAzure/lab/ecomhub/internal/domain/model/event"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/gateway"
	"github.com/shopspring/decimal"
)

// in-memory fakes, 測service層的分支不用拉真DB

type fakeProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*model.Product), nextID: 1}
}

func (f *fakeProductRepo) seed(code string, price int64, inventory uint) *model.Product {
	product := &model.Product{
		ProductID: f.nextID,
		Code:      code,
		Name:      "Product " + code,
		Price:     decimal.NewFromInt(price),
		Inventory: inventory,
	}
	f.products[f.nextID] = product
	f.nextID++
	return product
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	for _, p := range f.products {
		if p.Code == product.Code {
			return apperr.Conflict("product code %s already exists", product.Code)
		}
	}
	product.ProductID = f.nextID
	f.products[f.nextID] = product
	f.nextID++
	return nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, apperr.NotFound("product %d not found", productID)
	}
	cp := *product
	return &cp, nil
}

func (f *fakeProductRepo) GetProductByCode(ctx context.Context, code string) (*model.Product, error) {
	for _, p := range f.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("product %s not found", code)
}

func (f *fakeProductRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ProductID < products[j].ProductID })
	return products, nil
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	if _, ok := f.products[product.ProductID]; !ok {
		return apperr.NotFound("product %d not found", product.ProductID)
	}
	f.products[product.ProductID] = product
	return nil
}

func (f *fakeProductRepo) GetProductInventory(ctx context.Context, productID uint) (int, error) {
	product, ok := f.products[productID]
	if !ok {
		return 0, apperr.NotFound("product %d not found", productID)
	}
	return int(product.Inventory), nil
}

func (f *fakeProductRepo) AddProductInventory(ctx context.Context, productID uint, quantity uint) (int, error) {
	product, ok := f.products[productID]
	if !ok {
		return 0, apperr.NotFound("product %d not found", productID)
	}
	product.Inventory += quantity
	return int(product.Inventory), nil
}

func (f *fakeProductRepo) DeductProductInventory(ctx context.Context, productID uint, quantity uint) (int, error) {
	product, ok := f.products[productID]
	if !ok {
		return 0, apperr.NotFound("product %d not found", productID)
	}
	if product.Inventory < quantity {
		return 0, apperr.InsufficientInventory("insufficient inventory for product %d", productID)
	}
	product.Inventory -= quantity
	return int(product.Inventory), nil
}

func (f *fakeProductRepo) HardDeleteProduct(ctx context.Context, productID uint) error {
	delete(f.products, productID)
	return nil
}

type fakeOrderRepo struct {
	orders     map[uint]*model.Order
	nextID     uint
	nextItemID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*model.Order), nextID: 1, nextItemID: 1}
}

func (f *fakeOrderRepo) InitPendingOrderIndex() error { return nil }

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	order.OrderID = f.nextID
	f.nextID++
	for i := range order.OrderItems {
		order.OrderItems[i].OrderItemID = f.nextItemID
		order.OrderItems[i].OrderID = order.OrderID
		f.nextItemID++
	}
	cp := *order
	f.orders[order.OrderID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })
	return orders, nil
}

func (f *fakeOrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range f.orders {
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })
	return orders, nil
}

func (f *fakeOrderRepo) GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	orders, _ := f.GetAllOrders(ctx)
	total := int64(len(orders))
	start := (page - 1) * pageSize
	if start >= len(orders) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end], total, nil
}

func (f *fakeOrderRepo) AddItemToPendingOrder(ctx context.Context, userID uint, product *model.Product, quantity int) (*model.Order, error) {
	var pending *model.Order
	for _, o := range f.orders {
		if o.UserID == userID && o.Status == model.OrderStatusPending {
			pending = o
			break
		}
	}
	if pending == nil {
		pending = &model.Order{OrderID: f.nextID, UserID: userID, Status: model.OrderStatusPending}
		f.nextID++
		f.orders[pending.OrderID] = pending
	}

	found := false
	for i := range pending.OrderItems {
		if pending.OrderItems[i].ProductID == product.ProductID {
			pending.OrderItems[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		pending.OrderItems = append(pending.OrderItems, model.OrderItem{
			OrderItemID: f.nextItemID,
			OrderID:     pending.OrderID,
			ProductID:   product.ProductID,
			Quantity:    quantity,
			Price:       product.Price,
		})
		f.nextItemID++
	}

	pending.TotalAmount = model.CalculateTotal(pending.OrderItems)
	cp := *pending
	return &cp, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) error {
	order, ok := f.orders[orderID]
	if !ok {
		return apperr.NotFound("order %d not found", orderID)
	}
	order.Status = status
	return nil
}

func (f *fakeOrderRepo) ReconcileOrder(ctx context.Context, orderID uint, status *model.OrderStatus, items []model.OrderItem) (*model.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if status != nil {
		order.Status = *status
	}
	if items != nil {
		existing := make(map[uint]model.OrderItem, len(order.OrderItems))
		for _, item := range order.OrderItems {
			existing[item.OrderItemID] = item
		}
		var next []model.OrderItem
		for _, item := range items {
			if item.OrderItemID == 0 {
				item.OrderItemID = f.nextItemID
				f.nextItemID++
			} else if _, ok := existing[item.OrderItemID]; !ok {
				item.OrderItemID = f.nextItemID
				f.nextItemID++
			}
			item.OrderID = orderID
			next = append(next, item)
		}
		order.OrderItems = next
	}
	order.TotalAmount = model.CalculateTotal(order.OrderItems)
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) HardDeleteOrder(ctx context.Context, orderID uint) error {
	if _, ok := f.orders[orderID]; !ok {
		return apperr.NotFound("order %d not found", orderID)
	}
	delete(f.orders, orderID)
	return nil
}

type fakeCartRepo struct {
	carts  map[uint]*model.Cart
	nextID uint
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uint]*model.Cart), nextID: 1}
}

func (f *fakeCartRepo) CreateCart(ctx context.Context, cart *model.Cart) error {
	for _, c := range f.carts {
		if c.UserID == cart.UserID {
			return apperr.Conflict("user %d already has a cart", cart.UserID)
		}
	}
	cart.CartID = f.nextID
	f.nextID++
	for i := range cart.CartItems {
		cart.CartItems[i].CartID = cart.CartID
	}
	cp := *cart
	f.carts[cart.CartID] = &cp
	return nil
}

func (f *fakeCartRepo) GetCartByID(ctx context.Context, cartID uint) (*model.Cart, error) {
	cart, ok := f.carts[cartID]
	if !ok {
		return nil, apperr.NotFound("cart %d not found", cartID)
	}
	cp := *cart
	return &cp, nil
}

func (f *fakeCartRepo) GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	for _, c := range f.carts {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("cart for user %d not found", userID)
}

func (f *fakeCartRepo) GetAllCarts(ctx context.Context) ([]model.Cart, error) {
	carts := make([]model.Cart, 0, len(f.carts))
	for _, c := range f.carts {
		carts = append(carts, *c)
	}
	sort.Slice(carts, func(i, j int) bool { return carts[i].CartID < carts[j].CartID })
	return carts, nil
}

func (f *fakeCartRepo) AddItem(ctx context.Context, cartID, productID uint, quantity int) error {
	cart, ok := f.carts[cartID]
	if !ok {
		return apperr.NotFound("cart %d not found", cartID)
	}
	for i := range cart.CartItems {
		if cart.CartItems[i].ProductID == productID {
			cart.CartItems[i].Quantity += quantity
			return nil
		}
	}
	cart.CartItems = append(cart.CartItems, model.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeCartRepo) UpdateItem(ctx context.Context, cartID, productID uint, quantity int) error {
	cart, ok := f.carts[cartID]
	if !ok {
		return apperr.NotFound("cart %d not found", cartID)
	}
	for i := range cart.CartItems {
		if cart.CartItems[i].ProductID == productID {
			cart.CartItems[i].Quantity = quantity
			return nil
		}
	}
	cart.CartItems = append(cart.CartItems, model.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeCartRepo) RemoveItem(ctx context.Context, cartID, productID uint) error {
	cart, ok := f.carts[cartID]
	if !ok {
		return apperr.NotFound("cart %d not found", cartID)
	}
	for i := range cart.CartItems {
		if cart.CartItems[i].ProductID == productID {
			cart.CartItems = append(cart.CartItems[:i], cart.CartItems[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("product %d not in cart %d", productID, cartID)
}

func (f *fakeCartRepo) Clear(ctx context.Context, cartID uint) error {
	cart, ok := f.carts[cartID]
	if !ok {
		return apperr.NotFound("cart %d not found", cartID)
	}
	if len(cart.CartItems) == 0 {
		return apperr.Validation("the cart is already empty")
	}
	cart.CartItems = nil
	return nil
}

func (f *fakeCartRepo) HardDeleteCart(ctx context.Context, cartID uint) error {
	delete(f.carts, cartID)
	return nil
}

type fakeTransactionRepo struct {
	orders   *fakeOrderRepo
	txns     map[uint]*model.Transaction
	attempts map[uint]*model.PaymentAttempt
	nextID   uint
}

func newFakeTransactionRepo(orders *fakeOrderRepo) *fakeTransactionRepo {
	return &fakeTransactionRepo{
		orders:   orders,
		txns:     make(map[uint]*model.Transaction),
		attempts: make(map[uint]*model.PaymentAttempt),
		nextID:   1,
	}
}

func (f *fakeTransactionRepo) CreateWithOrderStatus(ctx context.Context, txn *model.Transaction, orderStatus model.OrderStatus) error {
	order, ok := f.orders.orders[txn.OrderID]
	if !ok {
		return apperr.NotFound("Order not found")
	}
	for _, existing := range f.txns {
		if existing.OrderID == txn.OrderID {
			return apperr.Conflict("order %d already has a transaction", txn.OrderID)
		}
	}
	txn.TransactionID = f.nextID
	f.nextID++
	txn.Amount = order.TotalAmount
	cp := *txn
	f.txns[txn.TransactionID] = &cp
	order.Status = orderStatus
	return nil
}

func (f *fakeTransactionRepo) GetTransactionByID(ctx context.Context, transactionID uint) (*model.Transaction, error) {
	txn, ok := f.txns[transactionID]
	if !ok {
		return nil, apperr.NotFound("transaction %d not found", transactionID)
	}
	cp := *txn
	return &cp, nil
}

func (f *fakeTransactionRepo) GetTransactionByOrderID(ctx context.Context, orderID uint) (*model.Transaction, error) {
	for _, txn := range f.txns {
		if txn.OrderID == orderID {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("transaction for order %d not found", orderID)
}

func (f *fakeTransactionRepo) GetTransactionsByUserID(ctx context.Context, userID uint) ([]model.Transaction, error) {
	var txns []model.Transaction
	for _, txn := range f.txns {
		if order, ok := f.orders.orders[txn.OrderID]; ok && order.UserID == userID {
			txns = append(txns, *txn)
		}
	}
	return txns, nil
}

func (f *fakeTransactionRepo) GetAllTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	for _, txn := range f.txns {
		txns = append(txns, *txn)
	}
	return txns, nil
}

func (f *fakeTransactionRepo) UpdateStatusWithOrder(ctx context.Context, transactionID uint, status model.TransactionStatus) (*model.Transaction, error) {
	txn, ok := f.txns[transactionID]
	if !ok {
		return nil, apperr.NotFound("transaction %d not found", transactionID)
	}
	txn.Status = status
	if order, ok := f.orders.orders[txn.OrderID]; ok {
		switch status {
		case model.TransactionStatusCompleted:
			order.Status = model.OrderStatusPaid
		case model.TransactionStatusFailed:
			order.Status = model.OrderStatusFailed
		}
	}
	cp := *txn
	return &cp, nil
}

func (f *fakeTransactionRepo) CreatePaymentAttempt(ctx context.Context, attempt *model.PaymentAttempt) error {
	attempt.AttemptID = f.nextID
	f.nextID++
	cp := *attempt
	f.attempts[attempt.AttemptID] = &cp
	return nil
}

func (f *fakeTransactionRepo) MarkAttemptReconciled(ctx context.Context, attemptID uint) error {
	if attempt, ok := f.attempts[attemptID]; ok {
		attempt.Reconciled = true
	}
	return nil
}

func (f *fakeTransactionRepo) ListUnreconciledAttempts(ctx context.Context) ([]model.PaymentAttempt, error) {
	var attempts []model.PaymentAttempt
	for _, attempt := range f.attempts {
		if !attempt.Reconciled {
			attempts = append(attempts, *attempt)
		}
	}
	return attempts, nil
}

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	for _, u := range f.users {
		if u.UserEmail == user.UserEmail {
			return nil, apperr.Conflict("user with email %s already exists", user.UserEmail)
		}
	}
	user.UserID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.UserID] = &cp
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.UserEmail == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user %s not found", email)
}

func (f *fakeUserRepo) GetAllUsers(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.UserID]; !ok {
		return apperr.NotFound("user %d not found", user.UserID)
	}
	cp := *user
	f.users[user.UserID] = &cp
	return nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, userID uint) error {
	if _, ok := f.users[userID]; !ok {
		return apperr.NotFound("user %d not found", userID)
	}
	delete(f.users, userID)
	return nil
}

type fakeGateway struct {
	result *gateway.VerifyResult
	err    error
	calls  int
}

func (f *fakeGateway) Verify(ctx context.Context, reference string, amount decimal.Decimal, currency string) (*gateway.VerifyResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeNotifier struct {
	subjects []string
}

func (f *fakeNotifier) Notify(ctx context.Context, subject, body string) {
	f.subjects = append(f.subjects, subject)
}

type fakeProducer struct {
	events []evt_model.Event
	err    error
}

func (f *fakeProducer) ProduceEvent(ctx context.Context, orderID uint, evt evt_model.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeProducer) Close() error { return nil }
