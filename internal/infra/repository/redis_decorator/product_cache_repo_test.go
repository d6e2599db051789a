package redis_decorator

import (
	"context"
	"errors"
	"testing"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/redis_repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	products map[uint]*model.Product
	getErr   error
	sets     int
	deletes  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: make(map[uint]*model.Product)}
}

func (f *fakeCache) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	product, ok := f.products[productID]
	if !ok {
		return nil, redis_repo.ErrProductNotCached
	}
	cp := *product
	return &cp, nil
}

func (f *fakeCache) SetProduct(ctx context.Context, product *model.Product) error {
	f.sets++
	cp := *product
	f.products[product.ProductID] = &cp
	return nil
}

func (f *fakeCache) DeleteProduct(ctx context.Context, productID uint) error {
	f.deletes++
	delete(f.products, productID)
	return nil
}

type fakeDbRepo struct {
	products map[uint]*model.Product
	reads    int
}

func newFakeDbRepo(products ...*model.Product) *fakeDbRepo {
	repo := &fakeDbRepo{products: make(map[uint]*model.Product)}
	for _, p := range products {
		repo.products[p.ProductID] = p
	}
	return repo
}

func (f *fakeDbRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	f.products[product.ProductID] = product
	return nil
}

func (f *fakeDbRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	f.reads++
	product, ok := f.products[productID]
	if !ok {
		return nil, apperr.NotFound("product %d not found", productID)
	}
	cp := *product
	return &cp, nil
}

func (f *fakeDbRepo) GetProductByCode(ctx context.Context, code string) (*model.Product, error) {
	return nil, apperr.NotFound("product %s not found", code)
}

func (f *fakeDbRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return nil, nil
}

func (f *fakeDbRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	f.products[product.ProductID] = product
	return nil
}

func (f *fakeDbRepo) GetProductInventory(ctx context.Context, productID uint) (int, error) {
	return int(f.products[productID].Inventory), nil
}

func (f *fakeDbRepo) AddProductInventory(ctx context.Context, productID uint, quantity uint) (int, error) {
	f.products[productID].Inventory += quantity
	return int(f.products[productID].Inventory), nil
}

func (f *fakeDbRepo) DeductProductInventory(ctx context.Context, productID uint, quantity uint) (int, error) {
	f.products[productID].Inventory -= quantity
	return int(f.products[productID].Inventory), nil
}

func (f *fakeDbRepo) HardDeleteProduct(ctx context.Context, productID uint) error {
	delete(f.products, productID)
	return nil
}

func testProduct() *model.Product {
	return &model.Product{
		ProductID: 1,
		Code:      "SKU-1",
		Name:      "Cached Product",
		Price:     decimal.NewFromInt(100),
		Inventory: 10,
	}
}

// miss -> DB -> 回填，第二次讀不碰DB
func TestGetProductByID_CacheAside(t *testing.T) {
	dbRepo := newFakeDbRepo(testProduct())
	cache := newFakeCache()
	repo := NewCacheAsideProductRepo(dbRepo, cache)

	product, err := repo.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Cached Product", product.Name)
	require.Equal(t, 1, dbRepo.reads)
	require.Equal(t, 1, cache.sets)

	_, err = repo.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, dbRepo.reads)
}

// 快取掛掉只降級成DB讀，不回錯誤
func TestGetProductByID_CacheFailureFallsBack(t *testing.T) {
	dbRepo := newFakeDbRepo(testProduct())
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	repo := NewCacheAsideProductRepo(dbRepo, cache)

	product, err := repo.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Cached Product", product.Name)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	dbRepo := newFakeDbRepo(testProduct())
	cache := newFakeCache()
	repo := NewCacheAsideProductRepo(dbRepo, cache)

	_, err := repo.GetProductByID(context.Background(), 1)
	require.NoError(t, err)

	updated := testProduct()
	updated.Price = decimal.NewFromInt(150)
	require.NoError(t, repo.UpdateProduct(context.Background(), updated))
	require.Equal(t, 1, cache.deletes)

	product, err := repo.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, product.Price.Equal(decimal.NewFromInt(150)))
}

func TestInventoryChanges_InvalidateCache(t *testing.T) {
	dbRepo := newFakeDbRepo(testProduct())
	cache := newFakeCache()
	repo := NewCacheAsideProductRepo(dbRepo, cache)

	_, err := repo.AddProductInventory(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Equal(t, 1, cache.deletes)

	_, err = repo.DeductProductInventory(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, 2, cache.deletes)
}
