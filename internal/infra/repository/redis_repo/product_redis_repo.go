package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

type ProductCacheError error

var ErrProductNotCached ProductCacheError = errors.New("product not cached")

// IProductCacheRepository Redis 商品快取介面
type IProductCacheRepository interface {
	// GetProduct 取得快取的商品
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)

	// SetProduct 寫入商品快取
	SetProduct(ctx context.Context, product *model.Product) error

	// DeleteProduct 移除商品快取
	DeleteProduct(ctx context.Context, productID uint) error
}

/*	redis 專注商品目錄快取
	結構:
	product:{id}: JSON(model.Product)*/

type ProductRedisRepo struct {
	productCache *redis.Client
	ttl          time.Duration
}

func NewProductRepo(productCache *redis.Client, ttl time.Duration) *ProductRedisRepo {
	return &ProductRedisRepo{productCache: productCache, ttl: ttl}
}

func generateProductKey(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}

// 取得快取商品
// 錯誤:
//   - ErrProductNotCached: 快取不存在
//   - err: 其他錯誤
func (s *ProductRedisRepo) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	redisKey := generateProductKey(productID)
	data, err := s.productCache.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		return nil, ErrProductNotCached
	}
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		return nil, fmt.Errorf("invalid cached product %d: %w", productID, err)
	}
	return &product, nil
}

func (s *ProductRedisRepo) SetProduct(ctx context.Context, product *model.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return s.productCache.Set(ctx, generateProductKey(product.ProductID), data, s.ttl).Err()
}

func (s *ProductRedisRepo) DeleteProduct(ctx context.Context, productID uint) error {
	return s.productCache.Del(ctx, generateProductKey(productID)).Err()
}

var _ IProductCacheRepository = (*ProductRedisRepo)(nil)
