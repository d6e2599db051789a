package redis_decorator

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog/log"
)

/*
cache-aside 商品目錄
讀取先走redis，miss才回DB並回填
寫入一律先DB再清快取，快取失效失敗只記log不擋主流程
*/
type CacheAsideProductRepo struct {
	db.IProductRepository
	redis redis_repo.IProductCacheRepository
}

func NewCacheAsideProductRepo(db db.IProductRepository, redis redis_repo.IProductCacheRepository) db.IProductRepository {
	return &CacheAsideProductRepo{IProductRepository: db, redis: redis}
}

func (p *CacheAsideProductRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := p.redis.GetProduct(ctx, productID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, redis_repo.ErrProductNotCached) {
		log.Warn().Err(err).Uint("product_id", productID).Msg("product cache get failed")
	}

	product, err = p.IProductRepository.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := p.redis.SetProduct(ctx, product); err != nil {
		log.Warn().Err(err).Uint("product_id", productID).Msg("product cache set failed")
	}
	return product, nil
}

func (p *CacheAsideProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := p.IProductRepository.UpdateProduct(ctx, product); err != nil {
		return err
	}
	if err := p.redis.DeleteProduct(ctx, product.ProductID); err != nil {
		log.Warn().Err(err).Uint("product_id", product.ProductID).Msg("product cache invalidate failed")
	}
	return nil
}

func (p *CacheAsideProductRepo) AddProductInventory(ctx context.Context, productID uint, quantity uint) (int, error) {
	current, err := p.IProductRepository.AddProductInventory(ctx, productID, quantity)
	if err != nil {
		return 0, err
	}
	if err := p.redis.DeleteProduct(ctx, productID); err != nil {
		log.Warn().Err(err).Uint("product_id", productID).Msg("product cache invalidate failed")
	}
	return current, nil
}

func (p *CacheAsideProductRepo) DeductProductInventory(ctx context.Context, productID uint, quantity uint) (int, error) {
	current, err := p.IProductRepository.DeductProductInventory(ctx, productID, quantity)
	if err != nil {
		return 0, err
	}
	if err := p.redis.DeleteProduct(ctx, productID); err != nil {
		log.Warn().Err(err).Uint("product_id", productID).Msg("product cache invalidate failed")
	}
	return current, nil
}

func (p *CacheAsideProductRepo) HardDeleteProduct(ctx context.Context, productID uint) error {
	if err := p.IProductRepository.HardDeleteProduct(ctx, productID); err != nil {
		return err
	}
	if err := p.redis.DeleteProduct(ctx, productID); err != nil {
		log.Warn().Err(err).Uint("product_id", productID).Msg("product cache invalidate failed")
	}
	return nil
}
