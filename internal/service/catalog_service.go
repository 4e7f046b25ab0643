package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/mkmeuns06/ministore/internal/cache"
	"github.com/mkmeuns06/ministore/internal/domain"
	"github.com/mkmeuns06/ministore/internal/repository"
)

const defaultLatestLimit = 8

type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      cache.CatalogCache
	sfg        singleflight.Group // Prevents cache stampede on list queries
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, catalogCache cache.CatalogCache) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      catalogCache,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.cachedList(ctx, "all", func() ([]*domain.Product, error) {
		return s.products.ListProducts(ctx)
	})
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	return s.cachedList(ctx, fmt.Sprintf("category:%d", categoryID), func() ([]*domain.Product, error) {
		return s.products.ListProductsByCategory(ctx, categoryID)
	})
}

func (s *CatalogService) SearchProducts(ctx context.Context, keyword string) ([]*domain.Product, error) {
	return s.cachedList(ctx, fmt.Sprintf("search:%s", keyword), func() ([]*domain.Product, error) {
		return s.products.SearchProducts(ctx, keyword)
	})
}

func (s *CatalogService) LatestProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	return s.cachedList(ctx, fmt.Sprintf("latest:%d", limit), func() ([]*domain.Product, error) {
		return s.products.LatestProducts(ctx, limit)
	})
}

// GetProduct bypasses the cache: the detail view feeds stock checks and must
// be as fresh as the last read.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetCategory(ctx, id)
}

func (s *CatalogService) cachedList(ctx context.Context, key string, load func() ([]*domain.Product, error)) ([]*domain.Product, error) {
	// Use singleflight so concurrent misses for the same key hit Postgres once
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		products, err := s.cache.Get(ctx, key)
		if err == nil {
			return products, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		products, errLoad := load()
		if errLoad != nil {
			return nil, errLoad
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), key, products); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]*domain.Product), nil
}
