package cache

import (
	"context"
	"errors"

	"github.com/mkmeuns06/ministore/internal/domain"
)

// CatalogCache caches catalog list queries (all / by category / search /
// latest). Product-by-id and stock reads never go through it.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]*domain.Product, error)
	Set(ctx context.Context, key string, products []*domain.Product) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
