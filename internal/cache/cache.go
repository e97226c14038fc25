package cache

import (
	"context"
	"time"

	"github.com/alamin00006/business-management/internal/domain"
)

// ProductListCache shields the product list endpoint from repeated
// catalog scans. Entries are short-lived; writes to the catalog also
// invalidate explicitly.
type ProductListCache interface {
	Get(ctx context.Context, key string) ([]domain.Product, bool, error)
	Set(ctx context.Context, key string, items []domain.Product, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type NoopProductListCache struct{}

func (NoopProductListCache) Get(_ context.Context, _ string) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductListCache) Set(_ context.Context, _ string, _ []domain.Product, _ time.Duration) error {
	return nil
}

func (NoopProductListCache) Invalidate(_ context.Context) error { return nil }
