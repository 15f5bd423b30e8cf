package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/nikolayk812/order-service/internal/cache"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
	"golang.org/x/text/currency"
)

const productOperation = "product"

type cachedProductClient struct {
	next  port.ProductClient
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProduct serves product snapshots from the cache for ttl.
// Cache failures are logged and fall through to next.
func NewCachedProduct(next port.ProductClient, c cache.Cache, ttl time.Duration) (port.ProductClient, error) {
	if next == nil {
		return nil, errors.New("next is nil")
	}
	if c == nil {
		return nil, errors.New("cache is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl[%s] must be positive", ttl)
	}

	return &cachedProductClient{
		next:  next,
		cache: c,
		ttl:   ttl,
	}, nil
}

func (c *cachedProductClient) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	key := c.cache.GenerateKey(productOperation, strconv.FormatInt(productID, 10))

	if product, ok := c.lookup(ctx, key); ok {
		return product, nil
	}

	product, err := c.next.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	c.store(ctx, key, product)

	return product, nil
}

func (c *cachedProductClient) lookup(ctx context.Context, key string) (domain.Product, bool) {
	raw, found, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "product cache get failed", "key", key, "error", err)
		return domain.Product{}, false
	}
	if !found {
		return domain.Product{}, false
	}

	var dto productDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		slog.WarnContext(ctx, "product cache entry is corrupt", "key", key, "error", err)
		return domain.Product{}, false
	}

	// entries are always written with a currency
	if dto.Currency == "" {
		slog.WarnContext(ctx, "product cache entry has no currency", "key", key)
		return domain.Product{}, false
	}

	product, err := mapProductDTOToDomain(dto, currency.Unit{})
	if err != nil {
		slog.WarnContext(ctx, "product cache entry is corrupt", "key", key, "error", err)
		return domain.Product{}, false
	}

	return product, true
}

func (c *cachedProductClient) store(ctx context.Context, key string, product domain.Product) {
	raw, err := json.Marshal(mapProductDomainToDTO(product))
	if err != nil {
		slog.WarnContext(ctx, "product cache encode failed", "key", key, "error", err)
		return
	}

	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		slog.WarnContext(ctx, "product cache set failed", "key", key, "error", err)
	}
}
