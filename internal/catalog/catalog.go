// Package catalog caches the sellable product list and the available
// payment methods. Both are fetched through the calling session's
// backend client (the backend authenticates catalog reads) but stored in
// a shared cache so repeated page loads do not refetch. A cache error is
// deliberately non-fatal: the catalog falls through to the backend.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"pos-terminal/internal/backend"
)

const (
	productsKey = "catalog:products"
	methodsKey  = "catalog:payment-methods"
)

type productLister interface {
	ListProducts(ctx context.Context) ([]backend.Product, error)
}

type methodLister interface {
	ListPaymentMethods(ctx context.Context) ([]backend.PaymentMethod, error)
}

// Catalog serves cached catalog reads.
type Catalog struct {
	cache Cache
	ttl   time.Duration
}

// New builds a Catalog over the given cache with the given entry TTL.
func New(cache Cache, ttl time.Duration) *Catalog {
	return &Catalog{cache: cache, ttl: ttl}
}

// Products returns the sellable products, from cache unless force is set
// or the cache misses. A failed fetch leaves the cache untouched.
func (c *Catalog) Products(ctx context.Context, client productLister, force bool) ([]backend.Product, error) {
	if !force {
		if raw, ok, err := c.cache.Get(ctx, productsKey); err == nil && ok {
			var products []backend.Product
			if err := json.Unmarshal(raw, &products); err == nil {
				return products, nil
			}
			_ = c.cache.Delete(ctx, productsKey)
		}
	}

	products, err := client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(products); err == nil {
		_ = c.cache.Set(ctx, productsKey, raw, c.ttl)
	}
	return products, nil
}

// PaymentMethods returns the available tender types, cached like
// Products.
func (c *Catalog) PaymentMethods(ctx context.Context, client methodLister, force bool) ([]backend.PaymentMethod, error) {
	if !force {
		if raw, ok, err := c.cache.Get(ctx, methodsKey); err == nil && ok {
			var methods []backend.PaymentMethod
			if err := json.Unmarshal(raw, &methods); err == nil {
				return methods, nil
			}
			_ = c.cache.Delete(ctx, methodsKey)
		}
	}

	methods, err := client.ListPaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(methods); err == nil {
		_ = c.cache.Set(ctx, methodsKey, raw, c.ttl)
	}
	return methods, nil
}

// Invalidate drops both cached catalogs.
func (c *Catalog) Invalidate(ctx context.Context) {
	_ = c.cache.Delete(ctx, productsKey)
	_ = c.cache.Delete(ctx, methodsKey)
}
