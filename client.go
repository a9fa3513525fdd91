package storekit

import (
	"context"
	"io"
	"log/slog"

	"github.com/dmitrymomot/storekit/pkg/availability"
	"github.com/dmitrymomot/storekit/pkg/cache"
	"github.com/dmitrymomot/storekit/pkg/catalog"
	"github.com/dmitrymomot/storekit/pkg/logger"
	"github.com/dmitrymomot/storekit/pkg/source"
)

// Client answers product and availability queries on top of a product
// source. Fetched products and decoded availability sets are cached in
// memory, so the hot path of a storefront page render does not touch the
// source or re-decode anything.
type Client struct {
	source   source.Source
	decoder  *availability.CachedDecoder
	products *cache.LRUCache[string, *catalog.Product]
	log      *slog.Logger
}

// New creates a client for the given product source. The client takes
// ownership of the source: Close closes it.
func New(src source.Source, opts ...Option) (*Client, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	cfg := &config{
		decodeCacheCapacity:  availability.DefaultCacheCapacity,
		productCacheCapacity: defaultProductCacheCapacity,
		productCacheTTL:      defaultProductCacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	decoder := cfg.decoder
	if decoder == nil {
		decoder = availability.NewCachedDecoder(cfg.decodeCacheCapacity)
	}
	log := cfg.logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		source:   src,
		decoder:  decoder,
		products: cache.NewLRUCacheWithTTL[string, *catalog.Product](cfg.productCacheCapacity, cfg.productCacheTTL),
		log:      log,
	}, nil
}

// Product returns the product document for the given handle, serving
// repeated lookups from the in-memory cache. The returned copy is the
// caller's to mutate.
func (c *Client) Product(ctx context.Context, handle string) (*catalog.Product, error) {
	if p, ok := c.products.Get(handle); ok {
		return p.Clone(), nil
	}

	p, err := c.source.Product(ctx, handle)
	if err != nil {
		return nil, err
	}

	c.products.Put(handle, p)
	c.log.DebugContext(ctx, "product loaded from source", logger.Handle(handle))
	return p.Clone(), nil
}

// Available reports whether the combination of option values is in stock
// for the product with the given handle. Values are matched per option
// axis in catalog order, exact and case-sensitive, one value per option.
//
// Products carrying an encoded availability string answer strictly from
// the decoded set; products without one fall back to scanning their
// variant records, where an unlisted combination counts as available.
// A value the product's catalog does not know yields
// catalog.ErrValueNotFound, never a false "unavailable".
func (c *Client) Available(ctx context.Context, handle string, combination ...string) (bool, error) {
	p, err := c.Product(ctx, handle)
	if err != nil {
		return false, err
	}
	return availability.StrategyFor(p, c.decoder).Available(combination)
}

// Invalidate drops the cached copy of a product, forcing the next Product
// call to hit the source.
func (c *Client) Invalidate(handle string) {
	c.products.Remove(handle)
}

// Watch consumes update notifications from the source and evicts affected
// products from the cache, so the next lookup sees the new version. It
// blocks until ctx is canceled or the source shuts down, and is meant to
// run in its own goroutine for the lifetime of the process.
//
// Sources that cannot notify return ErrWatchUnsupported; callers relying
// on cache TTL alone can ignore it.
func (c *Client) Watch(ctx context.Context) error {
	watcher, ok := c.source.(source.Watcher)
	if !ok {
		return ErrWatchUnsupported
	}

	updates, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	c.log.InfoContext(ctx, "watching product updates")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, open := <-updates:
			if !open {
				// The source closes the stream both on shutdown and when ctx
				// ends; report the cancellation if that is what happened.
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.log.InfoContext(ctx, "product update stream closed")
				return nil
			}
			c.products.Remove(u.Handle)
			c.log.DebugContext(ctx, "product invalidated",
				logger.Handle(u.Handle),
				logger.EventID(u.EventID),
			)
		}
	}
}

// Source returns the underlying product source, for callers that need to
// manage products through it.
func (c *Client) Source() source.Source {
	return c.source
}

// Close releases the underlying source. The client must not be used after
// Close returns.
func (c *Client) Close() error {
	return c.source.Close()
}
