package storekit

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/storekit/pkg/availability"
)

const (
	defaultProductCacheCapacity = 128
	defaultProductCacheTTL      = 5 * time.Minute
)

// config holds client configuration.
type config struct {
	logger               *slog.Logger
	decoder              *availability.CachedDecoder
	decodeCacheCapacity  int
	productCacheCapacity int
	productCacheTTL      time.Duration
}

// Option configures the client.
type Option func(*config)

// WithLogger sets a custom logger for the client.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithDecoder sets a shared availability decoder. Useful when several
// clients should reuse one decode cache.
func WithDecoder(decoder *availability.CachedDecoder) Option {
	return func(c *config) {
		if decoder != nil {
			c.decoder = decoder
		}
	}
}

// WithDecodeCacheCapacity sets the capacity of the decode cache the client
// builds for itself. Ignored when WithDecoder supplies one.
func WithDecodeCacheCapacity(capacity int) Option {
	return func(c *config) {
		if capacity > 0 {
			c.decodeCacheCapacity = capacity
		}
	}
}

// WithProductCache sets the capacity and entry lifetime of the product
// cache. A zero ttl disables expiration; entries then live until capacity
// pushes them out.
func WithProductCache(capacity int, ttl time.Duration) Option {
	return func(c *config) {
		if capacity > 0 {
			c.productCacheCapacity = capacity
		}
		if ttl >= 0 {
			c.productCacheTTL = ttl
		}
	}
}
