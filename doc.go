// Package storekit answers storefront product and availability queries.
//
// A Client fronts a product source (in-memory, YAML directory, Redis,
// Postgres, MongoDB or S3 object storage) with two caches: an LRU of
// recently fetched product documents and an LRU of decoded availability
// sets. A storefront page can therefore ask "is M / Black in stock?" on
// every render without hitting the backend or re-decoding the product's
// availability encoding each time.
//
// # Usage
//
//	src, err := source.NewMemorySource(product)
//	if err != nil {
//		return err
//	}
//	client, err := storekit.New(src)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	ok, err := client.Available(ctx, "classic-tee", "m", "black")
//
// Combination values are given in catalog order, one per option axis.
// Products that carry an encoded availability string are answered strictly
// from its decoded set; products without one fall back to their explicit
// variant records.
//
// # Construction from the environment
//
// FromEnv builds the whole stack from environment variables:
//
//	client, err := storekit.FromEnv(ctx)
//
// STOREKIT_SOURCE picks the backend, STOREKIT_* variables size the caches
// and logging, and the backend reads its own connection settings
// (REDIS_URL, PG_CONN_URL, MONGODB_URL, S3_BUCKET).
//
// # Keeping the cache fresh
//
// Sources that can signal changes implement source.Watcher. Run Watch in a
// goroutine to evict updated products as notifications arrive:
//
//	go func() {
//		if err := client.Watch(ctx); err != nil && !errors.Is(err, storekit.ErrWatchUnsupported) {
//			log.ErrorContext(ctx, "product watch stopped", logger.Error(err))
//		}
//	}()
//
// Delivery is best effort. The product cache TTL bounds staleness for
// whatever notifications miss.
package storekit
