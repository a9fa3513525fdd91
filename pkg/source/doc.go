// Package source provides pluggable product backends for storefront
// availability checks.
//
// A Source supplies catalog.Product records by storefront handle. Backends
// exist for in-memory catalogs, directories of YAML documents, Redis,
// PostgreSQL, MongoDB, and S3-compatible object stores, so the same
// availability core runs everywhere from unit tests to a multi-instance
// deployment.
//
// # Usage
//
//	src, err := source.NewMemorySource(products...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer src.Close()
//
//	p, err := src.Product(ctx, "classic-tee")
//	if errors.Is(err, source.ErrProductNotFound) {
//		// handle unknown product
//	}
//
// Networked backends follow the same construction pattern: an env-tagged
// config struct, a Connect helper with retry logic, and a New*Source
// wrapper that takes ownership of the connection.
//
//	client, err := source.ConnectRedis(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	src := source.NewRedisSource(client)
//	defer src.Close()
//
// # Watching
//
// Sources that can observe product changes additionally implement Watcher.
// Watch returns a channel of Update events that consumers use to evict
// cached or decoded product state. Delivery is best-effort: a consumer that
// stops draining its channel loses updates rather than blocking writers, so
// stale caches must also be bounded by TTL.
//
// # Copy Semantics
//
// Products returned by a Source are owned by the caller. Stored state is
// never aliased, so mutating a returned product cannot corrupt the backend
// or other callers.
package source
