package source

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/storekit/pkg/catalog"
)

// Source supplies catalog products to availability checks. Implementations
// must be safe for concurrent use and must return products the caller can
// mutate freely, never views into shared state.
type Source interface {
	// Product fetches the product with the given storefront handle.
	// Returns ErrProductNotFound when no such product exists.
	Product(ctx context.Context, handle string) (*catalog.Product, error)

	// Close releases any resources held by the source. After Close, all
	// operations return ErrSourceClosed.
	Close() error
}

// Watcher is implemented by sources that can push change notifications.
// Callers that hold decoded or cached product state subscribe to evict it
// when the underlying product changes.
type Watcher interface {
	// Watch returns a channel of product updates. The channel is closed
	// when ctx is cancelled or the source shuts down. Updates may be
	// dropped for slow consumers rather than blocking the source.
	Watch(ctx context.Context) (<-chan Update, error)
}

// Update describes a single product change event.
type Update struct {
	EventID    uuid.UUID `json:"event_id"`
	Handle     string    `json:"handle"`
	OccurredAt time.Time `json:"occurred_at"`
}
