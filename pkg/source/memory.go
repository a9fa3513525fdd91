package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/storekit/pkg/catalog"
)

// watchBuffer is the channel buffer handed to each watcher. When a watcher
// falls this far behind, further updates are dropped for it rather than
// blocking product writes.
const watchBuffer = 16

// MemorySource is an in-memory implementation of Source. It's useful for
// testing and for storefronts that load their catalog at startup.
//
// Products are deep-copied on the way in and out, so neither the caller nor
// the source can mutate the other's view. MemorySource also implements
// Watcher: SetProduct and RemoveProduct notify all active watch channels.
type MemorySource struct {
	products  map[string]*catalog.Product
	watchers  map[chan Update]struct{}
	closed    bool
	mu        sync.RWMutex
	done      chan struct{}
	cleanupWg sync.WaitGroup
}

// NewMemorySource creates an in-memory product source seeded with the given
// products. Every product is validated and stored as a deep copy; an invalid
// product fails construction rather than surfacing later at lookup time.
func NewMemorySource(products ...*catalog.Product) (*MemorySource, error) {
	s := &MemorySource{
		products: make(map[string]*catalog.Product),
		watchers: make(map[chan Update]struct{}),
		done:     make(chan struct{}),
	}

	for _, p := range products {
		if p == nil {
			continue
		}
		if err := catalog.Validate(p); err != nil {
			return nil, err
		}
		s.products[p.Handle] = p.Clone()
	}

	return s, nil
}

// Product returns a deep copy of the stored product.
func (s *MemorySource) Product(_ context.Context, handle string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	p, exists := s.products[handle]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrProductNotFound, handle)
	}
	return p.Clone(), nil
}

// SetProduct validates and stores a deep copy of the product, then notifies
// all watchers. Storing under an existing handle replaces the product.
func (s *MemorySource) SetProduct(_ context.Context, p *catalog.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}

	s.products[p.Handle] = p.Clone()
	s.notifyLocked(p.Handle)
	return nil
}

// RemoveProduct deletes the product and notifies all watchers. Removal is a
// change like any other: consumers holding cached state for the handle must
// drop it.
func (s *MemorySource) RemoveProduct(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}

	if _, exists := s.products[handle]; !exists {
		return fmt.Errorf("%w: %q", ErrProductNotFound, handle)
	}

	delete(s.products, handle)
	s.notifyLocked(handle)
	return nil
}

// Handles returns the handles of all stored products in unspecified order.
func (s *MemorySource) Handles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handles := make([]string, 0, len(s.products))
	for h := range s.products {
		handles = append(handles, h)
	}
	return handles
}

// Watch returns a buffered channel receiving an Update for every SetProduct
// and RemoveProduct call. The channel is closed when ctx is cancelled or the
// source is closed. Sends are non-blocking: a watcher that stops draining
// loses updates, it is never unsubscribed for falling behind.
func (s *MemorySource) Watch(ctx context.Context) (<-chan Update, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSourceClosed
	}

	ch := make(chan Update, watchBuffer)
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	if ctx.Done() != nil {
		s.cleanupWg.Add(1)
		go func() {
			defer s.cleanupWg.Done()
			// Exits on context cancellation or source shutdown, whichever
			// comes first. Without the done case, Close would wait forever
			// on watchers whose context never ends.
			select {
			case <-ctx.Done():
				s.unsubscribe(ch)
			case <-s.done:
			}
		}()
	}

	return ch, nil
}

// Close shuts down the source: all watch channels are closed and subsequent
// operations return ErrSourceClosed. Safe to call multiple times.
func (s *MemorySource) Close() error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)

	for ch := range s.watchers {
		close(ch)
	}
	clear(s.watchers)
	clear(s.products)
	s.mu.Unlock()

	s.cleanupWg.Wait()
	return nil
}

func (s *MemorySource) unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.watchers[ch]; exists {
		delete(s.watchers, ch)
		close(ch)
	}
}

// notifyLocked fans an update out to every watcher without blocking.
// Must be called with the lock held.
func (s *MemorySource) notifyLocked(handle string) {
	if len(s.watchers) == 0 {
		return
	}

	update := Update{
		EventID:    uuid.New(),
		Handle:     handle,
		OccurredAt: time.Now().UTC(),
	}
	for ch := range s.watchers {
		select {
		case ch <- update:
		default:
		}
	}
}
