package storekit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit"
	"github.com/dmitrymomot/storekit/pkg/availability"
	"github.com/dmitrymomot/storekit/pkg/catalog"
	"github.com/dmitrymomot/storekit/pkg/source"
)

// testProduct is a 2x2 product whose encoded availability covers every
// combination except m/black, matching the variant records.
func testProduct(handle string) *catalog.Product {
	return &catalog.Product{
		ID:     uuid.New(),
		Handle: handle,
		Title:  "Classic Tee",
		Options: []catalog.Option{
			{Name: "Size", Values: []string{"s", "m"}},
			{Name: "Color", Values: []string{"black", "white"}},
		},
		Variants: []catalog.Variant{
			{ID: uuid.New(), Values: []string{"s", "black"}, Price: decimal.RequireFromString("29.00"), Available: true},
			{ID: uuid.New(), Values: []string{"s", "white"}, Price: decimal.RequireFromString("29.00"), Available: true},
			{ID: uuid.New(), Values: []string{"m", "black"}, Price: decimal.RequireFromString("31.00"), Available: false},
			{ID: uuid.New(), Values: []string{"m", "white"}, Price: decimal.RequireFromString("31.00"), Available: true},
		},
		EncodedAvailability: "0:0,1 1:1 ",
		UpdatedAt:           time.Now().UTC(),
	}
}

// staticSource serves a fixed product set and supports no watching.
type staticSource struct {
	products map[string]*catalog.Product
}

func (s *staticSource) Product(_ context.Context, handle string) (*catalog.Product, error) {
	p, ok := s.products[handle]
	if !ok {
		return nil, source.ErrProductNotFound
	}
	return p.Clone(), nil
}

func (s *staticSource) Close() error { return nil }

// countingSource counts how often the wrapped source is actually hit.
type countingSource struct {
	source.Source
	calls int
}

func (s *countingSource) Product(ctx context.Context, handle string) (*catalog.Product, error) {
	s.calls++
	return s.Source.Product(ctx, handle)
}

// evictedWithin rewrites the product until the client serves the new title,
// proving the watch subscription delivered an eviction. Writes are repeated
// because the watcher subscribes asynchronously and earlier updates may
// predate the subscription.
func evictedWithin(t *testing.T, ctx context.Context, client *storekit.Client, src *source.MemorySource, updated *catalog.Product, timeout time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		require.NoError(t, src.SetProduct(ctx, updated))

		p, err := client.Product(ctx, updated.Handle)
		require.NoError(t, err)
		if p.Title == updated.Title {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("NilSource", func(t *testing.T) {
		t.Parallel()

		client, err := storekit.New(nil)
		require.ErrorIs(t, err, storekit.ErrNilSource)
		assert.Nil(t, client)
	})

	t.Run("NilOptionIgnored", func(t *testing.T) {
		t.Parallel()

		src, err := source.NewMemorySource(testProduct("classic-tee"))
		require.NoError(t, err)

		client, err := storekit.New(src, nil, storekit.WithProductCache(4, time.Minute))
		require.NoError(t, err)
		require.NotNil(t, client)
	})
}

func TestClientProduct(t *testing.T) {
	t.Parallel()

	t.Run("ServesRepeatedLookupsFromCache", func(t *testing.T) {
		t.Parallel()

		mem, err := source.NewMemorySource(testProduct("classic-tee"))
		require.NoError(t, err)
		counting := &countingSource{Source: mem}

		client, err := storekit.New(counting)
		require.NoError(t, err)

		ctx := context.Background()
		for range 3 {
			p, err := client.Product(ctx, "classic-tee")
			require.NoError(t, err)
			assert.Equal(t, "Classic Tee", p.Title)
		}
		assert.Equal(t, 1, counting.calls)
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()

		src, err := source.NewMemorySource()
		require.NoError(t, err)
		client, err := storekit.New(src)
		require.NoError(t, err)

		p, err := client.Product(context.Background(), "missing")
		require.ErrorIs(t, err, source.ErrProductNotFound)
		assert.Nil(t, p)
	})

	t.Run("CopyIsolation", func(t *testing.T) {
		t.Parallel()

		src, err := source.NewMemorySource(testProduct("classic-tee"))
		require.NoError(t, err)
		client, err := storekit.New(src)
		require.NoError(t, err)

		ctx := context.Background()
		p, err := client.Product(ctx, "classic-tee")
		require.NoError(t, err)

		p.Title = "mutated"
		p.Options[0].Values[0] = "mutated"

		again, err := client.Product(ctx, "classic-tee")
		require.NoError(t, err)
		assert.Equal(t, "Classic Tee", again.Title)
		assert.Equal(t, "s", again.Options[0].Values[0])
	})
}

func TestClientAvailable(t *testing.T) {
	t.Parallel()

	newClient := func(t *testing.T, products ...*catalog.Product) *storekit.Client {
		t.Helper()
		src, err := source.NewMemorySource(products...)
		require.NoError(t, err)
		client, err := storekit.New(src)
		require.NoError(t, err)
		return client
	}

	t.Run("EncodedAvailability", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, testProduct("classic-tee"))
		ctx := context.Background()

		ok, err := client.Available(ctx, "classic-tee", "s", "black")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = client.Available(ctx, "classic-tee", "m", "white")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = client.Available(ctx, "classic-tee", "m", "black")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("UnknownValue", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, testProduct("classic-tee"))

		ok, err := client.Available(context.Background(), "classic-tee", "xl", "black")
		require.ErrorIs(t, err, catalog.ErrValueNotFound)
		assert.False(t, ok)
	})

	t.Run("WrongValueCount", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, testProduct("classic-tee"))

		ok, err := client.Available(context.Background(), "classic-tee", "s")
		require.ErrorIs(t, err, catalog.ErrOptionCountMismatch)
		assert.False(t, ok)
	})

	t.Run("VariantFallback", func(t *testing.T) {
		t.Parallel()

		p := testProduct("plain-tee")
		p.EncodedAvailability = ""
		client := newClient(t, p)
		ctx := context.Background()

		ok, err := client.Available(ctx, "plain-tee", "m", "black")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = client.Available(ctx, "plain-tee", "s", "black")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		t.Parallel()

		client := newClient(t)

		ok, err := client.Available(context.Background(), "missing", "s", "black")
		require.ErrorIs(t, err, source.ErrProductNotFound)
		assert.False(t, ok)
	})

	t.Run("DecodesEachEncodingOnce", func(t *testing.T) {
		t.Parallel()

		decodes := 0
		decoder := availability.NewCachedDecoder(8, availability.WithDecodeFunc(func(encoded string) *availability.Set {
			decodes++
			return availability.Decode(encoded)
		}))

		src, err := source.NewMemorySource(testProduct("classic-tee"))
		require.NoError(t, err)
		client, err := storekit.New(src, storekit.WithDecoder(decoder))
		require.NoError(t, err)

		ctx := context.Background()
		for _, combo := range [][]string{{"s", "black"}, {"m", "black"}, {"m", "white"}} {
			_, err := client.Available(ctx, "classic-tee", combo...)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, decodes)
	})
}

func TestClientInvalidate(t *testing.T) {
	t.Parallel()

	src, err := source.NewMemorySource(testProduct("classic-tee"))
	require.NoError(t, err)
	client, err := storekit.New(src)
	require.NoError(t, err)

	ctx := context.Background()
	p, err := client.Product(ctx, "classic-tee")
	require.NoError(t, err)
	require.Equal(t, "Classic Tee", p.Title)

	updated := testProduct("classic-tee")
	updated.Title = "Classic Tee v2"
	require.NoError(t, src.SetProduct(ctx, updated))

	// Still the cached version until invalidated.
	p, err = client.Product(ctx, "classic-tee")
	require.NoError(t, err)
	assert.Equal(t, "Classic Tee", p.Title)

	client.Invalidate("classic-tee")

	p, err = client.Product(ctx, "classic-tee")
	require.NoError(t, err)
	assert.Equal(t, "Classic Tee v2", p.Title)
}

func TestClientWatch(t *testing.T) {
	t.Run("EvictsUpdatedProducts", func(t *testing.T) {
		src, err := source.NewMemorySource(testProduct("classic-tee"))
		require.NoError(t, err)
		client, err := storekit.New(src)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- client.Watch(ctx) }()

		p, err := client.Product(ctx, "classic-tee")
		require.NoError(t, err)
		require.Equal(t, "Classic Tee", p.Title)

		// The watcher subscribes asynchronously, so keep writing until the
		// eviction is observed.
		updated := testProduct("classic-tee")
		updated.Title = "Classic Tee v2"
		require.True(t, evictedWithin(t, ctx, client, src, updated, 2*time.Second),
			"cached product was not evicted after update")

		cancel()
		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("watch did not stop after context cancellation")
		}
	})

	t.Run("SourceCloseStopsWatch", func(t *testing.T) {
		src, err := source.NewMemorySource(testProduct("classic-tee"))
		require.NoError(t, err)
		client, err := storekit.New(src)
		require.NoError(t, err)

		ctx := context.Background()
		done := make(chan error, 1)
		go func() { done <- client.Watch(ctx) }()

		p, err := client.Product(ctx, "classic-tee")
		require.NoError(t, err)
		require.Equal(t, "Classic Tee", p.Title)

		// Confirm the subscription is live before closing: a write must
		// evict the cached copy.
		updated := testProduct("classic-tee")
		updated.Title = "Classic Tee v2"
		require.True(t, evictedWithin(t, ctx, client, src, updated, 2*time.Second),
			"cached product was not evicted after update")

		require.NoError(t, client.Close())

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("watch did not stop after source close")
		}
	})

	t.Run("UnsupportedSource", func(t *testing.T) {
		client, err := storekit.New(&staticSource{})
		require.NoError(t, err)

		err = client.Watch(context.Background())
		require.ErrorIs(t, err, storekit.ErrWatchUnsupported)
	})
}

func TestClientClose(t *testing.T) {
	t.Parallel()

	src, err := source.NewMemorySource(testProduct("classic-tee"))
	require.NoError(t, err)
	client, err := storekit.New(src)
	require.NoError(t, err)

	require.NoError(t, client.Close())

	_, err = src.Product(context.Background(), "classic-tee")
	require.ErrorIs(t, err, source.ErrSourceClosed)
}
