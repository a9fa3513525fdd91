package availability_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit/pkg/availability"
	"github.com/dmitrymomot/storekit/pkg/catalog"
)

func TestCheckerIsAvailable(t *testing.T) {
	t.Parallel()

	options := []catalog.Option{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"S", "M"}},
	}
	encoded := "0:0,1 1:0 "

	checker := availability.NewChecker(nil)

	t.Run("Available", func(t *testing.T) {
		t.Parallel()
		for _, values := range [][]string{
			{"Red", "S"},
			{"Red", "M"},
			{"Blue", "S"},
		} {
			ok, err := checker.IsAvailable(values, encoded, options)
			require.NoError(t, err)
			assert.True(t, ok, "combination %v", values)
		}
	})

	t.Run("AbsenceIsUnavailable", func(t *testing.T) {
		t.Parallel()
		ok, err := checker.IsAvailable([]string{"Blue", "M"}, encoded, options)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("UnknownValuePropagates", func(t *testing.T) {
		t.Parallel()
		ok, err := checker.IsAvailable([]string{"Purple", "S"}, encoded, options)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrValueNotFound)
		assert.False(t, ok)
	})

	t.Run("CountMismatchPropagates", func(t *testing.T) {
		t.Parallel()
		ok, err := checker.IsAvailable([]string{"Red"}, encoded, options)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrOptionCountMismatch)
		assert.False(t, ok)
	})
}

// Every vector emitted by Decode must report available through the checker.
func TestCheckerRoundTrip(t *testing.T) {
	t.Parallel()

	options := []catalog.Option{
		{Name: "Color", Values: []string{"c0", "c1", "c2", "c3"}},
		{Name: "Size", Values: []string{"s0", "s1", "s2", "s3", "s4", "s5"}},
	}
	encodings := []string{
		"0:0,1 1:0,1 ",
		"0:0-3,5 1:2 ",
		"2:1-4 3:0 ",
	}

	checker := availability.NewChecker(nil)
	for _, encoded := range encodings {
		for _, vector := range availability.Decode(encoded).Vectors() {
			require.Len(t, vector, len(options), "encoding %q emitted %v", encoded, vector)

			values := make([]string, len(vector))
			for i, idx := range vector {
				require.Less(t, idx, len(options[i].Values))
				values[i] = options[i].Values[idx]
			}

			ok, err := checker.IsAvailable(values, encoded, options)
			require.NoError(t, err)
			assert.True(t, ok, "encoding %q vector %v", encoded, vector)
		}
	}
}

func TestCheckerDecodesOncePerEncoding(t *testing.T) {
	t.Parallel()

	options := []catalog.Option{{Name: "Size", Values: []string{"S", "M", "L"}}}

	var calls atomic.Int64
	checker := availability.NewChecker(availability.NewCachedDecoder(8,
		availability.WithDecodeFunc(countingDecode(&calls)),
	))

	first, err := checker.IsAvailable([]string{"M"}, "0-2 ", options)
	require.NoError(t, err)
	second, err := checker.IsAvailable([]string{"M"}, "0-2 ", options)
	require.NoError(t, err)

	assert.Equal(t, int64(1), calls.Load(), "second query must hit the cache")
	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestCheckerDecoderShared(t *testing.T) {
	t.Parallel()

	dec := availability.NewCachedDecoder(4)
	checker := availability.NewChecker(dec)

	assert.Same(t, dec, checker.Decoder())
}

func BenchmarkCheckerIsAvailable(b *testing.B) {
	options := []catalog.Option{
		{Name: "Color", Values: []string{"Red", "Blue", "Green"}},
		{Name: "Size", Values: []string{"S", "M", "L", "XL"}},
	}
	encoded := "0:0-4 1:0,2 2:1,3 "
	values := []string{"Blue", "L"}

	checker := availability.NewChecker(nil)
	checker.IsAvailable(values, encoded, options)

	b.ResetTimer()
	for range b.N {
		checker.IsAvailable(values, encoded, options)
	}
}
