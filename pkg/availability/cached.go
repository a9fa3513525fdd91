package availability

import "github.com/dmitrymomot/storekit/pkg/cache"

// DefaultCacheCapacity bounds a CachedDecoder's LRU when the caller passes a
// non-positive capacity.
const DefaultCacheCapacity = 256

// DecodeFunc parses one encoded availability string into a set.
type DecodeFunc func(encoded string) *Set

// CachedDecoder memoizes decode results in a bounded LRU keyed by the exact
// encoded string, so repeated availability queries against the same product
// parse its encoding once. Decoded sets are immutable, which makes handing
// the same *Set to every caller safe.
//
// It is safe for concurrent use. Two goroutines decoding the same new string
// may both run the decoder; decoding is pure, so the duplicate work is benign
// and the last result wins.
type CachedDecoder struct {
	decode DecodeFunc
	cache  *cache.LRUCache[string, *Set]
}

// DecoderOption configures a CachedDecoder.
type DecoderOption func(*CachedDecoder)

// WithDecodeFunc replaces the decode function. Tests use it to observe
// decode invocations. A nil fn is ignored.
func WithDecodeFunc(fn DecodeFunc) DecoderOption {
	return func(d *CachedDecoder) {
		if fn != nil {
			d.decode = fn
		}
	}
}

// NewCachedDecoder creates a decoder whose results are memoized in an LRU of
// the given capacity. A non-positive capacity falls back to
// DefaultCacheCapacity.
func NewCachedDecoder(capacity int, opts ...DecoderOption) *CachedDecoder {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	d := &CachedDecoder{
		decode: Decode,
		cache:  cache.NewLRUCache[string, *Set](capacity),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns the decoded set for the encoded string, parsing it on the
// first request and serving repeats from the cache.
func (d *CachedDecoder) Decode(encoded string) *Set {
	if set, ok := d.cache.Get(encoded); ok {
		return set
	}

	set := d.decode(encoded)
	if set == nil {
		set = NewSet()
	}
	d.cache.Put(encoded, set)
	return set
}

// CacheLen reports the number of memoized encodings.
func (d *CachedDecoder) CacheLen() int {
	return d.cache.Len()
}
