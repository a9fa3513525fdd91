package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/storekit/pkg/catalog"
)

// Redis key layout. Products are JSON documents under their handle; every
// write publishes an Update to the shared pub/sub channel so all storefront
// instances can drop cached state together.
const (
	redisProductKeyPrefix = "storekit:product:"
	redisUpdatesChannel   = "storekit:updates"
)

// RedisConfig represents the configuration for the Redis product backend.
type RedisConfig struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the URL of the server. It should be in the format "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of retry attempts to connect to the server.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the interval between retry attempts. It should be in the format "5s" for 5 seconds.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout is the timeout for connecting to the server. It should be in the format "30s" for 30 seconds.
}

// ConnectRedis establishes a connection to a Redis server using the provided
// configuration. It attempts to connect multiple times based on the
// RetryAttempts config value, with a delay between attempts specified by
// RetryInterval.
//
// Returns ErrFailedToParseRedisConnString if the connection URL is invalid
// and ErrRedisNotReady if all connection attempts fail.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	redisConnOpt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range cfg.RetryAttempts {
		redisClient := redis.NewClient(redisConnOpt)

		if err := redisClient.Ping(ctx).Err(); err == nil {
			return redisClient, nil
		}

		_ = redisClient.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		default:
			time.Sleep(cfg.RetryInterval)
		}
	}

	return nil, ErrRedisNotReady
}

// RedisSource serves products stored as JSON documents in Redis. It
// implements Watcher over the shared pub/sub update channel, so a product
// written by one storefront instance invalidates caches on all of them.
type RedisSource struct {
	client  redis.UniversalClient
	closed  bool
	mu      sync.RWMutex
	done    chan struct{}
	watchWg sync.WaitGroup
}

// NewRedisSource wraps an established Redis client. The source takes
// ownership of the client: Close closes it.
func NewRedisSource(client redis.UniversalClient) *RedisSource {
	return &RedisSource{
		client: client,
		done:   make(chan struct{}),
	}
}

// Product fetches and decodes the product document stored under the handle.
func (s *RedisSource) Product(ctx context.Context, handle string) (*catalog.Product, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, redisProductKey(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrProductNotFound, handle)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch product %q: %w", handle, err)
	}

	var p catalog.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode product %q: %w", handle, err)
	}
	return &p, nil
}

// SetProduct validates the product, stores its JSON document, and publishes
// an Update so every subscribed instance can evict the handle.
func (s *RedisSource) SetProduct(ctx context.Context, p *catalog.Product) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := catalog.Validate(p); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product %q: %w", p.Handle, err)
	}
	if err := s.client.Set(ctx, redisProductKey(p.Handle), data, 0).Err(); err != nil {
		return fmt.Errorf("store product %q: %w", p.Handle, err)
	}
	return s.publishUpdate(ctx, p.Handle)
}

// RemoveProduct deletes the product document and publishes an Update.
func (s *RedisSource) RemoveProduct(ctx context.Context, handle string) error {
	if err := s.guard(); err != nil {
		return err
	}

	removed, err := s.client.Del(ctx, redisProductKey(handle)).Result()
	if err != nil {
		return fmt.Errorf("remove product %q: %w", handle, err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %q", ErrProductNotFound, handle)
	}
	return s.publishUpdate(ctx, handle)
}

// Watch subscribes to the update channel and returns a channel of decoded
// Updates. Malformed payloads are skipped. The channel is closed when ctx is
// cancelled or the source is closed; a consumer that stops draining loses
// updates rather than stalling the subscription.
func (s *RedisSource) Watch(ctx context.Context) (<-chan Update, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	sub := s.client.Subscribe(ctx, redisUpdatesChannel)
	// Wait for the subscription confirmation so a broken connection fails
	// Watch instead of silently never delivering.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", redisUpdatesChannel, err)
	}

	updates := make(chan Update, watchBuffer)
	messages := sub.Channel()

	s.watchWg.Add(1)
	go func() {
		defer s.watchWg.Done()
		defer close(updates)
		defer func() { _ = sub.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var update Update
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					continue
				}
				select {
				case updates <- update:
				default:
				}
			}
		}
	}()

	return updates, nil
}

// Close stops all watch subscriptions and closes the underlying client.
// Safe to call multiple times.
func (s *RedisSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.watchWg.Wait()
	return s.client.Close()
}

func (s *RedisSource) guard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSourceClosed
	}
	return nil
}

func (s *RedisSource) publishUpdate(ctx context.Context, handle string) error {
	update := Update{
		EventID:    uuid.New(),
		Handle:     handle,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode update for %q: %w", handle, err)
	}
	if err := s.client.Publish(ctx, redisUpdatesChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish update for %q: %w", handle, err)
	}
	return nil
}

func redisProductKey(handle string) string {
	return redisProductKeyPrefix + handle
}
