package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/storekit/pkg/catalog"
)

const mongoProductsCollection = "products"

// MongoConfig represents the configuration for the MongoDB product backend.
type MongoConfig struct {
	ConnectionURL   string        `env:"MONGODB_URL,required"`                         // ConnectionURL is the URL of the database.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"storekit"`       // Database is the name of the database holding the products collection.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`     // ConnectTimeout is the timeout for connecting to the database.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`       // MaxPoolSize is the maximum number of connections in the connection pool.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`         // MinPoolSize is the minimum number of connections in the connection pool.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"` // MaxConnIdleTime is the maximum time that a connection can remain idle in the connection pool.
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`       // RetryWrites specifies whether to retry write operations.
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`        // RetryReads specifies whether to retry read operations.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`        // RetryAttempts is the number of retry attempts to connect to the database.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`       // RetryInterval is the interval between retry attempts. It should be in the format "5s" for 5 seconds.
}

// ConnectMongo creates a new mongo client, retrying per the configuration.
// Returns ErrFailedToConnectToMongo when all attempts fail.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	for range cfg.RetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize).
				SetMinPoolSize(cfg.MinPoolSize).
				SetMaxConnIdleTime(cfg.MaxConnIdleTime).
				SetRetryWrites(cfg.RetryWrites).
				SetRetryReads(cfg.RetryReads),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return client, nil
			}
		}

		time.Sleep(cfg.RetryInterval)
	}

	return nil, ErrFailedToConnectToMongo
}

// MongoSource serves products stored as BSON documents in the products
// collection, keyed by handle.
type MongoSource struct {
	client *mongo.Client
	col    *mongo.Collection
	closed bool
	mu     sync.RWMutex
}

// NewMongoSource wraps an established mongo client. The source takes
// ownership of the client: Close disconnects it.
func NewMongoSource(client *mongo.Client, database string) *MongoSource {
	return &MongoSource{
		client: client,
		col:    client.Database(database).Collection(mongoProductsCollection),
	}
}

// mongoProductDoc is the stored BSON shape. The handle doubles as the
// document id; UUIDs and prices travel as strings.
type mongoProductDoc struct {
	Handle              string            `bson:"_id"`
	ProductID           string            `bson:"product_id,omitempty"`
	Title               string            `bson:"title,omitempty"`
	Options             []mongoOptionDoc  `bson:"options"`
	Variants            []mongoVariantDoc `bson:"variants,omitempty"`
	EncodedAvailability string            `bson:"encoded_availability,omitempty"`
	UpdatedAt           time.Time         `bson:"updated_at,omitempty"`
}

type mongoOptionDoc struct {
	Name   string   `bson:"name"`
	Values []string `bson:"values"`
}

type mongoVariantDoc struct {
	ID        string   `bson:"id,omitempty"`
	Values    []string `bson:"values"`
	Price     string   `bson:"price,omitempty"`
	Available bool     `bson:"available"`
}

// Product fetches and decodes the product document stored under the handle.
func (s *MongoSource) Product(ctx context.Context, handle string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	var doc mongoProductDoc
	err := s.col.FindOne(ctx, bson.M{"_id": handle}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %q", ErrProductNotFound, handle)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch product %q: %w", handle, err)
	}

	p, err := doc.toProduct()
	if err != nil {
		return nil, fmt.Errorf("decode product %q: %w", handle, err)
	}
	return p, nil
}

// SetProduct validates the product and upserts its document.
func (s *MongoSource) SetProduct(ctx context.Context, p *catalog.Product) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSourceClosed
	}
	if err := catalog.Validate(p); err != nil {
		return err
	}

	doc := newMongoProductDoc(p)
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.Handle}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store product %q: %w", p.Handle, err)
	}
	return nil
}

// RemoveProduct deletes the product document.
func (s *MongoSource) RemoveProduct(ctx context.Context, handle string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSourceClosed
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": handle})
	if err != nil {
		return fmt.Errorf("remove product %q: %w", handle, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %q", ErrProductNotFound, handle)
	}
	return nil
}

// Close disconnects the underlying client. Safe to call multiple times.
func (s *MongoSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.client.Disconnect(context.Background())
}

func newMongoProductDoc(p *catalog.Product) mongoProductDoc {
	doc := mongoProductDoc{
		Handle:              p.Handle,
		Title:               p.Title,
		EncodedAvailability: p.EncodedAvailability,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.ID != uuid.Nil {
		doc.ProductID = p.ID.String()
	}
	for _, o := range p.Options {
		doc.Options = append(doc.Options, mongoOptionDoc{Name: o.Name, Values: o.Values})
	}
	for _, v := range p.Variants {
		vd := mongoVariantDoc{Values: v.Values, Available: v.Available}
		if v.ID != uuid.Nil {
			vd.ID = v.ID.String()
		}
		if !v.Price.IsZero() {
			vd.Price = v.Price.String()
		}
		doc.Variants = append(doc.Variants, vd)
	}
	return doc
}

func (doc mongoProductDoc) toProduct() (*catalog.Product, error) {
	p := &catalog.Product{
		Handle:              doc.Handle,
		Title:               doc.Title,
		EncodedAvailability: doc.EncodedAvailability,
		UpdatedAt:           doc.UpdatedAt,
	}

	if doc.ProductID != "" {
		id, err := uuid.Parse(doc.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product id: %w", err)
		}
		p.ID = id
	}

	for _, o := range doc.Options {
		p.Options = append(p.Options, catalog.Option{Name: o.Name, Values: o.Values})
	}

	for i, v := range doc.Variants {
		variant := catalog.Variant{Values: v.Values, Available: v.Available}
		if v.ID != "" {
			id, err := uuid.Parse(v.ID)
			if err != nil {
				return nil, fmt.Errorf("variant %d id: %w", i, err)
			}
			variant.ID = id
		}
		if v.Price != "" {
			price, err := decimal.NewFromString(v.Price)
			if err != nil {
				return nil, fmt.Errorf("variant %d price: %w", i, err)
			}
			variant.Price = price
		}
		p.Variants = append(p.Variants, variant)
	}

	return p, nil
}
