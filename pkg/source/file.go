package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/storekit/pkg/catalog"
)

// FileSource serves products from a directory of YAML documents, one product
// per file. The directory is read eagerly at construction: a malformed or
// invalid document fails NewFileSource instead of surfacing at lookup time,
// and filesystem changes after construction are not observed.
type FileSource struct {
	products map[string]*catalog.Product
	closed   bool
	mu       sync.RWMutex
}

// productDoc is the on-disk YAML shape. IDs and prices travel as strings so
// documents stay hand-editable; they are parsed into their typed forms when
// the file is loaded.
type productDoc struct {
	ID                  string       `yaml:"id"`
	Handle              string       `yaml:"handle"`
	Title               string       `yaml:"title"`
	Options             []optionDoc  `yaml:"options"`
	Variants            []variantDoc `yaml:"variants"`
	EncodedAvailability string       `yaml:"encoded_availability"`
}

type optionDoc struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

type variantDoc struct {
	ID        string   `yaml:"id"`
	Values    []string `yaml:"values"`
	Price     string   `yaml:"price"`
	Available bool     `yaml:"available"`
}

// NewFileSource loads every *.yaml and *.yml file in dir as a product
// document. Files with other extensions and subdirectories are skipped.
// When two documents share a handle, the lexically later file wins.
func NewFileSource(dir string) (*FileSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadProductFile, err)
	}

	products := make(map[string]*catalog.Product)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(entry.Name()); ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		p, err := loadProductFile(path)
		if err != nil {
			return nil, err
		}
		if err := catalog.Validate(p); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFailedToLoadProductFile, path, err)
		}
		products[p.Handle] = p
	}

	return &FileSource{products: products}, nil
}

// Product returns a deep copy of the loaded product.
func (s *FileSource) Product(_ context.Context, handle string) (*catalog.Product, error) {
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

// Handles returns the handles of all loaded products in unspecified order.
func (s *FileSource) Handles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handles := make([]string, 0, len(s.products))
	for h := range s.products {
		handles = append(handles, h)
	}
	return handles
}

// Close releases the loaded catalog. Safe to call multiple times.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.products = nil
	return nil
}

func loadProductFile(path string) (*catalog.Product, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadProductFile, err)
	}

	var doc productDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToLoadProductFile, path, err)
	}

	p, err := doc.toProduct()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToLoadProductFile, path, err)
	}

	if info, err := os.Stat(path); err == nil {
		p.UpdatedAt = info.ModTime().UTC()
	}
	return p, nil
}

func (doc productDoc) toProduct() (*catalog.Product, error) {
	p := &catalog.Product{
		Handle:              doc.Handle,
		Title:               doc.Title,
		EncodedAvailability: doc.EncodedAvailability,
	}

	if doc.ID != "" {
		id, err := uuid.Parse(doc.ID)
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
