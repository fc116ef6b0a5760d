package catalog

import (
	"context"
	"errors"
)

// Product is a single catalog record. IDs are generated server-side and are
// never client-supplied.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

var ErrDuplicateID = errors.New("duplicate product id")

// Store holds the product collection. List returns products in insertion
// order; Replace and Remove report found=false for unknown ids.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	Insert(ctx context.Context, p Product) error
	Replace(ctx context.Context, id string, p Product) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
}
