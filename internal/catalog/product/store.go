package product

import "context"

// Repository is the storage contract for products.
type Repository interface {
	Create(context context.Context, product *Product) error

	// FindByID returns the product or ErrNotFound.
	FindByID(context context.Context, id string) (*Product, error)

	// FindBySKU returns the product carrying the SKU, or ErrNotFound.
	FindBySKU(context context.Context, sku string) (*Product, error)

	// List returns a page ordered by creation time descending, plus the
	// total match count independent of the page window.
	List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error)

	Update(context context.Context, product *Product) error
	Delete(context context.Context, id string) error
}
