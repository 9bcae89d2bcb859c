package productmodel

import "context"

// Repository is the storage contract for product models.
type Repository interface {
	Create(context context.Context, model *ProductModel) error

	// FindByID returns the model or ErrNotFound.
	FindByID(context context.Context, id string) (*ProductModel, error)

	// FindByCode returns the model or ErrNotFound.
	FindByCode(context context.Context, code string) (*ProductModel, error)

	// FindBySKU returns the model carrying the SKU, or ErrNotFound.
	FindBySKU(context context.Context, sku string) (*ProductModel, error)

	// List returns a page ordered by creation time descending, plus the
	// total match count independent of the page window.
	List(context context.Context, filter Filter, limit, offset int) ([]*ProductModel, int, error)

	// ListChildren returns the direct children of a parent, one level only.
	ListChildren(context context.Context, parentID string, limit, offset int) ([]*ProductModel, int, error)

	Update(context context.Context, model *ProductModel) error
	Delete(context context.Context, id string) error
}
