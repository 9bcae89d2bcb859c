package family

import "context"

// Repository is the storage contract for families and family variants.
type Repository interface {
	Create(context context.Context, family *Family) error
	FindByID(context context.Context, id string) (*Family, error)
	FindByCode(context context.Context, code string) (*Family, error)

	// List returns a page ordered by code, plus the total count.
	List(context context.Context, limit, offset int) ([]*Family, int, error)

	Update(context context.Context, family *Family) error
	Delete(context context.Context, id string) error

	CreateVariant(context context.Context, variant *Variant) error
	FindVariantByID(context context.Context, id string) (*Variant, error)
	FindVariantByCode(context context.Context, code string) (*Variant, error)

	// ListVariants returns every variant of one family, ordered by level
	// then code.
	ListVariants(context context.Context, familyID string) ([]Variant, error)

	UpdateVariant(context context.Context, variant *Variant) error
	DeleteVariant(context context.Context, id string) error
}
