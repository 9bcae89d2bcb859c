package value

import "context"

// Repository is the storage contract for product values.
type Repository interface {
	// Upsert inserts the value or, when the 5-tuple already exists,
	// overwrites the stored payload. The passed struct is updated in place
	// with the authoritative row (original ID and created_at on overwrite).
	Upsert(context context.Context, value *Value) error

	// FindByID returns one value or ErrNotFound.
	FindByID(context context.Context, id string) (*Value, error)

	// List returns every value of the entity matching the filter, in
	// attribute order then scope then locale.
	List(context context.Context, entity EntityRef, filter Filter) ([]Value, error)

	// Delete removes one value by ID, returning ErrNotFound when absent.
	Delete(context context.Context, id string) error

	// DeleteForEntity removes every value of the entity and returns the
	// number of rows removed. Called by product and product model deletion.
	DeleteForEntity(context context.Context, entity EntityRef) (int, error)

	// EntityExists reports whether the referenced product or product model
	// exists, checking the table selected by the entity type tag.
	EntityExists(context context.Context, entity EntityRef) (bool, error)
}
