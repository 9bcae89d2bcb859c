package attribute

import "context"

// Repository is the storage contract for attributes and their options.
//
// Multi-row mutations (create-with-options, replace, reorder) are atomic:
// implementations must guarantee that a failure leaves no partial state.
type Repository interface {
	// Create inserts the attribute together with any Options it carries,
	// all-or-nothing.
	Create(context context.Context, attribute *Attribute) error

	// FindByID returns the attribute with its full option set, or ErrNotFound.
	FindByID(context context.Context, id string) (*Attribute, error)

	// FindByCode returns the attribute without options, or ErrNotFound.
	FindByCode(context context.Context, code string) (*Attribute, error)

	// List returns a page of attributes (without options) ordered by
	// creation time descending, plus the total match count independent of
	// the page window.
	List(context context.Context, filter Filter, limit, offset int) ([]*Attribute, int, error)

	// Update persists the attribute's scalar fields. When replaceOptions is
	// true the existing option set is deleted and options is inserted in its
	// place, in the same transaction.
	Update(context context.Context, attribute *Attribute, options []Option, replaceOptions bool) error

	// Delete removes the attribute. Options and product values cascade at
	// the database level.
	Delete(context context.Context, id string) error

	AddOption(context context.Context, option *Option) error
	FindOption(context context.Context, attributeID, optionID string) (*Option, error)
	ListOptions(context context.Context, attributeID string) ([]Option, error)
	UpdateOption(context context.Context, option *Option) error
	DeleteOption(context context.Context, attributeID, optionID string) error

	// ReorderOptions rewrites sort_order positionally ("1", "2", ...) for
	// the given IDs, atomically. Callers validate set completeness first.
	ReorderOptions(context context.Context, attributeID string, orderedIDs []string) error
}
