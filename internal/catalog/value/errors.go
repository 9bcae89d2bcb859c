package value

import "github.com/taibuivan/vision/internal/platform/apperr"

var (
	// ErrNotFound is returned when a value ID does not exist.
	ErrNotFound = apperr.NotFound("Product value")

	// ErrAttributeNotFound is returned when a write references an unknown
	// attribute.
	ErrAttributeNotFound = apperr.NotFound("Attribute")

	// ErrEntityNotFound is returned when the addressed product or product
	// model does not exist. Values carry no foreign key to their entity, so
	// this check is the only referential guard.
	ErrEntityNotFound = apperr.NotFound("Entity")
)
