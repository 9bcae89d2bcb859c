package attribute

import (
	"net/http"

	"github.com/taibuivan/vision/internal/platform/apperr"
)

// Every failure mode of the attribute catalog maps to exactly one of these
// kinds. Handlers never inspect anything else.
var (
	// ErrNotFound is returned when an attribute ID does not exist.
	ErrNotFound = apperr.NotFound("Attribute")

	// ErrOptionNotFound is returned when an option ID does not exist under
	// the addressed attribute.
	ErrOptionNotFound = apperr.NotFound("Attribute option")

	// ErrDuplicateCode is returned when an attribute code is already taken.
	ErrDuplicateCode = apperr.New("DUPLICATE_CODE",
		"Attribute code already exists", http.StatusConflict)

	// ErrDuplicateOptionCode is returned when an option code collides within
	// the same attribute. The same code on a different attribute is fine.
	ErrDuplicateOptionCode = apperr.New("DUPLICATE_OPTION_CODE",
		"Option code already exists for this attribute", http.StatusConflict)

	// ErrWrongAttributeType is returned for option operations on attributes
	// that are not simple_select or multi_select.
	ErrWrongAttributeType = apperr.New("WRONG_ATTRIBUTE_TYPE",
		"Only simple_select and multi_select attributes support options", http.StatusBadRequest)

	// ErrForeignOption is returned when a reorder list references an option
	// owned by a different attribute.
	ErrForeignOption = apperr.New("FOREIGN_OPTION",
		"Option does not belong to this attribute", http.StatusBadRequest)

	// ErrIncompleteSet is returned when a reorder list does not cover the
	// attribute's current option set exactly.
	ErrIncompleteSet = apperr.New("INCOMPLETE_OPTION_SET",
		"Reorder list must include every option of the attribute exactly once", http.StatusBadRequest)
)
