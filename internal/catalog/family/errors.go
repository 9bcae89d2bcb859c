package family

import (
	"net/http"

	"github.com/taibuivan/vision/internal/platform/apperr"
)

var (
	// ErrNotFound is returned when a family ID does not exist.
	ErrNotFound = apperr.NotFound("Family")

	// ErrVariantNotFound is returned when a family variant ID does not exist.
	ErrVariantNotFound = apperr.NotFound("Family variant")

	// ErrDuplicateCode is returned when a family code is already taken.
	ErrDuplicateCode = apperr.New("DUPLICATE_CODE",
		"Family code already exists", http.StatusConflict)

	// ErrDuplicateVariantCode is returned when a variant code is already taken.
	ErrDuplicateVariantCode = apperr.New("DUPLICATE_CODE",
		"Family variant code already exists", http.StatusConflict)
)
