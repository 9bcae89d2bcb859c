package productmodel

import (
	"net/http"

	"github.com/taibuivan/vision/internal/platform/apperr"
)

var (
	// ErrNotFound is returned when a product model ID does not exist.
	ErrNotFound = apperr.NotFound("Product model")

	// ErrDuplicateCode is returned when a product model code is already taken.
	ErrDuplicateCode = apperr.New("DUPLICATE_CODE",
		"Product model code already exists", http.StatusConflict)

	// ErrDuplicateSKU is returned when the optional SKU collides with another
	// product model's SKU.
	ErrDuplicateSKU = apperr.New("DUPLICATE_SKU",
		"SKU already exists", http.StatusConflict)
)
