package product

import (
	"net/http"

	"github.com/taibuivan/vision/internal/platform/apperr"
)

var (
	// ErrNotFound is returned when a product ID does not exist.
	ErrNotFound = apperr.NotFound("Product")

	// ErrDuplicateSKU is returned when the SKU is already taken.
	ErrDuplicateSKU = apperr.New("DUPLICATE_SKU",
		"SKU already exists", http.StatusConflict)
)
