// Package product implements leaf catalog entities: sellable items addressed
// by SKU, optionally attached to a product model.
package product

import "time"

// Product is a leaf catalog entity.
type Product struct {
	ID  string `json:"id"`
	SKU string `json:"sku"`

	// ProductModelID attaches a variant product to its model. Stored without
	// a foreign key; nil for standalone products.
	ProductModelID *string `json:"product_model_id"`

	Enabled bool `json:"enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows product list queries. Zero values mean "no filter".
type Filter struct {
	// Search matches a substring of the SKU.
	Search         string
	ProductModelID string
	Enabled        *bool
}
