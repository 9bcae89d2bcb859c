// Package productmodel implements the product model hierarchy: the non-leaf
// catalog entities that group variant products under a family variant.
//
// Parenthood is a plain self reference without a foreign key or cycle
// detection, a documented carry-over from the catalog schema. Children are
// only ever resolved one level at a time.
package productmodel

import "time"

// ProductModel is a non-leaf catalog entity. Variant products attach to it
// via their product_model_id; sub-models attach via ParentID.
type ProductModel struct {
	ID    string  `json:"id"`
	Code  string  `json:"code"`
	Title string  `json:"title"`
	SKU   *string `json:"sku"`

	// FamilyVariantID and ParentID are stored without foreign keys. Both
	// are nullable: a root model has no parent.
	FamilyVariantID *string `json:"family_variant_id"`
	ParentID        *string `json:"parent_id"`

	CategoryIDs []string `json:"category_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows product model list queries. Zero values mean "no filter".
type Filter struct {
	// Search matches a substring of the code or title.
	Search          string
	FamilyVariantID string
	ParentID        string
}
