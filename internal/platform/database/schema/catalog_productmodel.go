package schema

// ProductModelTable represents the 'product_models' table
type ProductModelTable struct {
	Table           string
	ID              string
	Code            string
	Title           string
	SKU             string
	FamilyVariantID string
	ParentID        string
	CategoryIDs     string
	CreatedAt       string
	UpdatedAt       string
}

// ProductModel is the schema definition for product_models
var ProductModel = ProductModelTable{
	Table:           "product_models",
	ID:              "id",
	Code:            "code",
	Title:           "title",
	SKU:             "sku",
	FamilyVariantID: "family_variant_id",
	ParentID:        "parent_id",
	CategoryIDs:     "category_ids",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}

func (t ProductModelTable) Columns() []string {
	return []string{t.ID, t.Code, t.Title, t.SKU, t.FamilyVariantID, t.ParentID, t.CategoryIDs, t.CreatedAt, t.UpdatedAt}
}
