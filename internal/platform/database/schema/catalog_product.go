package schema

// ProductTable represents the 'products' table
type ProductTable struct {
	Table          string
	ID             string
	SKU            string
	ProductModelID string
	Enabled        string
	CreatedAt      string
	UpdatedAt      string
}

// Product is the schema definition for products
var Product = ProductTable{
	Table:          "products",
	ID:             "id",
	SKU:            "sku",
	ProductModelID: "product_model_id",
	Enabled:        "enabled",
	CreatedAt:      "created_at",
	UpdatedAt:      "updated_at",
}

func (t ProductTable) Columns() []string {
	return []string{t.ID, t.SKU, t.ProductModelID, t.Enabled, t.CreatedAt, t.UpdatedAt}
}
