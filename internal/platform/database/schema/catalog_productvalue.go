package schema

// ProductValueTable represents the 'product_values' table
type ProductValueTable struct {
	Table       string
	ID          string
	EntityType  string
	EntityID    string
	AttributeID string
	Scope       string
	Locale      string
	Value       string
	CreatedAt   string
	UpdatedAt   string
}

// ProductValue is the schema definition for product_values
var ProductValue = ProductValueTable{
	Table:       "product_values",
	ID:          "id",
	EntityType:  "entity_type",
	EntityID:    "entity_id",
	AttributeID: "attribute_id",
	Scope:       "scope",
	Locale:      "locale",
	Value:       "value",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t ProductValueTable) Columns() []string {
	return []string{t.ID, t.EntityType, t.EntityID, t.AttributeID, t.Scope, t.Locale, t.Value, t.CreatedAt, t.UpdatedAt}
}
