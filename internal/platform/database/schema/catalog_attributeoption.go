package schema

// AttributeOptionTable represents the 'attribute_options' table
type AttributeOptionTable struct {
	Table       string
	ID          string
	AttributeID string
	Code        string
	Labels      string
	SortOrder   string
}

// AttributeOption is the schema definition for attribute_options
var AttributeOption = AttributeOptionTable{
	Table:       "attribute_options",
	ID:          "id",
	AttributeID: "attribute_id",
	Code:        "code",
	Labels:      "labels",
	SortOrder:   "sort_order",
}

func (t AttributeOptionTable) Columns() []string {
	return []string{t.ID, t.AttributeID, t.Code, t.Labels, t.SortOrder}
}
