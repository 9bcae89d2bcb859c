package schema

// AttributeTable represents the 'attributes' table
type AttributeTable struct {
	Table         string
	ID            string
	Code          string
	Type          string
	BackendType   string
	IsLocalizable string
	IsScopable    string
	GroupCode     string
	Labels        string
	Config        string
	CreatedAt     string
	UpdatedAt     string
}

// Attribute is the schema definition for attributes
var Attribute = AttributeTable{
	Table:         "attributes",
	ID:            "id",
	Code:          "code",
	Type:          "type",
	BackendType:   "backend_type",
	IsLocalizable: "is_localizable",
	IsScopable:    "is_scopable",
	GroupCode:     "group_code",
	Labels:        "labels",
	Config:        "config",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

func (t AttributeTable) Columns() []string {
	return []string{t.ID, t.Code, t.Type, t.BackendType, t.IsLocalizable, t.IsScopable, t.GroupCode, t.Labels, t.Config, t.CreatedAt, t.UpdatedAt}
}
