package schema

// FamilyTable represents the 'families' table
type FamilyTable struct {
	Table        string
	ID           string
	Code         string
	AttributeIDs string
}

// Family is the schema definition for families
var Family = FamilyTable{
	Table:        "families",
	ID:           "id",
	Code:         "code",
	AttributeIDs: "attribute_ids",
}

func (t FamilyTable) Columns() []string {
	return []string{t.ID, t.Code, t.AttributeIDs}
}
