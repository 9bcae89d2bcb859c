package schema

// FamilyVariantTable represents the 'family_variants' table
type FamilyVariantTable struct {
	Table        string
	ID           string
	FamilyID     string
	Code         string
	Level        string
	Axes         string
	AttributeIDs string
}

// FamilyVariant is the schema definition for family_variants
var FamilyVariant = FamilyVariantTable{
	Table:        "family_variants",
	ID:           "id",
	FamilyID:     "family_id",
	Code:         "code",
	Level:        "level",
	Axes:         "axes",
	AttributeIDs: "attributes",
}

func (t FamilyVariantTable) Columns() []string {
	return []string{t.ID, t.FamilyID, t.Code, t.Level, t.Axes, t.AttributeIDs}
}
