// Package family implements attribute families and their variant
// definitions: which attributes a product carries and which axes split a
// product model tree into levels.
//
// Families carry no timestamps, a carry-over from the catalog schema.
package family

// Family groups the attributes a product of that family carries.
type Family struct {
	ID   string `json:"id"`
	Code string `json:"code"`

	// AttributeIDs references attributes without foreign keys. A deleted
	// attribute leaves a dangling ID here; readers tolerate that.
	AttributeIDs []string `json:"attribute_ids"`
}

// Variant defines one level of a product model tree within a family: the
// axes that distinguish siblings and the attributes settled at that level.
type Variant struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`
	Code     string `json:"code"`

	// Level is the depth this variant describes, 1-based.
	Level int `json:"level"`

	// Axes are the attribute IDs whose values distinguish siblings.
	Axes []string `json:"axes"`

	// AttributeIDs are the attributes settled at this level.
	AttributeIDs []string `json:"attributes"`
}
