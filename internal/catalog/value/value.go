// Package value implements the entity value store: the JSONB payloads that
// products and product models carry for catalog attributes, keyed by the
// 5-tuple (entity_type, entity_id, attribute_id, scope, locale).
//
// Scope and locale are stored as empty strings when the attribute has no such
// dimension, never as NULL. That keeps the uniqueness tuple total: two "no
// locale" writes address the same row instead of coexisting.
package value

import (
	"encoding/json"
	"time"
)

// EntityType selects which catalog entity a value belongs to. Values keep no
// foreign key to their entity, so the type tag is what routes existence
// checks and cleanup to the right table.
type EntityType string

const (
	EntityProduct      EntityType = "product"
	EntityProductModel EntityType = "product_model"
)

// Valid reports whether the entity type is a known tag.
func (t EntityType) Valid() bool {
	return t == EntityProduct || t == EntityProductModel
}

// EntityTypeValues returns all entity type identifiers, for enum validation.
func EntityTypeValues() []string {
	return []string{string(EntityProduct), string(EntityProductModel)}
}

// EntityRef addresses one product or product model.
type EntityRef struct {
	Type EntityType
	ID   string
}

// Value is one stored attribute payload for an entity.
type Value struct {
	ID          string          `json:"id"`
	EntityType  EntityType      `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	AttributeID string          `json:"attribute_id"`

	// Scope and Locale are "" when the attribute is not scopable or not
	// localizable. The empty string is part of the uniqueness key.
	Scope  string `json:"scope"`
	Locale string `json:"locale"`

	// Value is the raw JSONB payload. Its shape is validated against the
	// attribute's backend type on write, not by the schema.
	Value json.RawMessage `json:"value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows value listings for one entity. Zero values mean "no filter";
// rows whose scope or locale is empty can only be selected by omitting the
// corresponding filter.
type Filter struct {
	AttributeID string
	Scope       string
	Locale      string
}
