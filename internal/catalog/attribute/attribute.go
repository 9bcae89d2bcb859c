package attribute

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type describes the semantic shape of an attribute as presented to users.
type Type string

const (
	TypeText         Type = "text"
	TypeTextarea     Type = "textarea"
	TypeNumber       Type = "number"
	TypeBoolean      Type = "boolean"
	TypeSimpleSelect Type = "simple_select"
	TypeMultiSelect  Type = "multi_select"
	TypeDate         Type = "date"
	TypePrice        Type = "price"
	TypeImage        Type = "image"
)

// BackendType describes the physical representation of an attribute's values.
type BackendType string

const (
	BackendString  BackendType = "string"
	BackendFloat   BackendType = "float"
	BackendBoolean BackendType = "boolean"
	BackendOption  BackendType = "option"
	BackendOptions BackendType = "options"
	BackendDate    BackendType = "date"
	BackendJSON    BackendType = "json"
)

// IsSelect reports whether the type carries an enumerated option set.
func (t Type) IsSelect() bool {
	return t == TypeSimpleSelect || t == TypeMultiSelect
}

// compatibleBackends is the type/backend pairing contract. The original
// schema documented this coupling but never enforced it; here it is checked
// on every create and update.
var compatibleBackends = map[Type][]BackendType{
	TypeText:         {BackendString},
	TypeTextarea:     {BackendString},
	TypeNumber:       {BackendFloat},
	TypeBoolean:      {BackendBoolean},
	TypeSimpleSelect: {BackendOption},
	TypeMultiSelect:  {BackendOptions},
	TypeDate:         {BackendDate},
	TypePrice:        {BackendJSON, BackendFloat},
	TypeImage:        {BackendString, BackendJSON},
}

// Compatible reports whether backend is a valid physical representation for t.
func Compatible(t Type, backend BackendType) bool {
	for _, b := range compatibleBackends[t] {
		if b == backend {
			return true
		}
	}
	return false
}

// TypeValues returns all attribute type identifiers, for enum validation.
func TypeValues() []string {
	return []string{
		string(TypeText), string(TypeTextarea), string(TypeNumber),
		string(TypeBoolean), string(TypeSimpleSelect), string(TypeMultiSelect),
		string(TypeDate), string(TypePrice), string(TypeImage),
	}
}

// BackendTypeValues returns all backend type identifiers, for enum validation.
func BackendTypeValues() []string {
	return []string{
		string(BackendString), string(BackendFloat), string(BackendBoolean),
		string(BackendOption), string(BackendOptions), string(BackendDate),
		string(BackendJSON),
	}
}

// Attribute is a typed field definition that products and product models can
// carry values for.
type Attribute struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	Type          Type              `json:"type"`
	BackendType   BackendType       `json:"backend_type"`
	IsLocalizable bool              `json:"is_localizable"`
	IsScopable    bool              `json:"is_scopable"`
	GroupCode     *string           `json:"group_code"`
	Labels        map[string]string `json:"labels"`
	Config        map[string]any    `json:"config"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Options contains the enumerated choices for select-type attributes,
	// populated on single-attribute reads.
	Options []Option `json:"options"`
}

// Option is one enumerated choice belonging to exactly one attribute.
// Its code is unique within the owning attribute, not globally.
type Option struct {
	ID          string            `json:"id"`
	AttributeID string            `json:"attribute_id"`
	Code        string            `json:"code"`
	Labels      map[string]string `json:"labels"`

	// SortOrder is stored as text, an inherited quirk of the catalog schema:
	// ordering is lexicographic, so "10" sorts before "2". Reordering always
	// rewrites the whole set, which keeps the keys single-digit-dense in
	// practice, but the type is deliberately left as-is for parity.
	SortOrder *string `json:"sort_order"`
}

// Filter narrows attribute list queries. Zero values mean "no filter".
type Filter struct {
	// Search matches a substring of the code or any label text.
	Search        string
	Type          string
	BackendType   string
	GroupCode     string
	IsLocalizable *bool
	IsScopable    *bool
}

// ValidateValue checks that a raw JSON payload is interpretable under the
// given backend type. It is the write-side guard the original schema lacked:
// product values are structurally unconstrained JSON, so this is the only
// place shape mismatches can be caught.
func ValidateValue(backend BackendType, raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("value is empty")
	}

	switch backend {
	case BackendString, BackendOption:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("value must be a JSON string")
		}
	case BackendFloat:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return fmt.Errorf("value must be a JSON number")
		}
	case BackendBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("value must be a JSON boolean")
		}
	case BackendOptions:
		var codes []string
		if err := json.Unmarshal(raw, &codes); err != nil {
			return fmt.Errorf("value must be a JSON array of option codes")
		}
	case BackendDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("value must be a JSON date string")
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			if _, err := time.Parse(time.RFC3339, s); err != nil {
				return fmt.Errorf("value must be an ISO date (2006-01-02) or RFC 3339 timestamp")
			}
		}
	case BackendJSON:
		if !json.Valid(raw) {
			return fmt.Errorf("value must be valid JSON")
		}
	default:
		return fmt.Errorf("unknown backend type %q", backend)
	}

	return nil
}
