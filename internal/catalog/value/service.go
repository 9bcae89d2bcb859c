package value

import (
	stdctx "context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/taibuivan/vision/internal/catalog/attribute"
	"github.com/taibuivan/vision/internal/platform/apperr"
	"github.com/taibuivan/vision/internal/platform/validate"
	"github.com/taibuivan/vision/pkg/locale"
	"github.com/taibuivan/vision/pkg/uuidv7"
)

// AttributeReader is the slice of the attribute service the value store
// needs: hydrated attribute definitions (type, backend, dimensions, options).
type AttributeReader interface {
	Get(context stdctx.Context, id string) (*attribute.Attribute, error)
}

// Service implements the value store business rules: dimension gating,
// payload shape validation, and entity existence checks.
type Service struct {
	repository Repository
	attributes AttributeReader
	logger     *slog.Logger
}

// NewService creates the value service.
func NewService(repository Repository, attributes AttributeReader, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		attributes: attributes,
		logger:     logger,
	}
}

// SetInput carries one value write.
type SetInput struct {
	AttributeID string          `json:"attribute_id"`
	Scope       string          `json:"scope"`
	Locale      string          `json:"locale"`
	Value       json.RawMessage `json:"value"`
}

/*
Set upserts one value for the entity.

Description: The write is validated against the attribute definition before
it touches storage: the payload must match the attribute's backend type,
scope and locale are only accepted when the attribute is scopable and
localizable respectively, and select-type payloads must reference option
codes that actually exist on the attribute. The locale is canonicalized, so
"en_us" and "en_US" address the same row. Repeating a write for the same
(entity, attribute, scope, locale) overwrites the payload in place.

Parameters:
  - context: context.Context
  - entity: EntityRef (type tag plus ID)
  - input: SetInput

Returns:
  - *Value: The stored row, with the original ID on overwrite
  - error: NOT_FOUND (attribute or entity) or VALIDATION_ERROR
*/
func (service *Service) Set(context stdctx.Context, entity EntityRef, input SetInput) (*Value, error) {
	if err := validateEntity(entity); err != nil {
		return nil, err
	}

	validator := (&validate.Validator{}).
		Required("attribute_id", input.AttributeID).
		UUID("attribute_id", input.AttributeID).
		Locale("locale", input.Locale)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	definition, err := service.attributes.Get(context, input.AttributeID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}

	normalizedLocale := ""
	if input.Locale != "" {
		normalizedLocale, _ = locale.Normalize(input.Locale)
	}

	dimensionCheck := (&validate.Validator{}).
		Custom("scope", input.Scope != "" && !definition.IsScopable,
			"Attribute is not scopable").
		Custom("locale", input.Locale != "" && !definition.IsLocalizable,
			"Attribute is not localizable")
	if err := dimensionCheck.Err(); err != nil {
		return nil, err
	}

	if err := attribute.ValidateValue(definition.BackendType, input.Value); err != nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "value",
			Message: err.Error(),
		})
	}
	if err := checkOptionCodes(definition, input.Value); err != nil {
		return nil, err
	}

	exists, err := service.repository.EntityExists(context, entity)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEntityNotFound
	}

	now := time.Now().UTC()
	row := &Value{
		ID:          uuidv7.New(),
		EntityType:  entity.Type,
		EntityID:    entity.ID,
		AttributeID: input.AttributeID,
		Scope:       input.Scope,
		Locale:      normalizedLocale,
		Value:       input.Value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repository.Upsert(context, row); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "value set",
		slog.String("entity_type", string(entity.Type)),
		slog.String("entity_id", entity.ID),
		slog.String("attribute_id", input.AttributeID),
		slog.String("scope", row.Scope),
		slog.String("locale", row.Locale),
	)

	return row, nil
}

// List returns the entity's values matching the filter. There is no implicit
// locale fallback: asking for "en_US" returns only "en_US" rows.
func (service *Service) List(context stdctx.Context, entity EntityRef, filter Filter) ([]Value, error) {
	if err := validateEntity(entity); err != nil {
		return nil, err
	}

	exists, err := service.repository.EntityExists(context, entity)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEntityNotFound
	}

	if filter.Locale != "" {
		if normalized, ok := locale.Normalize(filter.Locale); ok {
			filter.Locale = normalized
		}
	}

	return service.repository.List(context, entity, filter)
}

// Delete removes one value by ID.
func (service *Service) Delete(context stdctx.Context, id string) error {
	return service.repository.Delete(context, id)
}

// DeleteForEntity removes every value of the entity. Product and product
// model deletion call this to avoid orphaned rows, since values have no
// foreign key to their entity.
func (service *Service) DeleteForEntity(context stdctx.Context, entity EntityRef) error {
	removed, err := service.repository.DeleteForEntity(context, entity)
	if err != nil {
		return err
	}

	if removed > 0 {
		service.logger.InfoContext(context, "entity values removed",
			slog.String("entity_type", string(entity.Type)),
			slog.String("entity_id", entity.ID),
			slog.Int("removed", removed),
		)
	}
	return nil
}

// validateEntity checks the entity reference shape.
func validateEntity(entity EntityRef) error {
	return (&validate.Validator{}).
		OneOf("entity_type", string(entity.Type), EntityTypeValues()...).
		Required("entity_id", entity.ID).
		UUID("entity_id", entity.ID).
		Err()
}

// checkOptionCodes verifies that select-type payloads reference codes from
// the attribute's own option set.
func checkOptionCodes(definition *attribute.Attribute, raw json.RawMessage) error {
	var codes []string

	switch definition.BackendType {
	case attribute.BackendOption:
		var code string
		if err := json.Unmarshal(raw, &code); err != nil {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field: "value", Message: "value must be a JSON string",
			})
		}
		codes = []string{code}
	case attribute.BackendOptions:
		if err := json.Unmarshal(raw, &codes); err != nil {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field: "value", Message: "value must be a JSON array of option codes",
			})
		}
	default:
		return nil
	}

	known := make(map[string]bool, len(definition.Options))
	for _, option := range definition.Options {
		known[option.Code] = true
	}

	for _, code := range codes {
		if !known[code] {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "value",
				Message: "Unknown option code " + code,
			})
		}
	}
	return nil
}
