package family

import (
	stdctx "context"
	"errors"
	"log/slog"

	"github.com/taibuivan/vision/internal/platform/validate"
	"github.com/taibuivan/vision/pkg/pagination"
	"github.com/taibuivan/vision/pkg/uuidv7"
)

// Service implements the family and family variant business rules.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService creates the family service.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// CreateInput carries a new family.
type CreateInput struct {
	Code         string   `json:"code"`
	AttributeIDs []string `json:"attribute_ids"`
}

// UpdateInput carries a partial family update.
type UpdateInput struct {
	Code         *string  `json:"code"`
	AttributeIDs []string `json:"attribute_ids"`
}

// VariantInput carries a new family variant.
type VariantInput struct {
	Code         string   `json:"code"`
	Level        int      `json:"level"`
	Axes         []string `json:"axes"`
	AttributeIDs []string `json:"attributes"`
}

// VariantUpdateInput carries a partial variant update.
type VariantUpdateInput struct {
	Code         *string  `json:"code"`
	Level        *int     `json:"level"`
	Axes         []string `json:"axes"`
	AttributeIDs []string `json:"attributes"`
}

// # Families

// Create validates and persists a new family.
func (service *Service) Create(context stdctx.Context, input CreateInput) (*Family, error) {
	if err := validateFamily(input.Code, input.AttributeIDs); err != nil {
		return nil, err
	}

	if _, err := service.repository.FindByCode(context, input.Code); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	family := &Family{
		ID:           uuidv7.New(),
		Code:         input.Code,
		AttributeIDs: input.AttributeIDs,
	}
	if family.AttributeIDs == nil {
		family.AttributeIDs = []string{}
	}

	if err := service.repository.Create(context, family); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "family created",
		slog.String("family_id", family.ID),
		slog.String("code", family.Code),
	)

	return family, nil
}

// Get returns one family.
func (service *Service) Get(context stdctx.Context, id string) (*Family, error) {
	return service.repository.FindByID(context, id)
}

// List returns one page of families.
func (service *Service) List(context stdctx.Context, page pagination.Params) ([]*Family, pagination.Meta, error) {
	families, total, err := service.repository.List(context, page.Size, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	if families == nil {
		families = []*Family{}
	}
	return families, pagination.NewMeta(page.Page, page.Size, total), nil
}

// Update applies a partial update to one family.
func (service *Service) Update(context stdctx.Context, id string, input UpdateInput) (*Family, error) {
	family, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != family.Code {
		if _, err := service.repository.FindByCode(context, *input.Code); err == nil {
			return nil, ErrDuplicateCode
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		family.Code = *input.Code
	}
	if input.AttributeIDs != nil {
		family.AttributeIDs = input.AttributeIDs
	}

	if err := validateFamily(family.Code, family.AttributeIDs); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, family); err != nil {
		return nil, err
	}
	return family, nil
}

// Delete removes one family together with its variants.
func (service *Service) Delete(context stdctx.Context, id string) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "family deleted", slog.String("family_id", id))
	return nil
}

// # Family Variants

// CreateVariant persists a new variant under an existing family.
func (service *Service) CreateVariant(context stdctx.Context, familyID string, input VariantInput) (*Variant, error) {
	if _, err := service.repository.FindByID(context, familyID); err != nil {
		return nil, err
	}
	if err := validateVariant(input.Code, input.Level, input.Axes, input.AttributeIDs); err != nil {
		return nil, err
	}

	if _, err := service.repository.FindVariantByCode(context, input.Code); err == nil {
		return nil, ErrDuplicateVariantCode
	} else if !errors.Is(err, ErrVariantNotFound) {
		return nil, err
	}

	variant := &Variant{
		ID:           uuidv7.New(),
		FamilyID:     familyID,
		Code:         input.Code,
		Level:        input.Level,
		Axes:         input.Axes,
		AttributeIDs: input.AttributeIDs,
	}
	normalizeVariant(variant)

	if err := service.repository.CreateVariant(context, variant); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "family variant created",
		slog.String("family_id", familyID),
		slog.String("variant_id", variant.ID),
		slog.String("code", variant.Code),
	)

	return variant, nil
}

// GetVariant returns one variant.
func (service *Service) GetVariant(context stdctx.Context, id string) (*Variant, error) {
	return service.repository.FindVariantByID(context, id)
}

// ListVariants returns every variant of one family.
func (service *Service) ListVariants(context stdctx.Context, familyID string) ([]Variant, error) {
	if _, err := service.repository.FindByID(context, familyID); err != nil {
		return nil, err
	}
	return service.repository.ListVariants(context, familyID)
}

// UpdateVariant applies a partial update to one variant.
func (service *Service) UpdateVariant(context stdctx.Context, id string, input VariantUpdateInput) (*Variant, error) {
	variant, err := service.repository.FindVariantByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != variant.Code {
		if _, err := service.repository.FindVariantByCode(context, *input.Code); err == nil {
			return nil, ErrDuplicateVariantCode
		} else if !errors.Is(err, ErrVariantNotFound) {
			return nil, err
		}
		variant.Code = *input.Code
	}
	if input.Level != nil {
		variant.Level = *input.Level
	}
	if input.Axes != nil {
		variant.Axes = input.Axes
	}
	if input.AttributeIDs != nil {
		variant.AttributeIDs = input.AttributeIDs
	}

	if err := validateVariant(variant.Code, variant.Level, variant.Axes, variant.AttributeIDs); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateVariant(context, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant removes one variant.
func (service *Service) DeleteVariant(context stdctx.Context, id string) error {
	return service.repository.DeleteVariant(context, id)
}

// # Validation Helpers

func validateFamily(code string, attributeIDs []string) error {
	validator := (&validate.Validator{}).
		Required("code", code).
		Code("code", code)

	for _, attributeID := range attributeIDs {
		validator.UUID("attribute_ids", attributeID)
	}

	return validator.Err()
}

func validateVariant(code string, level int, axes, attributeIDs []string) error {
	validator := (&validate.Validator{}).
		Required("code", code).
		Code("code", code).
		Range("level", level, 1, 2)

	for _, axis := range axes {
		validator.UUID("axes", axis)
	}
	for _, attributeID := range attributeIDs {
		validator.UUID("attributes", attributeID)
	}

	return validator.Err()
}
