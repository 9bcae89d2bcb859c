package productmodel

import (
	stdctx "context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/vision/internal/catalog/value"
	"github.com/taibuivan/vision/internal/platform/validate"
	"github.com/taibuivan/vision/pkg/pagination"
	"github.com/taibuivan/vision/pkg/uuidv7"
)

// ValueCleaner removes every stored value of a deleted entity. Satisfied by
// the value service; values keep no foreign key, so this call is the only
// thing standing between deletion and orphaned rows.
type ValueCleaner interface {
	DeleteForEntity(context stdctx.Context, entity value.EntityRef) error
}

// Service implements the product model business rules.
type Service struct {
	repository Repository
	values     ValueCleaner
	logger     *slog.Logger
}

// NewService creates the product model service.
func NewService(repository Repository, values ValueCleaner, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		values:     values,
		logger:     logger,
	}
}

// CreateInput carries a new product model.
type CreateInput struct {
	Code            string   `json:"code"`
	Title           string   `json:"title"`
	SKU             *string  `json:"sku"`
	FamilyVariantID *string  `json:"family_variant_id"`
	ParentID        *string  `json:"parent_id"`
	CategoryIDs     []string `json:"category_ids"`
}

// UpdateInput carries a partial product model update. Nil fields are left
// untouched; pointer fields set to the empty string clear the column.
type UpdateInput struct {
	Code            *string  `json:"code"`
	Title           *string  `json:"title"`
	SKU             *string  `json:"sku"`
	FamilyVariantID *string  `json:"family_variant_id"`
	ParentID        *string  `json:"parent_id"`
	CategoryIDs     []string `json:"category_ids"`
}

/*
Create validates and persists a new product model.

Description: Code and SKU uniqueness are pre-checked for clean conflict
responses; the unique indexes settle races. Parent and family variant
references are shape-checked only: the schema deliberately carries no
foreign keys for them and no existence check is performed, preserving the
catalog's loose hierarchy semantics.
*/
func (service *Service) Create(context stdctx.Context, input CreateInput) (*ProductModel, error) {
	if err := validateModel(input.Code, input.SKU, input.FamilyVariantID, input.ParentID, input.CategoryIDs); err != nil {
		return nil, err
	}

	if _, err := service.repository.FindByCode(context, input.Code); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err := service.checkSKUFree(context, input.SKU, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	model := &ProductModel{
		ID:              uuidv7.New(),
		Code:            input.Code,
		Title:           input.Title,
		SKU:             input.SKU,
		FamilyVariantID: input.FamilyVariantID,
		ParentID:        input.ParentID,
		CategoryIDs:     input.CategoryIDs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if model.CategoryIDs == nil {
		model.CategoryIDs = []string{}
	}

	if err := service.repository.Create(context, model); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "product model created",
		slog.String("product_model_id", model.ID),
		slog.String("code", model.Code),
	)

	return model, nil
}

// Get returns one product model.
func (service *Service) Get(context stdctx.Context, id string) (*ProductModel, error) {
	return service.repository.FindByID(context, id)
}

// List returns one page of product models matching the filter.
func (service *Service) List(context stdctx.Context, filter Filter, page pagination.Params) ([]*ProductModel, pagination.Meta, error) {
	models, total, err := service.repository.List(context, filter, page.Size, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	if models == nil {
		models = []*ProductModel{}
	}
	return models, pagination.NewMeta(page.Page, page.Size, total), nil
}

// GetChildren returns one page of the model's direct children. Grandchildren
// require a second call; the hierarchy is never flattened.
func (service *Service) GetChildren(context stdctx.Context, parentID string, page pagination.Params) ([]*ProductModel, pagination.Meta, error) {
	if _, err := service.repository.FindByID(context, parentID); err != nil {
		return nil, pagination.Meta{}, err
	}

	children, total, err := service.repository.ListChildren(context, parentID, page.Size, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	if children == nil {
		children = []*ProductModel{}
	}
	return children, pagination.NewMeta(page.Page, page.Size, total), nil
}

// Update applies a partial update and returns the merged model.
func (service *Service) Update(context stdctx.Context, id string, input UpdateInput) (*ProductModel, error) {
	model, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != model.Code {
		if _, err := service.repository.FindByCode(context, *input.Code); err == nil {
			return nil, ErrDuplicateCode
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		model.Code = *input.Code
	}
	if input.Title != nil {
		model.Title = *input.Title
	}
	if input.SKU != nil {
		if *input.SKU == "" {
			model.SKU = nil
		} else {
			if model.SKU == nil || *model.SKU != *input.SKU {
				if err := service.checkSKUFree(context, input.SKU, model.ID); err != nil {
					return nil, err
				}
			}
			model.SKU = input.SKU
		}
	}
	if input.FamilyVariantID != nil {
		model.FamilyVariantID = emptyToNil(input.FamilyVariantID)
	}
	if input.ParentID != nil {
		model.ParentID = emptyToNil(input.ParentID)
	}
	if input.CategoryIDs != nil {
		model.CategoryIDs = input.CategoryIDs
	}

	if err := validateModel(model.Code, model.SKU, model.FamilyVariantID, model.ParentID, model.CategoryIDs); err != nil {
		return nil, err
	}

	model.UpdatedAt = time.Now().UTC()

	if err := service.repository.Update(context, model); err != nil {
		return nil, err
	}
	return model, nil
}

// Delete removes the model and every value stored against it.
func (service *Service) Delete(context stdctx.Context, id string) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	if err := service.values.DeleteForEntity(context, value.EntityRef{
		Type: value.EntityProductModel,
		ID:   id,
	}); err != nil {
		return err
	}

	service.logger.InfoContext(context, "product model deleted",
		slog.String("product_model_id", id))
	return nil
}

// checkSKUFree verifies the SKU is unused, or used only by excludeID.
func (service *Service) checkSKUFree(context stdctx.Context, sku *string, excludeID string) error {
	if sku == nil || *sku == "" {
		return nil
	}

	existing, err := service.repository.FindBySKU(context, *sku)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return ErrDuplicateSKU
	}
	return nil
}

// validateModel checks the invariants shared by create and update.
func validateModel(code string, sku, familyVariantID, parentID *string, categoryIDs []string) error {
	validator := (&validate.Validator{}).
		Required("code", code).
		Code("code", code)

	if sku != nil && *sku != "" {
		validator.MaxLen("sku", *sku, 128)
	}
	if familyVariantID != nil && *familyVariantID != "" {
		validator.UUID("family_variant_id", *familyVariantID)
	}
	if parentID != nil && *parentID != "" {
		validator.UUID("parent_id", *parentID)
	}
	for _, categoryID := range categoryIDs {
		validator.UUID("category_ids", categoryID)
	}

	return validator.Err()
}

// emptyToNil folds an explicit empty string into a cleared column.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
