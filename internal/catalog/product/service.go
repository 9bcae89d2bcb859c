package product

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
// the value service.
type ValueCleaner interface {
	DeleteForEntity(context stdctx.Context, entity value.EntityRef) error
}

// Service implements the product business rules.
type Service struct {
	repository Repository
	values     ValueCleaner
	logger     *slog.Logger
}

// NewService creates the product service.
func NewService(repository Repository, values ValueCleaner, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		values:     values,
		logger:     logger,
	}
}

// CreateInput carries a new product. Enabled defaults to true when omitted.
type CreateInput struct {
	SKU            string  `json:"sku"`
	ProductModelID *string `json:"product_model_id"`
	Enabled        *bool   `json:"enabled"`
}

// UpdateInput carries a partial product update. Nil fields are left
// untouched; an empty ProductModelID detaches the product from its model.
type UpdateInput struct {
	SKU            *string `json:"sku"`
	ProductModelID *string `json:"product_model_id"`
	Enabled        *bool   `json:"enabled"`
}

// Create validates and persists a new product. SKU uniqueness is pre-checked
// for a clean DUPLICATE_SKU; the unique index settles races.
func (service *Service) Create(context stdctx.Context, input CreateInput) (*Product, error) {
	if err := validateProduct(input.SKU, input.ProductModelID); err != nil {
		return nil, err
	}

	if _, err := service.repository.FindBySKU(context, input.SKU); err == nil {
		return nil, ErrDuplicateSKU
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	now := time.Now().UTC()
	product := &Product{
		ID:             uuidv7.New(),
		SKU:            input.SKU,
		ProductModelID: input.ProductModelID,
		Enabled:        enabled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := service.repository.Create(context, product); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "product created",
		slog.String("product_id", product.ID),
		slog.String("sku", product.SKU),
	)

	return product, nil
}

// Get returns one product.
func (service *Service) Get(context stdctx.Context, id string) (*Product, error) {
	return service.repository.FindByID(context, id)
}

// List returns one page of products matching the filter.
func (service *Service) List(context stdctx.Context, filter Filter, page pagination.Params) ([]*Product, pagination.Meta, error) {
	products, total, err := service.repository.List(context, filter, page.Size, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	if products == nil {
		products = []*Product{}
	}
	return products, pagination.NewMeta(page.Page, page.Size, total), nil
}

// Update applies a partial update and returns the merged product.
func (service *Service) Update(context stdctx.Context, id string, input UpdateInput) (*Product, error) {
	product, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil && *input.SKU != product.SKU {
		if existing, err := service.repository.FindBySKU(context, *input.SKU); err == nil {
			if existing.ID != product.ID {
				return nil, ErrDuplicateSKU
			}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		product.SKU = *input.SKU
	}
	if input.ProductModelID != nil {
		if *input.ProductModelID == "" {
			product.ProductModelID = nil
		} else {
			product.ProductModelID = input.ProductModelID
		}
	}
	if input.Enabled != nil {
		product.Enabled = *input.Enabled
	}

	if err := validateProduct(product.SKU, product.ProductModelID); err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now().UTC()

	if err := service.repository.Update(context, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product and every value stored against it.
func (service *Service) Delete(context stdctx.Context, id string) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	if err := service.values.DeleteForEntity(context, value.EntityRef{
		Type: value.EntityProduct,
		ID:   id,
	}); err != nil {
		return err
	}

	service.logger.InfoContext(context, "product deleted", slog.String("product_id", id))
	return nil
}

// validateProduct checks the invariants shared by create and update.
func validateProduct(sku string, productModelID *string) error {
	validator := (&validate.Validator{}).
		Required("sku", sku).
		MaxLen("sku", sku, 128)

	if productModelID != nil && *productModelID != "" {
		validator.UUID("product_model_id", *productModelID)
	}

	return validator.Err()
}
