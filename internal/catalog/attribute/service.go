package attribute

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vision/internal/platform/constants"
	"github.com/taibuivan/vision/internal/platform/validate"
	"github.com/taibuivan/vision/pkg/locale"
	"github.com/taibuivan/vision/pkg/pagination"
	"github.com/taibuivan/vision/pkg/uuidv7"
)

// Service implements the attribute catalog business rules on top of a
// [Repository], with an optional Redis read cache for single-attribute loads.
type Service struct {
	repository Repository
	cache      *redis.Client
	logger     *slog.Logger
}

// NewService creates the attribute service. cache may be nil, in which case
// every read goes straight to the repository.
func NewService(repository Repository, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		logger:     logger,
	}
}

// # Inputs

// CreateInput carries a new attribute definition. Options are only accepted
// for select types.
type CreateInput struct {
	Code          string            `json:"code"`
	Type          string            `json:"type"`
	BackendType   string            `json:"backend_type"`
	IsLocalizable bool              `json:"is_localizable"`
	IsScopable    bool              `json:"is_scopable"`
	GroupCode     *string           `json:"group_code"`
	Labels        map[string]string `json:"labels"`
	Config        map[string]any    `json:"config"`
	Options       []OptionInput     `json:"options"`
}

// UpdateInput carries a partial attribute update. Nil fields are left
// untouched; a non-nil Options slice replaces the entire option set.
type UpdateInput struct {
	Code          *string           `json:"code"`
	Type          *string           `json:"type"`
	BackendType   *string           `json:"backend_type"`
	IsLocalizable *bool             `json:"is_localizable"`
	IsScopable    *bool             `json:"is_scopable"`
	GroupCode     *string           `json:"group_code"`
	Labels        map[string]string `json:"labels"`
	Config        map[string]any    `json:"config"`
	Options       []OptionInput     `json:"options"`
}

// OptionInput carries a new or replacement option.
type OptionInput struct {
	Code      string            `json:"code"`
	Labels    map[string]string `json:"labels"`
	SortOrder *string           `json:"sort_order"`
}

// OptionUpdateInput carries a partial option update. Nil fields are left
// untouched.
type OptionUpdateInput struct {
	Code      *string           `json:"code"`
	Labels    map[string]string `json:"labels"`
	SortOrder *string           `json:"sort_order"`
}

// # Attribute Operations

/*
Create validates and persists a new attribute, optionally with an initial
option set.

Description: The code uniqueness pre-check gives a clean DUPLICATE_CODE
response on the common path; the database unique index catches the race
where two creates pass the pre-check simultaneously.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Attribute: The created attribute with its options
  - error: Validation, duplicate, or storage errors
*/
func (service *Service) Create(context stdctx.Context, input CreateInput) (*Attribute, error) {
	if err := validateDefinition(input.Code, input.Type, input.BackendType, input.Labels); err != nil {
		return nil, err
	}

	attributeType := Type(input.Type)
	if len(input.Options) > 0 && !attributeType.IsSelect() {
		return nil, ErrWrongAttributeType
	}
	if err := validateOptionInputs(input.Options); err != nil {
		return nil, err
	}

	if _, err := service.repository.FindByCode(context, input.Code); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	attribute := &Attribute{
		ID:            uuidv7.New(),
		Code:          input.Code,
		Type:          attributeType,
		BackendType:   BackendType(input.BackendType),
		IsLocalizable: input.IsLocalizable,
		IsScopable:    input.IsScopable,
		GroupCode:     input.GroupCode,
		Labels:        normalizeLabels(input.Labels),
		Config:        input.Config,
		CreatedAt:     now,
		UpdatedAt:     now,
		Options:       buildOptions(uuidv7.New, "", input.Options),
	}
	for index := range attribute.Options {
		attribute.Options[index].AttributeID = attribute.ID
	}

	if err := service.repository.Create(context, attribute); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "attribute created",
		slog.String("attribute_id", attribute.ID),
		slog.String("code", attribute.Code),
		slog.String("type", string(attribute.Type)),
		slog.Int("options", len(attribute.Options)),
	)

	return attribute, nil
}

// Get returns one attribute with its options, consulting the read cache first.
func (service *Service) Get(context stdctx.Context, id string) (*Attribute, error) {
	if cached := service.cacheGet(context, id); cached != nil {
		return cached, nil
	}

	attribute, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	service.cacheSet(context, attribute)
	return attribute, nil
}

// List returns one page of attributes matching the filter.
func (service *Service) List(context stdctx.Context, filter Filter, page pagination.Params) ([]*Attribute, pagination.Meta, error) {
	attributes, total, err := service.repository.List(context, filter, page.Size, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	if attributes == nil {
		attributes = []*Attribute{}
	}

	return attributes, pagination.NewMeta(page.Page, page.Size, total), nil
}

/*
Update applies a partial update and returns the refreshed attribute.

Description: Nil input fields keep their current value. A changed code is
re-checked for uniqueness. Type and backend compatibility is enforced on the
merged result, so an update can never leave an attribute in a pairing the
create path would have rejected. A non-nil Options slice destructively
replaces the whole option set.
*/
func (service *Service) Update(context stdctx.Context, id string, input UpdateInput) (*Attribute, error) {
	attribute, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != attribute.Code {
		if err := (&validate.Validator{}).Required("code", *input.Code).Code("code", *input.Code).Err(); err != nil {
			return nil, err
		}
		if _, err := service.repository.FindByCode(context, *input.Code); err == nil {
			return nil, ErrDuplicateCode
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		attribute.Code = *input.Code
	}

	if input.Type != nil {
		attribute.Type = Type(*input.Type)
	}
	if input.BackendType != nil {
		attribute.BackendType = BackendType(*input.BackendType)
	}
	if input.IsLocalizable != nil {
		attribute.IsLocalizable = *input.IsLocalizable
	}
	if input.IsScopable != nil {
		attribute.IsScopable = *input.IsScopable
	}
	if input.GroupCode != nil {
		if *input.GroupCode == "" {
			attribute.GroupCode = nil
		} else {
			attribute.GroupCode = input.GroupCode
		}
	}
	if input.Labels != nil {
		attribute.Labels = normalizeLabels(input.Labels)
	}
	if input.Config != nil {
		attribute.Config = input.Config
	}

	if err := validateDefinition(attribute.Code, string(attribute.Type), string(attribute.BackendType), attribute.Labels); err != nil {
		return nil, err
	}

	replaceOptions := input.Options != nil
	var options []Option
	if replaceOptions {
		if !attribute.Type.IsSelect() {
			return nil, ErrWrongAttributeType
		}
		if err := validateOptionInputs(input.Options); err != nil {
			return nil, err
		}
		options = buildOptions(uuidv7.New, attribute.ID, input.Options)
	}

	attribute.UpdatedAt = time.Now().UTC()

	if err := service.repository.Update(context, attribute, options, replaceOptions); err != nil {
		return nil, err
	}
	service.cacheInvalidate(context, id)

	return service.repository.FindByID(context, id)
}

// Delete removes an attribute. Its options and every stored product value
// referencing it are removed with it.
func (service *Service) Delete(context stdctx.Context, id string) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}
	service.cacheInvalidate(context, id)

	service.logger.InfoContext(context, "attribute deleted", slog.String("attribute_id", id))
	return nil
}

// # Option Operations

// AddOption appends a single option to a select-type attribute.
func (service *Service) AddOption(context stdctx.Context, attributeID string, input OptionInput) (*Option, error) {
	attribute, err := service.repository.FindByID(context, attributeID)
	if err != nil {
		return nil, err
	}
	if !attribute.Type.IsSelect() {
		return nil, ErrWrongAttributeType
	}

	if err := validateOptionInputs([]OptionInput{input}); err != nil {
		return nil, err
	}

	option := &Option{
		ID:          uuidv7.New(),
		AttributeID: attributeID,
		Code:        input.Code,
		Labels:      normalizeLabels(input.Labels),
		SortOrder:   input.SortOrder,
	}

	if err := service.repository.AddOption(context, option); err != nil {
		return nil, err
	}
	service.cacheInvalidate(context, attributeID)

	service.logger.InfoContext(context, "attribute option added",
		slog.String("attribute_id", attributeID),
		slog.String("option_code", option.Code),
	)

	return option, nil
}

// GetOption returns one option scoped to its owning attribute.
func (service *Service) GetOption(context stdctx.Context, attributeID, optionID string) (*Option, error) {
	return service.repository.FindOption(context, attributeID, optionID)
}

// ListOptions returns every option of the attribute in sort order.
func (service *Service) ListOptions(context stdctx.Context, attributeID string) ([]Option, error) {
	if _, err := service.repository.FindByID(context, attributeID); err != nil {
		return nil, err
	}
	return service.repository.ListOptions(context, attributeID)
}

// UpdateOption applies a partial update to one option.
func (service *Service) UpdateOption(context stdctx.Context, attributeID, optionID string, input OptionUpdateInput) (*Option, error) {
	option, err := service.repository.FindOption(context, attributeID, optionID)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		if err := (&validate.Validator{}).Required("code", *input.Code).Code("code", *input.Code).Err(); err != nil {
			return nil, err
		}
		option.Code = *input.Code
	}
	if input.Labels != nil {
		option.Labels = normalizeLabels(input.Labels)
	}
	if input.SortOrder != nil {
		option.SortOrder = input.SortOrder
	}

	if err := service.repository.UpdateOption(context, option); err != nil {
		return nil, err
	}
	service.cacheInvalidate(context, attributeID)

	return option, nil
}

// DeleteOption removes one option from its attribute.
func (service *Service) DeleteOption(context stdctx.Context, attributeID, optionID string) error {
	if err := service.repository.DeleteOption(context, attributeID, optionID); err != nil {
		return err
	}
	service.cacheInvalidate(context, attributeID)
	return nil
}

/*
ReplaceOptions swaps the attribute's entire option set for the given one.

Returns:
  - []Option: The new option set in submission order
  - error: WRONG_ATTRIBUTE_TYPE for non-select attributes, validation or
    storage errors otherwise
*/
func (service *Service) ReplaceOptions(context stdctx.Context, attributeID string, inputs []OptionInput) ([]Option, error) {
	attribute, err := service.repository.FindByID(context, attributeID)
	if err != nil {
		return nil, err
	}
	if !attribute.Type.IsSelect() {
		return nil, ErrWrongAttributeType
	}
	if err := validateOptionInputs(inputs); err != nil {
		return nil, err
	}

	options := buildOptions(uuidv7.New, attributeID, inputs)
	attribute.UpdatedAt = time.Now().UTC()

	if err := service.repository.Update(context, attribute, options, true); err != nil {
		return nil, err
	}
	service.cacheInvalidate(context, attributeID)

	service.logger.InfoContext(context, "attribute options replaced",
		slog.String("attribute_id", attributeID),
		slog.Int("options", len(options)),
	)

	return options, nil
}

/*
ReorderOptions rewrites the option sort keys to match the submitted ID order.

Description: The submitted list must cover the attribute's current option set
exactly. IDs owned by another attribute (or unknown) fail with FOREIGN_OPTION
before set-size problems fail with INCOMPLETE_OPTION_SET, so a single foreign
ID is reported as such even when the count also happens to be wrong.

Returns:
  - []Option: The option set in its new order
*/
func (service *Service) ReorderOptions(context stdctx.Context, attributeID string, orderedIDs []string) ([]Option, error) {
	attribute, err := service.repository.FindByID(context, attributeID)
	if err != nil {
		return nil, err
	}
	if !attribute.Type.IsSelect() {
		return nil, ErrWrongAttributeType
	}

	current := make(map[string]bool, len(attribute.Options))
	for _, option := range attribute.Options {
		current[option.ID] = true
	}

	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !current[id] {
			return nil, ErrForeignOption
		}
		if seen[id] {
			return nil, ErrIncompleteSet
		}
		seen[id] = true
	}
	if len(seen) != len(current) {
		return nil, ErrIncompleteSet
	}

	if err := service.repository.ReorderOptions(context, attributeID, orderedIDs); err != nil {
		return nil, err
	}
	service.cacheInvalidate(context, attributeID)

	return service.repository.ListOptions(context, attributeID)
}

// # Validation Helpers

// validateDefinition checks the invariants shared by create and update:
// code shape, known type and backend identifiers, type/backend compatibility,
// and parseable label locales.
func validateDefinition(code, attributeType, backendType string, labels map[string]string) error {
	validator := (&validate.Validator{}).
		Required("code", code).
		Code("code", code).
		Required("type", attributeType).
		OneOf("type", attributeType, TypeValues()...).
		Required("backend_type", backendType).
		OneOf("backend_type", backendType, BackendTypeValues()...)

	if !validator.HasErrors() {
		validator.Custom("backend_type",
			!Compatible(Type(attributeType), BackendType(backendType)),
			"Backend type is not compatible with attribute type "+attributeType)
	}

	for labelLocale := range labels {
		validator.Locale("labels", labelLocale)
	}

	return validator.Err()
}

// validateOptionInputs checks option codes for shape and intra-set duplicates.
func validateOptionInputs(inputs []OptionInput) error {
	validator := &validate.Validator{}
	seen := make(map[string]bool, len(inputs))

	for _, input := range inputs {
		validator.Required("options.code", input.Code).Code("options.code", input.Code)
		for labelLocale := range input.Labels {
			validator.Locale("options.labels", labelLocale)
		}
		if seen[input.Code] {
			return ErrDuplicateOptionCode
		}
		seen[input.Code] = true
	}

	return validator.Err()
}

// buildOptions materializes option inputs with fresh IDs, preserving order.
func buildOptions(newID func() string, attributeID string, inputs []OptionInput) []Option {
	options := make([]Option, 0, len(inputs))
	for _, input := range inputs {
		options = append(options, Option{
			ID:          newID(),
			AttributeID: attributeID,
			Code:        input.Code,
			Labels:      normalizeLabels(input.Labels),
			SortOrder:   input.SortOrder,
		})
	}
	return options
}

// normalizeLabels canonicalizes label locale keys ("en_us" becomes "en_US").
// Keys that fail to parse are kept verbatim; validation rejects them earlier
// on write paths that care.
func normalizeLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}

	normalized := make(map[string]string, len(labels))
	for key, value := range labels {
		if canonical, ok := locale.Normalize(key); ok {
			normalized[canonical] = value
		} else {
			normalized[key] = value
		}
	}
	return normalized
}

// # Cache Helpers

// cacheGet returns a cached attribute or nil. Cache failures only log.
func (service *Service) cacheGet(context stdctx.Context, id string) *Attribute {
	if service.cache == nil {
		return nil
	}

	payload, err := service.cache.Get(context, constants.RedisPrefixAttribute+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			service.logger.WarnContext(context, "attribute cache read failed",
				slog.String("attribute_id", id), slog.Any("error", err))
		}
		return nil
	}

	attribute := &Attribute{}
	if err := json.Unmarshal(payload, attribute); err != nil {
		service.logger.WarnContext(context, "attribute cache entry corrupt",
			slog.String("attribute_id", id), slog.Any("error", err))
		return nil
	}

	return attribute
}

// cacheSet stores an attribute with the standard TTL. Failures only log.
func (service *Service) cacheSet(context stdctx.Context, attribute *Attribute) {
	if service.cache == nil {
		return
	}

	payload, err := json.Marshal(attribute)
	if err != nil {
		return
	}

	if err := service.cache.Set(context, constants.RedisPrefixAttribute+attribute.ID,
		payload, constants.AttributeCacheTTL).Err(); err != nil {
		service.logger.WarnContext(context, "attribute cache write failed",
			slog.String("attribute_id", attribute.ID), slog.Any("error", err))
	}
}

// cacheInvalidate drops the cache entry after any mutation.
func (service *Service) cacheInvalidate(context stdctx.Context, id string) {
	if service.cache == nil {
		return
	}

	if err := service.cache.Del(context, constants.RedisPrefixAttribute+id).Err(); err != nil {
		service.logger.WarnContext(context, "attribute cache invalidation failed",
			slog.String("attribute_id", id), slog.Any("error", err))
	}
}
