package value

import (
	stdctx "context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vision/internal/catalog/attribute"
	"github.com/taibuivan/vision/internal/platform/apperr"
	"github.com/taibuivan/vision/pkg/uuidv7"
)

// fakeRepository keys rows by the 5-tuple, mirroring the unique index.
type fakeRepository struct {
	rows     map[string]*Value // by 5-tuple key
	entities map[string]bool   // "type/id"
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		rows:     make(map[string]*Value),
		entities: make(map[string]bool),
	}
}

func tupleKey(v *Value) string {
	return string(v.EntityType) + "/" + v.EntityID + "/" + v.AttributeID + "/" + v.Scope + "/" + v.Locale
}

func (f *fakeRepository) addEntity(entity EntityRef) {
	f.entities[string(entity.Type)+"/"+entity.ID] = true
}

func (f *fakeRepository) Upsert(_ stdctx.Context, value *Value) error {
	key := tupleKey(value)
	if existing, ok := f.rows[key]; ok {
		existing.Value = value.Value
		existing.UpdatedAt = value.UpdatedAt
		*value = *existing
		return nil
	}

	stored := *value
	f.rows[key] = &stored
	return nil
}

func (f *fakeRepository) FindByID(_ stdctx.Context, id string) (*Value, error) {
	for _, stored := range f.rows {
		if stored.ID == id {
			row := *stored
			return &row, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) List(_ stdctx.Context, entity EntityRef, filter Filter) ([]Value, error) {
	var matched []Value
	for _, stored := range f.rows {
		if stored.EntityType != entity.Type || stored.EntityID != entity.ID {
			continue
		}
		if filter.AttributeID != "" && stored.AttributeID != filter.AttributeID {
			continue
		}
		if filter.Scope != "" && stored.Scope != filter.Scope {
			continue
		}
		if filter.Locale != "" && stored.Locale != filter.Locale {
			continue
		}
		matched = append(matched, *stored)
	}

	sort.Slice(matched, func(i, j int) bool {
		return tupleKey(&matched[i]) < tupleKey(&matched[j])
	})
	return matched, nil
}

func (f *fakeRepository) Delete(_ stdctx.Context, id string) error {
	for key, stored := range f.rows {
		if stored.ID == id {
			delete(f.rows, key)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepository) DeleteForEntity(_ stdctx.Context, entity EntityRef) (int, error) {
	removed := 0
	for key, stored := range f.rows {
		if stored.EntityType == entity.Type && stored.EntityID == entity.ID {
			delete(f.rows, key)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeRepository) EntityExists(_ stdctx.Context, entity EntityRef) (bool, error) {
	return f.entities[string(entity.Type)+"/"+entity.ID], nil
}

// fakeAttributes serves attribute definitions by ID.
type fakeAttributes struct {
	byID map[string]*attribute.Attribute
}

func (f *fakeAttributes) Get(_ stdctx.Context, id string) (*attribute.Attribute, error) {
	if definition, ok := f.byID[id]; ok {
		return definition, nil
	}
	return nil, attribute.ErrNotFound
}

type fixture struct {
	service    *Service
	repository *fakeRepository
	attributes *fakeAttributes
	product    EntityRef
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repository := newFakeRepository()
	attributes := &fakeAttributes{byID: make(map[string]*attribute.Attribute)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	product := EntityRef{Type: EntityProduct, ID: uuidv7.New()}
	repository.addEntity(product)

	return &fixture{
		service:    NewService(repository, attributes, logger),
		repository: repository,
		attributes: attributes,
		product:    product,
	}
}

func (f *fixture) addAttribute(definition attribute.Attribute) string {
	definition.ID = uuidv7.New()
	f.attributes.byID[definition.ID] = &definition
	return definition.ID
}

func TestSetValue(t *testing.T) {
	ctx := stdctx.Background()

	t.Run("upsert overwrites payload in place", func(t *testing.T) {
		f := newFixture(t)
		attributeID := f.addAttribute(attribute.Attribute{
			Code: "name", Type: attribute.TypeText, BackendType: attribute.BackendString,
		})

		first, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID,
			Value:       json.RawMessage(`"Old name"`),
		})
		require.NoError(t, err)

		second, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID,
			Value:       json.RawMessage(`"New name"`),
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID, "same 5-tuple addresses the same row")
		assert.JSONEq(t, `"New name"`, string(second.Value))
		assert.Len(t, f.repository.rows, 1)
	})

	t.Run("distinct locales are distinct rows", func(t *testing.T) {
		f := newFixture(t)
		attributeID := f.addAttribute(attribute.Attribute{
			Code: "name", Type: attribute.TypeText, BackendType: attribute.BackendString,
			IsLocalizable: true,
		})

		_, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Locale: "en_US", Value: json.RawMessage(`"Chair"`),
		})
		require.NoError(t, err)
		_, err = f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Locale: "fr_FR", Value: json.RawMessage(`"Chaise"`),
		})
		require.NoError(t, err)

		assert.Len(t, f.repository.rows, 2)
	})

	t.Run("locale is canonicalized before addressing", func(t *testing.T) {
		f := newFixture(t)
		attributeID := f.addAttribute(attribute.Attribute{
			Code: "name", Type: attribute.TypeText, BackendType: attribute.BackendString,
			IsLocalizable: true,
		})

		_, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Locale: "en_US", Value: json.RawMessage(`"Chair"`),
		})
		require.NoError(t, err)

		row, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Locale: "en_us", Value: json.RawMessage(`"Armchair"`),
		})
		require.NoError(t, err)

		assert.Equal(t, "en_US", row.Locale)
		assert.Len(t, f.repository.rows, 1, "case variants address the same row")
	})

	t.Run("scope rejected on non-scopable attribute", func(t *testing.T) {
		f := newFixture(t)
		attributeID := f.addAttribute(attribute.Attribute{
			Code: "name", Type: attribute.TypeText, BackendType: attribute.BackendString,
		})

		_, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Scope: "ecommerce", Value: json.RawMessage(`"x"`),
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})

	t.Run("locale rejected on non-localizable attribute", func(t *testing.T) {
		f := newFixture(t)
		attributeID := f.addAttribute(attribute.Attribute{
			Code: "weight", Type: attribute.TypeNumber, BackendType: attribute.BackendFloat,
		})

		_, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Locale: "en_US", Value: json.RawMessage(`42`),
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})

	t.Run("payload shape must match backend type", func(t *testing.T) {
		f := newFixture(t)
		attributeID := f.addAttribute(attribute.Attribute{
			Code: "weight", Type: attribute.TypeNumber, BackendType: attribute.BackendFloat,
		})

		_, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Value: json.RawMessage(`"not a number"`),
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})

	t.Run("unknown attribute", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: uuidv7.New(), Value: json.RawMessage(`"x"`),
		})
		assert.ErrorIs(t, err, ErrAttributeNotFound)
	})

	t.Run("unknown entity", func(t *testing.T) {
		f := newFixture(t)
		attributeID := f.addAttribute(attribute.Attribute{
			Code: "name", Type: attribute.TypeText, BackendType: attribute.BackendString,
		})

		ghost := EntityRef{Type: EntityProductModel, ID: uuidv7.New()}
		_, err := f.service.Set(ctx, ghost, SetInput{
			AttributeID: attributeID, Value: json.RawMessage(`"x"`),
		})
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})

	t.Run("select payload must reference known option codes", func(t *testing.T) {
		f := newFixture(t)
		attributeID := f.addAttribute(attribute.Attribute{
			Code: "color", Type: attribute.TypeSimpleSelect, BackendType: attribute.BackendOption,
			Options: []attribute.Option{{Code: "red"}, {Code: "blue"}},
		})

		_, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Value: json.RawMessage(`"red"`),
		})
		require.NoError(t, err)

		_, err = f.service.Set(ctx, f.product, SetInput{
			AttributeID: attributeID, Value: json.RawMessage(`"chartreuse"`),
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})
}

func TestListValues(t *testing.T) {
	ctx := stdctx.Background()
	f := newFixture(t)

	nameID := f.addAttribute(attribute.Attribute{
		Code: "name", Type: attribute.TypeText, BackendType: attribute.BackendString,
	})
	weightID := f.addAttribute(attribute.Attribute{
		Code: "weight", Type: attribute.TypeNumber, BackendType: attribute.BackendFloat,
	})

	_, err := f.service.Set(ctx, f.product, SetInput{AttributeID: nameID, Value: json.RawMessage(`"Chair"`)})
	require.NoError(t, err)
	_, err = f.service.Set(ctx, f.product, SetInput{AttributeID: weightID, Value: json.RawMessage(`12.5`)})
	require.NoError(t, err)

	all, err := f.service.List(ctx, f.product, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.service.List(ctx, f.product, Filter{AttributeID: weightID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, weightID, filtered[0].AttributeID)

	_, err = f.service.List(ctx, EntityRef{Type: EntityProduct, ID: uuidv7.New()}, Filter{})
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestDeleteForEntity(t *testing.T) {
	ctx := stdctx.Background()
	f := newFixture(t)

	nameID := f.addAttribute(attribute.Attribute{
		Code: "name", Type: attribute.TypeText, BackendType: attribute.BackendString,
		IsLocalizable: true,
	})

	for _, loc := range []string{"en_US", "fr_FR", "de_DE"} {
		_, err := f.service.Set(ctx, f.product, SetInput{
			AttributeID: nameID, Locale: loc, Value: json.RawMessage(`"x"`),
		})
		require.NoError(t, err)
	}

	other := EntityRef{Type: EntityProductModel, ID: uuidv7.New()}
	f.repository.addEntity(other)
	_, err := f.service.Set(ctx, other, SetInput{
		AttributeID: nameID, Locale: "en_US", Value: json.RawMessage(`"y"`),
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteForEntity(ctx, f.product))

	assert.Len(t, f.repository.rows, 1, "only the other entity's value survives")
}
