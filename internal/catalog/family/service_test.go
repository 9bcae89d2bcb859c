package family

import (
	stdctx "context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vision/pkg/pagination"
	"github.com/taibuivan/vision/pkg/pointer"
	"github.com/taibuivan/vision/pkg/uuidv7"
)

type fakeRepository struct {
	families map[string]*Family
	variants map[string]*Variant
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		families: make(map[string]*Family),
		variants: make(map[string]*Variant),
	}
}

func (f *fakeRepository) Create(_ stdctx.Context, family *Family) error {
	stored := *family
	f.families[family.ID] = &stored
	return nil
}

func (f *fakeRepository) FindByID(_ stdctx.Context, id string) (*Family, error) {
	if stored, ok := f.families[id]; ok {
		family := *stored
		return &family, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) FindByCode(_ stdctx.Context, code string) (*Family, error) {
	for _, stored := range f.families {
		if stored.Code == code {
			family := *stored
			return &family, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) List(_ stdctx.Context, limit, offset int) ([]*Family, int, error) {
	var all []*Family
	for _, stored := range f.families {
		family := *stored
		all = append(all, &family)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeRepository) Update(_ stdctx.Context, family *Family) error {
	if _, ok := f.families[family.ID]; !ok {
		return ErrNotFound
	}
	stored := *family
	f.families[family.ID] = &stored
	return nil
}

func (f *fakeRepository) Delete(_ stdctx.Context, id string) error {
	if _, ok := f.families[id]; !ok {
		return ErrNotFound
	}
	delete(f.families, id)
	for variantID, variant := range f.variants {
		if variant.FamilyID == id {
			delete(f.variants, variantID)
		}
	}
	return nil
}

func (f *fakeRepository) CreateVariant(_ stdctx.Context, variant *Variant) error {
	stored := *variant
	f.variants[variant.ID] = &stored
	return nil
}

func (f *fakeRepository) FindVariantByID(_ stdctx.Context, id string) (*Variant, error) {
	if stored, ok := f.variants[id]; ok {
		variant := *stored
		return &variant, nil
	}
	return nil, ErrVariantNotFound
}

func (f *fakeRepository) FindVariantByCode(_ stdctx.Context, code string) (*Variant, error) {
	for _, stored := range f.variants {
		if stored.Code == code {
			variant := *stored
			return &variant, nil
		}
	}
	return nil, ErrVariantNotFound
}

func (f *fakeRepository) ListVariants(_ stdctx.Context, familyID string) ([]Variant, error) {
	var matched []Variant
	for _, stored := range f.variants {
		if stored.FamilyID == familyID {
			matched = append(matched, *stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Level != matched[j].Level {
			return matched[i].Level < matched[j].Level
		}
		return matched[i].Code < matched[j].Code
	})
	return matched, nil
}

func (f *fakeRepository) UpdateVariant(_ stdctx.Context, variant *Variant) error {
	if _, ok := f.variants[variant.ID]; !ok {
		return ErrVariantNotFound
	}
	stored := *variant
	f.variants[variant.ID] = &stored
	return nil
}

func (f *fakeRepository) DeleteVariant(_ stdctx.Context, id string) error {
	if _, ok := f.variants[id]; !ok {
		return ErrVariantNotFound
	}
	delete(f.variants, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repository := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, logger), repository
}

func TestCreateFamily(t *testing.T) {
	ctx := stdctx.Background()

	t.Run("creates family", func(t *testing.T) {
		service, _ := newTestService(t)

		family, err := service.Create(ctx, CreateInput{
			Code:         "clothing",
			AttributeIDs: []string{uuidv7.New(), uuidv7.New()},
		})

		require.NoError(t, err)
		assert.NotEmpty(t, family.ID)
		assert.Len(t, family.AttributeIDs, 2)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "clothing"})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateInput{Code: "clothing"})
		assert.ErrorIs(t, err, ErrDuplicateCode)
	})

	t.Run("rejects malformed attribute reference", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "clothing", AttributeIDs: []string{"nope"}})
		require.Error(t, err)
		assert.ErrorContains(t, err, "Validation failed")
	})
}

func TestUpdateFamily(t *testing.T) {
	ctx := stdctx.Background()
	service, _ := newTestService(t)

	family, err := service.Create(ctx, CreateInput{Code: "clothing"})
	require.NoError(t, err)
	_, err = service.Create(ctx, CreateInput{Code: "shoes"})
	require.NoError(t, err)

	_, err = service.Update(ctx, family.ID, UpdateInput{Code: pointer.To("shoes")})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	attributeID := uuidv7.New()
	updated, err := service.Update(ctx, family.ID, UpdateInput{AttributeIDs: []string{attributeID}})
	require.NoError(t, err)
	assert.Equal(t, "clothing", updated.Code)
	assert.Equal(t, []string{attributeID}, updated.AttributeIDs)
}

func TestFamilyVariants(t *testing.T) {
	ctx := stdctx.Background()

	t.Run("create requires existing family", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.CreateVariant(ctx, uuidv7.New(), VariantInput{Code: "by_color", Level: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("creates and lists by level", func(t *testing.T) {
		service, _ := newTestService(t)

		family, err := service.Create(ctx, CreateInput{Code: "clothing"})
		require.NoError(t, err)

		axis := uuidv7.New()
		_, err = service.CreateVariant(ctx, family.ID, VariantInput{
			Code: "by_color_size", Level: 2, Axes: []string{axis},
		})
		require.NoError(t, err)
		_, err = service.CreateVariant(ctx, family.ID, VariantInput{
			Code: "by_color", Level: 1, Axes: []string{axis},
		})
		require.NoError(t, err)

		variants, err := service.ListVariants(ctx, family.ID)
		require.NoError(t, err)
		require.Len(t, variants, 2)
		assert.Equal(t, "by_color", variants[0].Code)
		assert.Equal(t, "by_color_size", variants[1].Code)
	})

	t.Run("rejects duplicate variant code", func(t *testing.T) {
		service, _ := newTestService(t)

		family, err := service.Create(ctx, CreateInput{Code: "clothing"})
		require.NoError(t, err)

		_, err = service.CreateVariant(ctx, family.ID, VariantInput{Code: "by_color", Level: 1})
		require.NoError(t, err)
		_, err = service.CreateVariant(ctx, family.ID, VariantInput{Code: "by_color", Level: 1})
		assert.ErrorIs(t, err, ErrDuplicateVariantCode)
	})

	t.Run("rejects out-of-range level", func(t *testing.T) {
		service, _ := newTestService(t)

		family, err := service.Create(ctx, CreateInput{Code: "clothing"})
		require.NoError(t, err)

		_, err = service.CreateVariant(ctx, family.ID, VariantInput{Code: "deep", Level: 3})
		require.Error(t, err)
		assert.ErrorContains(t, err, "Validation failed")
	})
}

func TestListFamilies(t *testing.T) {
	ctx := stdctx.Background()
	service, _ := newTestService(t)

	for _, code := range []string{"clothing", "shoes", "accessories"} {
		_, err := service.Create(ctx, CreateInput{Code: code})
		require.NoError(t, err)
	}

	families, meta, err := service.List(ctx, pagination.Params{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, families, 2)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.Pages)
	assert.Equal(t, "accessories", families[0].Code)
}
