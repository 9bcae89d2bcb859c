package productmodel

import (
	stdctx "context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vision/internal/catalog/value"
	"github.com/taibuivan/vision/pkg/pagination"
	"github.com/taibuivan/vision/pkg/pointer"
)

type fakeRepository struct {
	models map[string]*ProductModel
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{models: make(map[string]*ProductModel)}
}

func (f *fakeRepository) Create(_ stdctx.Context, model *ProductModel) error {
	stored := *model
	f.models[model.ID] = &stored
	return nil
}

func (f *fakeRepository) FindByID(_ stdctx.Context, id string) (*ProductModel, error) {
	if stored, ok := f.models[id]; ok {
		model := *stored
		return &model, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) FindByCode(_ stdctx.Context, code string) (*ProductModel, error) {
	for _, stored := range f.models {
		if stored.Code == code {
			model := *stored
			return &model, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) FindBySKU(_ stdctx.Context, sku string) (*ProductModel, error) {
	for _, stored := range f.models {
		if stored.SKU != nil && *stored.SKU == sku {
			model := *stored
			return &model, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) List(_ stdctx.Context, filter Filter, limit, offset int) ([]*ProductModel, int, error) {
	var matched []*ProductModel
	for _, stored := range f.models {
		if filter.FamilyVariantID != "" &&
			(stored.FamilyVariantID == nil || *stored.FamilyVariantID != filter.FamilyVariantID) {
			continue
		}
		if filter.ParentID != "" &&
			(stored.ParentID == nil || *stored.ParentID != filter.ParentID) {
			continue
		}
		model := *stored
		matched = append(matched, &model)
	}
	return page(matched, limit, offset)
}

func (f *fakeRepository) ListChildren(_ stdctx.Context, parentID string, limit, offset int) ([]*ProductModel, int, error) {
	var matched []*ProductModel
	for _, stored := range f.models {
		if stored.ParentID != nil && *stored.ParentID == parentID {
			model := *stored
			matched = append(matched, &model)
		}
	}
	return page(matched, limit, offset)
}

func (f *fakeRepository) Update(_ stdctx.Context, model *ProductModel) error {
	if _, ok := f.models[model.ID]; !ok {
		return ErrNotFound
	}
	stored := *model
	f.models[model.ID] = &stored
	return nil
}

func (f *fakeRepository) Delete(_ stdctx.Context, id string) error {
	if _, ok := f.models[id]; !ok {
		return ErrNotFound
	}
	delete(f.models, id)
	return nil
}

// page sorts by ID descending (UUIDv7 is time ordered) and windows.
func page(matched []*ProductModel, limit, offset int) ([]*ProductModel, int, error) {
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// fakeCleaner records which entities had their values removed.
type fakeCleaner struct {
	cleaned []value.EntityRef
}

func (f *fakeCleaner) DeleteForEntity(_ stdctx.Context, entity value.EntityRef) error {
	f.cleaned = append(f.cleaned, entity)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepository, *fakeCleaner) {
	t.Helper()
	repository := newFakeRepository()
	cleaner := &fakeCleaner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, cleaner, logger), repository, cleaner
}

func TestCreateProductModel(t *testing.T) {
	ctx := stdctx.Background()

	t.Run("creates root model", func(t *testing.T) {
		service, _, _ := newTestService(t)

		model, err := service.Create(ctx, CreateInput{Code: "tshirt", Title: "T-Shirt"})

		require.NoError(t, err)
		assert.NotEmpty(t, model.ID)
		assert.Nil(t, model.ParentID)
		assert.NotNil(t, model.CategoryIDs, "category list is never null")
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "tshirt"})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateInput{Code: "tshirt"})
		assert.ErrorIs(t, err, ErrDuplicateCode)
	})

	t.Run("rejects duplicate sku", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "tshirt", SKU: pointer.To("TS-001")})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateInput{Code: "hoodie", SKU: pointer.To("TS-001")})
		assert.ErrorIs(t, err, ErrDuplicateSKU)
	})

	t.Run("two models without sku coexist", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "tshirt"})
		require.NoError(t, err)
		_, err = service.Create(ctx, CreateInput{Code: "hoodie"})
		assert.NoError(t, err)
	})

	t.Run("rejects malformed parent reference", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "tshirt", ParentID: pointer.To("not-a-uuid")})
		require.Error(t, err)
		assert.ErrorContains(t, err, "Validation failed")
	})
}

func TestUpdateProductModel(t *testing.T) {
	ctx := stdctx.Background()

	t.Run("sku collision with another model", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "tshirt", SKU: pointer.To("TS-001")})
		require.NoError(t, err)
		hoodie, err := service.Create(ctx, CreateInput{Code: "hoodie"})
		require.NoError(t, err)

		_, err = service.Update(ctx, hoodie.ID, UpdateInput{SKU: pointer.To("TS-001")})
		assert.ErrorIs(t, err, ErrDuplicateSKU)
	})

	t.Run("keeping own sku is not a conflict", func(t *testing.T) {
		service, _, _ := newTestService(t)

		model, err := service.Create(ctx, CreateInput{Code: "tshirt", SKU: pointer.To("TS-001")})
		require.NoError(t, err)

		updated, err := service.Update(ctx, model.ID, UpdateInput{
			SKU:   pointer.To("TS-001"),
			Title: pointer.To("Classic T-Shirt"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Classic T-Shirt", updated.Title)
	})

	t.Run("empty string clears nullable references", func(t *testing.T) {
		service, _, _ := newTestService(t)

		parent, err := service.Create(ctx, CreateInput{Code: "tshirt"})
		require.NoError(t, err)
		child, err := service.Create(ctx, CreateInput{Code: "tshirt_red", ParentID: &parent.ID})
		require.NoError(t, err)

		updated, err := service.Update(ctx, child.ID, UpdateInput{ParentID: pointer.To("")})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentID)
	})
}

func TestGetChildren(t *testing.T) {
	ctx := stdctx.Background()
	service, _, _ := newTestService(t)

	root, err := service.Create(ctx, CreateInput{Code: "tshirt"})
	require.NoError(t, err)
	child, err := service.Create(ctx, CreateInput{Code: "tshirt_red", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = service.Create(ctx, CreateInput{Code: "tshirt_red_s", ParentID: &child.ID})
	require.NoError(t, err)

	children, meta, err := service.GetChildren(ctx, root.ID, pagination.Params{Page: 1, Size: 20})
	require.NoError(t, err)
	require.Len(t, children, 1, "grandchildren are not flattened into the result")
	assert.Equal(t, "tshirt_red", children[0].Code)
	assert.Equal(t, 1, meta.Total)

	_, _, err = service.GetChildren(ctx, "0198f5a0-0000-7000-8000-000000000000", pagination.Params{Page: 1, Size: 20})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProductModel(t *testing.T) {
	ctx := stdctx.Background()
	service, repository, cleaner := newTestService(t)

	model, err := service.Create(ctx, CreateInput{Code: "tshirt"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, model.ID))

	assert.Empty(t, repository.models)
	require.Len(t, cleaner.cleaned, 1, "stored values are cleaned up with the model")
	assert.Equal(t, value.EntityProductModel, cleaner.cleaned[0].Type)
	assert.Equal(t, model.ID, cleaner.cleaned[0].ID)

	assert.ErrorIs(t, service.Delete(ctx, model.ID), ErrNotFound)
}

func TestListProductModelsPagination(t *testing.T) {
	ctx := stdctx.Background()
	service, _, _ := newTestService(t)

	for index := 0; index < 25; index++ {
		_, err := service.Create(ctx, CreateInput{Code: fmt.Sprintf("model_%02d", index)})
		require.NoError(t, err)
	}

	models, meta, err := service.List(ctx, Filter{}, pagination.Params{Page: 3, Size: 10})
	require.NoError(t, err)
	assert.Len(t, models, 5)
	assert.Equal(t, 25, meta.Total)
	assert.Equal(t, 3, meta.Pages)

	models, meta, err = service.List(ctx, Filter{}, pagination.Params{Page: 4, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, models)
	assert.Equal(t, 25, meta.Total)
}
