package attribute

import (
	stdctx "context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vision/pkg/pagination"
	"github.com/taibuivan/vision/pkg/pointer"
)

// fakeRepository is an in-memory Repository used to exercise the service
// rules without a database. Uniqueness checks mirror the real indexes.
type fakeRepository struct {
	attributes map[string]*Attribute
	options    map[string][]Option
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		attributes: make(map[string]*Attribute),
		options:    make(map[string][]Option),
	}
}

func (f *fakeRepository) Create(_ stdctx.Context, attribute *Attribute) error {
	for _, existing := range f.attributes {
		if existing.Code == attribute.Code {
			return ErrDuplicateCode
		}
	}

	stored := *attribute
	stored.Options = nil
	f.attributes[attribute.ID] = &stored
	f.options[attribute.ID] = append([]Option{}, attribute.Options...)
	return nil
}

func (f *fakeRepository) FindByID(_ stdctx.Context, id string) (*Attribute, error) {
	stored, ok := f.attributes[id]
	if !ok {
		return nil, ErrNotFound
	}

	attribute := *stored
	attribute.Options = f.sortedOptions(id)
	return &attribute, nil
}

func (f *fakeRepository) FindByCode(_ stdctx.Context, code string) (*Attribute, error) {
	for _, stored := range f.attributes {
		if stored.Code == code {
			attribute := *stored
			return &attribute, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) List(_ stdctx.Context, filter Filter, limit, offset int) ([]*Attribute, int, error) {
	var matched []*Attribute
	for _, stored := range f.attributes {
		if filter.Type != "" && string(stored.Type) != filter.Type {
			continue
		}
		if filter.GroupCode != "" && (stored.GroupCode == nil || *stored.GroupCode != filter.GroupCode) {
			continue
		}
		if filter.IsLocalizable != nil && stored.IsLocalizable != *filter.IsLocalizable {
			continue
		}
		if filter.IsScopable != nil && stored.IsScopable != *filter.IsScopable {
			continue
		}
		attribute := *stored
		matched = append(matched, &attribute)
	}

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

func (f *fakeRepository) Update(_ stdctx.Context, attribute *Attribute, options []Option, replaceOptions bool) error {
	if _, ok := f.attributes[attribute.ID]; !ok {
		return ErrNotFound
	}
	for _, existing := range f.attributes {
		if existing.ID != attribute.ID && existing.Code == attribute.Code {
			return ErrDuplicateCode
		}
	}

	stored := *attribute
	stored.Options = nil
	f.attributes[attribute.ID] = &stored
	if replaceOptions {
		f.options[attribute.ID] = append([]Option{}, options...)
	}
	return nil
}

func (f *fakeRepository) Delete(_ stdctx.Context, id string) error {
	if _, ok := f.attributes[id]; !ok {
		return ErrNotFound
	}
	delete(f.attributes, id)
	delete(f.options, id)
	return nil
}

func (f *fakeRepository) AddOption(_ stdctx.Context, option *Option) error {
	for _, existing := range f.options[option.AttributeID] {
		if existing.Code == option.Code {
			return ErrDuplicateOptionCode
		}
	}
	f.options[option.AttributeID] = append(f.options[option.AttributeID], *option)
	return nil
}

func (f *fakeRepository) FindOption(_ stdctx.Context, attributeID, optionID string) (*Option, error) {
	for _, existing := range f.options[attributeID] {
		if existing.ID == optionID {
			option := existing
			return &option, nil
		}
	}
	return nil, ErrOptionNotFound
}

func (f *fakeRepository) ListOptions(_ stdctx.Context, attributeID string) ([]Option, error) {
	return f.sortedOptions(attributeID), nil
}

func (f *fakeRepository) UpdateOption(_ stdctx.Context, option *Option) error {
	for index, existing := range f.options[option.AttributeID] {
		if existing.ID != option.ID && existing.Code == option.Code {
			return ErrDuplicateOptionCode
		}
		if existing.ID == option.ID {
			f.options[option.AttributeID][index] = *option
			return nil
		}
	}
	return ErrOptionNotFound
}

func (f *fakeRepository) DeleteOption(_ stdctx.Context, attributeID, optionID string) error {
	for index, existing := range f.options[attributeID] {
		if existing.ID == optionID {
			f.options[attributeID] = append(f.options[attributeID][:index], f.options[attributeID][index+1:]...)
			return nil
		}
	}
	return ErrOptionNotFound
}

func (f *fakeRepository) ReorderOptions(_ stdctx.Context, attributeID string, orderedIDs []string) error {
	for position, optionID := range orderedIDs {
		found := false
		for index, existing := range f.options[attributeID] {
			if existing.ID == optionID {
				sortOrder := fmt.Sprintf("%d", position+1)
				f.options[attributeID][index].SortOrder = &sortOrder
				found = true
			}
		}
		if !found {
			return ErrForeignOption
		}
	}
	return nil
}

func (f *fakeRepository) sortedOptions(attributeID string) []Option {
	options := append([]Option{}, f.options[attributeID]...)
	sort.Slice(options, func(i, j int) bool {
		return optionSortKey(options[i]) < optionSortKey(options[j])
	})
	return options
}

func optionSortKey(option Option) string {
	if option.SortOrder == nil {
		// Nulls sort last, as in the SQL ordering.
		return "~" + option.Code
	}
	return *option.SortOrder + "\x00" + option.Code
}

func newTestService(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repository := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, nil, logger), repository
}

// # Attribute Tests

func TestCreateAttribute(t *testing.T) {
	ctx := stdctx.Background()

	t.Run("creates select attribute with options", func(t *testing.T) {
		service, _ := newTestService(t)

		attribute, err := service.Create(ctx, CreateInput{
			Code:        "color",
			Type:        "simple_select",
			BackendType: "option",
			Labels:      map[string]string{"en_US": "Color"},
			Options: []OptionInput{
				{Code: "red"},
				{Code: "blue"},
			},
		})

		require.NoError(t, err)
		assert.NotEmpty(t, attribute.ID)
		assert.Equal(t, TypeSimpleSelect, attribute.Type)
		assert.Len(t, attribute.Options, 2)
		for _, option := range attribute.Options {
			assert.Equal(t, attribute.ID, option.AttributeID)
		}
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "weight", Type: "number", BackendType: "float"})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateInput{Code: "weight", Type: "text", BackendType: "string"})
		assert.ErrorIs(t, err, ErrDuplicateCode)
	})

	t.Run("rejects incompatible backend type", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "weight", Type: "number", BackendType: "string"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "Validation failed")
	})

	t.Run("rejects options on non-select type", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{
			Code:        "name",
			Type:        "text",
			BackendType: "string",
			Options:     []OptionInput{{Code: "red"}},
		})
		assert.ErrorIs(t, err, ErrWrongAttributeType)
	})

	t.Run("rejects duplicate option codes in one payload", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{
			Code:        "size",
			Type:        "simple_select",
			BackendType: "option",
			Options:     []OptionInput{{Code: "xl"}, {Code: "xl"}},
		})
		assert.ErrorIs(t, err, ErrDuplicateOptionCode)
	})

	t.Run("rejects malformed code", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Create(ctx, CreateInput{Code: "Bad-Code", Type: "text", BackendType: "string"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "Validation failed")
	})

	t.Run("normalizes label locales", func(t *testing.T) {
		service, _ := newTestService(t)

		attribute, err := service.Create(ctx, CreateInput{
			Code:        "description",
			Type:        "textarea",
			BackendType: "string",
			Labels:      map[string]string{"en_us": "Description", "fr_fr": "Description"},
		})

		require.NoError(t, err)
		assert.Contains(t, attribute.Labels, "en_US")
		assert.Contains(t, attribute.Labels, "fr_FR")
		assert.NotContains(t, attribute.Labels, "en_us")
	})
}

func TestUpdateAttribute(t *testing.T) {
	ctx := stdctx.Background()

	seed := func(t *testing.T, service *Service) *Attribute {
		t.Helper()
		attribute, err := service.Create(ctx, CreateInput{
			Code:        "material",
			Type:        "simple_select",
			BackendType: "option",
			Options:     []OptionInput{{Code: "wool"}, {Code: "cotton"}},
		})
		require.NoError(t, err)
		return attribute
	}

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		service, _ := newTestService(t)
		created := seed(t, service)

		updated, err := service.Update(ctx, created.ID, UpdateInput{
			Labels: map[string]string{"en_US": "Material"},
		})

		require.NoError(t, err)
		assert.Equal(t, "material", updated.Code)
		assert.Equal(t, TypeSimpleSelect, updated.Type)
		assert.Equal(t, "Material", updated.Labels["en_US"])
		assert.Len(t, updated.Options, 2, "options survive a scalar-only update")
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
	})

	t.Run("rejects code collision with another attribute", func(t *testing.T) {
		service, _ := newTestService(t)
		created := seed(t, service)

		_, err := service.Create(ctx, CreateInput{Code: "fabric", Type: "text", BackendType: "string"})
		require.NoError(t, err)

		_, err = service.Update(ctx, created.ID, UpdateInput{Code: pointer.To("fabric")})
		assert.ErrorIs(t, err, ErrDuplicateCode)
	})

	t.Run("rejects merge into incompatible pairing", func(t *testing.T) {
		service, _ := newTestService(t)
		created := seed(t, service)

		// Changing only the type leaves backend_type "option", which no
		// longer matches.
		_, err := service.Update(ctx, created.ID, UpdateInput{Type: pointer.To("number")})
		require.Error(t, err)
		assert.ErrorContains(t, err, "Validation failed")
	})

	t.Run("non-nil options replaces the whole set", func(t *testing.T) {
		service, repository := newTestService(t)
		created := seed(t, service)

		updated, err := service.Update(ctx, created.ID, UpdateInput{
			Options: []OptionInput{{Code: "silk"}},
		})

		require.NoError(t, err)
		require.Len(t, updated.Options, 1)
		assert.Equal(t, "silk", updated.Options[0].Code)

		stored, err := repository.ListOptions(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("unknown attribute", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Update(ctx, "0198f5a0-0000-7000-8000-000000000000", UpdateInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteAttribute(t *testing.T) {
	ctx := stdctx.Background()
	service, repository := newTestService(t)

	attribute, err := service.Create(ctx, CreateInput{Code: "season", Type: "text", BackendType: "string"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, attribute.ID))
	assert.Empty(t, repository.attributes)

	assert.ErrorIs(t, service.Delete(ctx, attribute.ID), ErrNotFound)
}

func TestListAttributes(t *testing.T) {
	ctx := stdctx.Background()
	service, _ := newTestService(t)

	for index := 0; index < 5; index++ {
		_, err := service.Create(ctx, CreateInput{
			Code:        fmt.Sprintf("attr_%d", index),
			Type:        "text",
			BackendType: "string",
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	attributes, meta, err := service.List(ctx, Filter{}, pagination.Params{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, attributes, 2)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 3, meta.Pages)

	localizable := true
	attributes, meta, err = service.List(ctx, Filter{IsLocalizable: &localizable}, pagination.Params{Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Empty(t, attributes)
	assert.Equal(t, 0, meta.Total)
}

// # Option Tests

func TestAddOption(t *testing.T) {
	ctx := stdctx.Background()

	t.Run("rejects non-select attribute", func(t *testing.T) {
		service, _ := newTestService(t)

		attribute, err := service.Create(ctx, CreateInput{Code: "name", Type: "text", BackendType: "string"})
		require.NoError(t, err)

		_, err = service.AddOption(ctx, attribute.ID, OptionInput{Code: "red"})
		assert.ErrorIs(t, err, ErrWrongAttributeType)
	})

	t.Run("rejects duplicate code within the attribute", func(t *testing.T) {
		service, _ := newTestService(t)

		attribute, err := service.Create(ctx, CreateInput{
			Code: "color", Type: "simple_select", BackendType: "option",
			Options: []OptionInput{{Code: "red"}},
		})
		require.NoError(t, err)

		_, err = service.AddOption(ctx, attribute.ID, OptionInput{Code: "red"})
		assert.ErrorIs(t, err, ErrDuplicateOptionCode)
	})

	t.Run("same code on different attributes is fine", func(t *testing.T) {
		service, _ := newTestService(t)

		first, err := service.Create(ctx, CreateInput{Code: "color", Type: "simple_select", BackendType: "option"})
		require.NoError(t, err)
		second, err := service.Create(ctx, CreateInput{Code: "trim_color", Type: "simple_select", BackendType: "option"})
		require.NoError(t, err)

		_, err = service.AddOption(ctx, first.ID, OptionInput{Code: "red"})
		require.NoError(t, err)
		_, err = service.AddOption(ctx, second.ID, OptionInput{Code: "red"})
		assert.NoError(t, err)
	})
}

func TestReorderOptions(t *testing.T) {
	ctx := stdctx.Background()

	seed := func(t *testing.T, service *Service) *Attribute {
		t.Helper()
		attribute, err := service.Create(ctx, CreateInput{
			Code: "size", Type: "simple_select", BackendType: "option",
			Options: []OptionInput{{Code: "small"}, {Code: "medium"}, {Code: "large"}},
		})
		require.NoError(t, err)
		return attribute
	}

	t.Run("assigns positional sort keys", func(t *testing.T) {
		service, _ := newTestService(t)
		attribute := seed(t, service)

		byCode := make(map[string]string, 3)
		for _, option := range attribute.Options {
			byCode[option.Code] = option.ID
		}

		reordered, err := service.ReorderOptions(ctx, attribute.ID,
			[]string{byCode["large"], byCode["small"], byCode["medium"]})

		require.NoError(t, err)
		require.Len(t, reordered, 3)
		assert.Equal(t, "large", reordered[0].Code)
		assert.Equal(t, "small", reordered[1].Code)
		assert.Equal(t, "medium", reordered[2].Code)
		assert.Equal(t, "1", *reordered[0].SortOrder)
		assert.Equal(t, "3", *reordered[2].SortOrder)
	})

	t.Run("foreign option wins over incomplete set", func(t *testing.T) {
		service, _ := newTestService(t)
		attribute := seed(t, service)

		other, err := service.Create(ctx, CreateInput{
			Code: "fit", Type: "simple_select", BackendType: "option",
			Options: []OptionInput{{Code: "slim"}},
		})
		require.NoError(t, err)

		_, err = service.ReorderOptions(ctx, attribute.ID, []string{other.Options[0].ID})
		assert.ErrorIs(t, err, ErrForeignOption)
	})

	t.Run("incomplete set", func(t *testing.T) {
		service, _ := newTestService(t)
		attribute := seed(t, service)

		_, err := service.ReorderOptions(ctx, attribute.ID, []string{attribute.Options[0].ID})
		assert.ErrorIs(t, err, ErrIncompleteSet)
	})

	t.Run("duplicated id counts as incomplete", func(t *testing.T) {
		service, _ := newTestService(t)
		attribute := seed(t, service)

		_, err := service.ReorderOptions(ctx, attribute.ID, []string{
			attribute.Options[0].ID, attribute.Options[0].ID, attribute.Options[1].ID,
		})
		assert.ErrorIs(t, err, ErrIncompleteSet)
	})
}

func TestReplaceOptions(t *testing.T) {
	ctx := stdctx.Background()
	service, _ := newTestService(t)

	attribute, err := service.Create(ctx, CreateInput{
		Code: "color", Type: "multi_select", BackendType: "options",
		Options: []OptionInput{{Code: "red"}, {Code: "blue"}},
	})
	require.NoError(t, err)

	options, err := service.ReplaceOptions(ctx, attribute.ID, []OptionInput{{Code: "green"}})
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "green", options[0].Code)

	text, err := service.Create(ctx, CreateInput{Code: "note", Type: "text", BackendType: "string"})
	require.NoError(t, err)
	_, err = service.ReplaceOptions(ctx, text.ID, []OptionInput{{Code: "x"}})
	assert.ErrorIs(t, err, ErrWrongAttributeType)
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name    string
		backend BackendType
		raw     string
		wantErr bool
	}{
		{"string accepts text", BackendString, `"hello"`, false},
		{"string rejects number", BackendString, `42`, true},
		{"float accepts number", BackendFloat, `19.99`, false},
		{"float rejects text", BackendFloat, `"19.99"`, true},
		{"boolean accepts bool", BackendBoolean, `true`, false},
		{"option accepts code string", BackendOption, `"red"`, false},
		{"options accepts code array", BackendOptions, `["red","blue"]`, false},
		{"options rejects scalar", BackendOptions, `"red"`, true},
		{"date accepts iso date", BackendDate, `"2026-08-29"`, false},
		{"date accepts rfc3339", BackendDate, `"2026-08-29T10:00:00Z"`, false},
		{"date rejects garbage", BackendDate, `"yesterday"`, true},
		{"json accepts object", BackendJSON, `{"amount": 10, "currency": "USD"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(tt.backend, []byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
