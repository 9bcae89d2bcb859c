package productmodel

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vision/internal/platform/database/schema"
	"github.com/taibuivan/vision/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed product model store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// modelColumns is the canonical select list, shared by every read query.
func modelColumns() string {
	return strings.Join(schema.ProductModel.Columns(), ", ")
}

// Create inserts one product model.
func (repository *PostgresRepository) Create(context context.Context, model *ProductModel) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		schema.ProductModel.Table,
		schema.ProductModel.ID, schema.ProductModel.Code, schema.ProductModel.Title,
		schema.ProductModel.SKU, schema.ProductModel.FamilyVariantID, schema.ProductModel.ParentID,
		schema.ProductModel.CategoryIDs, schema.ProductModel.CreatedAt, schema.ProductModel.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		model.ID, model.Code, model.Title,
		model.SKU, model.FamilyVariantID, model.ParentID,
		model.CategoryIDs, model.CreatedAt, model.UpdatedAt,
	)
	if err != nil {
		return wrapModelConflict(err, "insert_product_model")
	}
	return nil
}

// FindByID returns one product model.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*ProductModel, error) {
	return repository.findBy(context, schema.ProductModel.ID, id, "get_product_model_by_id")
}

// FindByCode returns the product model carrying the code.
func (repository *PostgresRepository) FindByCode(context context.Context, code string) (*ProductModel, error) {
	return repository.findBy(context, schema.ProductModel.Code, code, "get_product_model_by_code")
}

// FindBySKU returns the product model carrying the SKU.
func (repository *PostgresRepository) FindBySKU(context context.Context, sku string) (*ProductModel, error) {
	return repository.findBy(context, schema.ProductModel.SKU, sku, "get_product_model_by_sku")
}

func (repository *PostgresRepository) findBy(context context.Context, column, argument, action string) (*ProductModel, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		modelColumns(), schema.ProductModel.Table, column)

	model, err := scanModel(repository.pool.QueryRow(context, query, argument))
	if err != nil {
		if wrapped := dberr.Wrap(err, action); wrapped == dberr.ErrNotFound {
			return nil, ErrNotFound
		} else {
			return nil, wrapped
		}
	}
	return model, nil
}

/*
List returns one page of product models plus the total match count.

Parameters:
  - context: context.Context
  - filter: Filter (zero values are skipped)
  - limit: int
  - offset: int

Returns:
  - []*ProductModel: Page ordered by created_at DESC
  - int: Total matches independent of the page window
  - error: Storage errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*ProductModel, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE
	`, modelColumns(), schema.ProductModel.Table))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.ProductModel.Code, argID, schema.ProductModel.Title, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.FamilyVariantID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ProductModel.FamilyVariantID, argID))
		args = append(args, filter.FamilyVariantID)
		argID++
	}
	if filter.ParentID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ProductModel.ParentID, argID))
		args = append(args, filter.ParentID)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.ProductModel.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	return repository.queryPage(context, queryBuilder.String(), args, "list_product_models")
}

// ListChildren returns the direct children of one parent model.
func (repository *PostgresRepository) ListChildren(context context.Context, parentID string, limit, offset int) ([]*ProductModel, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`, modelColumns(), schema.ProductModel.Table, schema.ProductModel.ParentID, schema.ProductModel.CreatedAt)

	return repository.queryPage(context, query, []any{parentID, limit, offset}, "list_product_model_children")
}

// Update persists every scalar field of the model.
func (repository *PostgresRepository) Update(context context.Context, model *ProductModel) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $8
	`,
		schema.ProductModel.Table,
		schema.ProductModel.Code, schema.ProductModel.Title, schema.ProductModel.SKU,
		schema.ProductModel.FamilyVariantID, schema.ProductModel.ParentID,
		schema.ProductModel.CategoryIDs, schema.ProductModel.UpdatedAt,
		schema.ProductModel.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		model.Code, model.Title, model.SKU,
		model.FamilyVariantID, model.ParentID,
		model.CategoryIDs, model.UpdatedAt,
		model.ID,
	)
	if err != nil {
		return wrapModelConflict(err, "update_product_model")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one product model. Stored values are cleaned up by the
// service; children keep their dangling parent_id, as the schema allows.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.ProductModel.Table, schema.ProductModel.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_product_model")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// queryPage runs a windowed list query and hydrates the page.
func (repository *PostgresRepository) queryPage(context context.Context, query string, args []any, action string) ([]*ProductModel, int, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var models []*ProductModel
	var totalCount int

	for rows.Next() {
		model := &ProductModel{}
		err := rows.Scan(
			&model.ID, &model.Code, &model.Title, &model.SKU,
			&model.FamilyVariantID, &model.ParentID, &model.CategoryIDs,
			&model.CreatedAt, &model.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_product_model")
		}
		if model.CategoryIDs == nil {
			model.CategoryIDs = []string{}
		}
		models = append(models, model)
	}

	return models, totalCount, nil
}

// scanModel hydrates one product model row.
func scanModel(row pgx.Row) (*ProductModel, error) {
	model := &ProductModel{}
	err := row.Scan(
		&model.ID, &model.Code, &model.Title, &model.SKU,
		&model.FamilyVariantID, &model.ParentID, &model.CategoryIDs,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if model.CategoryIDs == nil {
		model.CategoryIDs = []string{}
	}
	return model, nil
}

// wrapModelConflict maps a unique violation to the specific conflict kind
// using the violated constraint name.
func wrapModelConflict(err error, action string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), schema.ProductModel.SKU) {
		return dberr.WrapConflict(err, action, ErrDuplicateSKU)
	}
	return dberr.WrapConflict(err, action, ErrDuplicateCode)
}
